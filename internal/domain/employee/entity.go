package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID           string
	UserID       *string
	EmployeeCode string
	FirstName    string
	LastName     string
	Department   *string
	Designation  *string
	Status       Status
	BasicSalary  decimal.Decimal
	Allowances   decimal.Decimal
	HireDate     time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined fields
	Email *string
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

type Status string

const (
	StatusActive     Status = "active"
	StatusInactive   Status = "inactive"
	StatusTerminated Status = "terminated"
)
