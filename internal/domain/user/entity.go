package user

import "time"

type Role string

const (
	RoleAdmin          Role = "admin"
	RoleHR             Role = "hr"
	RolePayrollOfficer Role = "payroll_officer"
	RoleEmployee       Role = "employee"
)

type User struct {
	ID        string
	Email     string
	Role      Role
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
