package attendance

// Status values recorded by the check-in subsystem. The payroll core only
// reads monthly aggregates over them.
type Status string

const (
	StatusPresent Status = "Present"
	StatusLate    Status = "Late"
	StatusAbsent  Status = "Absent"
	StatusHalfDay Status = "Half Day"
)

// MonthlySummary aggregates one employee's attendance for a calendar month.
type MonthlySummary struct {
	EmployeeID  string
	PresentDays int
	AbsentDays  int
}
