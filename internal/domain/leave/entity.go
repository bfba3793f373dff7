package leave

// ApprovedDays is the sum of total_days over an employee's approved leave
// requests whose start date falls in the queried month. A request spanning a
// month boundary is attributed wholly to its start month.
type ApprovedDays struct {
	EmployeeID string
	TotalDays  float64
}
