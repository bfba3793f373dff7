package postgresql

import (
	"context"
	"fmt"

	"github.com/workzen-hrms/hrms-backend-go/internal/domain/leave"
	"github.com/workzen-hrms/hrms-backend-go/internal/pkg/database"
)

type leaveRequestRepository struct {
	db *database.DB
}

// NewLeaveRequestRepository creates a new leave request repository
func NewLeaveRequestRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRequestRepository{db: db}
}

// ApprovedDaysByEmployee sums approved leave days per employee for the month.
// A request is attributed to the month its start date falls in.
func (r *leaveRequestRepository) ApprovedDaysByEmployee(ctx context.Context, month, year int) ([]leave.ApprovedDays, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, COALESCE(SUM(total_days), 0) AS total_days
		FROM leave_requests
		WHERE status = 'Approved'
			AND EXTRACT(MONTH FROM start_date) = $1
			AND EXTRACT(YEAR FROM start_date) = $2
		GROUP BY employee_id
	`

	rows, err := q.Query(ctx, query, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query approved leave days: %w", err)
	}
	defer rows.Close()

	var results []leave.ApprovedDays
	for rows.Next() {
		var d leave.ApprovedDays
		if err := rows.Scan(&d.EmployeeID, &d.TotalDays); err != nil {
			return nil, fmt.Errorf("failed to scan leave days: %w", err)
		}
		results = append(results, d)
	}

	return results, rows.Err()
}

// EmployeeApprovedDays sums one employee's approved leave days for the month.
func (r *leaveRequestRepository) EmployeeApprovedDays(ctx context.Context, employeeID string, month, year int) (float64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(total_days), 0)
		FROM leave_requests
		WHERE employee_id = $1
			AND status = 'Approved'
			AND EXTRACT(MONTH FROM start_date) = $2
			AND EXTRACT(YEAR FROM start_date) = $3
	`

	var total float64
	if err := q.QueryRow(ctx, query, employeeID, month, year).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to query employee leave days: %w", err)
	}

	return total, nil
}
