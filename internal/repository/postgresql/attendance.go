package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/workzen-hrms/hrms-backend-go/internal/domain/attendance"
	"github.com/workzen-hrms/hrms-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// MonthlySummaries aggregates present/absent day counts per employee for the
// month. Present here means Present or Late; the single-employee variant in
// EmployeeMonthlySummary counts Half Day too.
func (r *attendanceRepository) MonthlySummaries(ctx context.Context, month, year int) ([]attendance.MonthlySummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id,
			COUNT(*) FILTER (WHERE status IN ('Present', 'Late')) AS present_days,
			COUNT(*) FILTER (WHERE status = 'Absent') AS absent_days
		FROM attendance
		WHERE EXTRACT(MONTH FROM date) = $1 AND EXTRACT(YEAR FROM date) = $2
		GROUP BY employee_id
	`

	rows, err := q.Query(ctx, query, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance summaries: %w", err)
	}
	defer rows.Close()

	var summaries []attendance.MonthlySummary
	for rows.Next() {
		var s attendance.MonthlySummary
		if err := rows.Scan(&s.EmployeeID, &s.PresentDays, &s.AbsentDays); err != nil {
			return nil, fmt.Errorf("failed to scan attendance summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// EmployeeMonthlySummary aggregates one employee's counts for the month.
func (r *attendanceRepository) EmployeeMonthlySummary(ctx context.Context, employeeID string, month, year int) (attendance.MonthlySummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE status IN ('Present', 'Late', 'Half Day')) AS present_days,
			COUNT(*) FILTER (WHERE status = 'Absent') AS absent_days
		FROM attendance
		WHERE employee_id = $1
			AND EXTRACT(MONTH FROM date) = $2 AND EXTRACT(YEAR FROM date) = $3
	`

	s := attendance.MonthlySummary{EmployeeID: employeeID}
	err := q.QueryRow(ctx, query, employeeID, month, year).Scan(&s.PresentDays, &s.AbsentDays)
	if err != nil && err != pgx.ErrNoRows {
		return attendance.MonthlySummary{}, fmt.Errorf("failed to query employee attendance: %w", err)
	}

	return s, nil
}
