package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/workzen-hrms/hrms-backend-go/internal/domain/payroll"
	"github.com/workzen-hrms/hrms-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

// NewPayrollRepository creates a new payroll repository
func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollColumns = `
	p.id, p.employee_id, p.payrun_id, p.month, p.year,
	p.basic_salary, p.allowances, p.deductions, p.gross_salary, p.net_salary,
	p.working_days, p.present_days, p.absent_days, p.leave_days,
	p.bonus, p.penalty,
	p.status, p.payslip_generated, p.payslip_path, p.payslip_sent_at,
	p.generated_by, p.created_at, p.updated_at
`

func scanPayroll(row pgx.Row) (payroll.Payroll, error) {
	var p payroll.Payroll
	var status string

	err := row.Scan(
		&p.ID,
		&p.EmployeeID,
		&p.PayrunID,
		&p.Month,
		&p.Year,
		&p.BasicSalary,
		&p.Allowances,
		&p.Deductions,
		&p.GrossSalary,
		&p.NetSalary,
		&p.WorkingDays,
		&p.PresentDays,
		&p.AbsentDays,
		&p.LeaveDays,
		&p.Bonus,
		&p.Penalty,
		&status,
		&p.PayslipGenerated,
		&p.PayslipPath,
		&p.PayslipSentAt,
		&p.GeneratedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return payroll.Payroll{}, err
	}

	p.Status = payroll.PayrollStatus(status)
	return p, nil
}

func scanPayrollWithEmployee(row pgx.Row) (payroll.Payroll, error) {
	var p payroll.Payroll
	var status string
	var payrunStatus *string

	err := row.Scan(
		&p.ID,
		&p.EmployeeID,
		&p.PayrunID,
		&p.Month,
		&p.Year,
		&p.BasicSalary,
		&p.Allowances,
		&p.Deductions,
		&p.GrossSalary,
		&p.NetSalary,
		&p.WorkingDays,
		&p.PresentDays,
		&p.AbsentDays,
		&p.LeaveDays,
		&p.Bonus,
		&p.Penalty,
		&status,
		&p.PayslipGenerated,
		&p.PayslipPath,
		&p.PayslipSentAt,
		&p.GeneratedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.EmployeeCode,
		&p.FirstName,
		&p.LastName,
		&p.Department,
		&p.Designation,
		&p.EmployeeEmail,
		&p.EmployeeUserID,
		&payrunStatus,
	)
	if err != nil {
		return payroll.Payroll{}, err
	}

	p.Status = payroll.PayrollStatus(status)
	if payrunStatus != nil {
		ps := payroll.PayrunStatus(*payrunStatus)
		p.PayrunStatus = &ps
	}
	return p, nil
}

// Upsert inserts the payroll row, overwriting the computed fields when a row
// already exists for the (employee, month, year) key. Manual bonus and
// penalty adjustments are left as they are.
func (r *payrollRepository) Upsert(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	query := `
		INSERT INTO payroll (
			id, employee_id, payrun_id, month, year,
			basic_salary, allowances, deductions, gross_salary, net_salary,
			working_days, present_days, absent_days, leave_days,
			status, generated_by, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
		ON CONFLICT (employee_id, month, year)
		DO UPDATE SET
			payrun_id = EXCLUDED.payrun_id,
			basic_salary = EXCLUDED.basic_salary,
			allowances = EXCLUDED.allowances,
			deductions = EXCLUDED.deductions,
			gross_salary = EXCLUDED.gross_salary,
			net_salary = EXCLUDED.net_salary,
			working_days = EXCLUDED.working_days,
			present_days = EXCLUDED.present_days,
			absent_days = EXCLUDED.absent_days,
			leave_days = EXCLUDED.leave_days,
			status = EXCLUDED.status,
			generated_by = EXCLUDED.generated_by,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		p.ID,
		p.EmployeeID,
		p.PayrunID,
		p.Month,
		p.Year,
		p.BasicSalary,
		p.Allowances,
		p.Deductions,
		p.GrossSalary,
		p.NetSalary,
		p.WorkingDays,
		p.PresentDays,
		p.AbsentDays,
		p.LeaveDays,
		string(p.Status),
		p.GeneratedBy,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return payroll.Payroll{}, fmt.Errorf("failed to upsert payroll: %w", err)
	}

	return p, nil
}

// GetByEmployeePeriod retrieves one employee's payroll row for the period
func (r *payrollRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM payroll p
		WHERE p.employee_id = $1 AND p.month = $2 AND p.year = $3
	`, payrollColumns)

	p, err := scanPayroll(q.QueryRow(ctx, query, employeeID, month, year))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll: %w", err)
	}

	return p, nil
}

const payrollJoinedQuery = payrollColumns + `,
	e.employee_code, e.first_name, e.last_name, e.department, e.designation,
	u.email, e.user_id, pr.status
	FROM payroll p
	JOIN employees e ON e.id = p.employee_id
	LEFT JOIN users u ON u.id = e.user_id
	LEFT JOIN payruns pr ON pr.id = p.payrun_id
`

// List retrieves payroll rows with employee identity joined, filtered by the
// optional fields of the filter.
func (r *payrollRepository) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := "SELECT " + payrollJoinedQuery + " WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if filter.EmployeeID != nil {
		query += fmt.Sprintf(" AND p.employee_id = $%d", argIndex)
		args = append(args, *filter.EmployeeID)
		argIndex++
	}
	if filter.Month != nil {
		query += fmt.Sprintf(" AND p.month = $%d", argIndex)
		args = append(args, *filter.Month)
		argIndex++
	}
	if filter.Year != nil {
		query += fmt.Sprintf(" AND p.year = $%d", argIndex)
		args = append(args, *filter.Year)
		argIndex++
	}
	if filter.PayrunID != nil {
		query += fmt.Sprintf(" AND p.payrun_id = $%d", argIndex)
		args = append(args, *filter.PayrunID)
		argIndex++
	}
	if filter.Role != nil {
		query += fmt.Sprintf(" AND u.role = $%d", argIndex)
		args = append(args, *filter.Role)
		argIndex++
	}

	query += " ORDER BY p.year DESC, p.month DESC, e.employee_code"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payrolls: %w", err)
	}
	defer rows.Close()

	var payrolls []payroll.Payroll
	for rows.Next() {
		p, err := scanPayrollWithEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll: %w", err)
		}
		payrolls = append(payrolls, p)
	}

	return payrolls, rows.Err()
}

// ListByPayrun retrieves the payrun's rows with employee identity and the
// registered email joined
func (r *payrollRepository) ListByPayrun(ctx context.Context, payrunID string) ([]payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := "SELECT " + payrollJoinedQuery + " WHERE p.payrun_id = $1 ORDER BY e.employee_code"

	rows, err := q.Query(ctx, query, payrunID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payrun payrolls: %w", err)
	}
	defer rows.Close()

	var payrolls []payroll.Payroll
	for rows.Next() {
		p, err := scanPayrollWithEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll: %w", err)
		}
		payrolls = append(payrolls, p)
	}

	return payrolls, rows.Err()
}

// SetStatusByPayrun updates every row of the payrun to the given status
func (r *payrollRepository) SetStatusByPayrun(ctx context.Context, payrunID string, status payroll.PayrollStatus) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE payroll SET status = $1, updated_at = NOW() WHERE payrun_id = $2`

	_, err := q.Exec(ctx, query, string(status), payrunID)
	if err != nil {
		return fmt.Errorf("failed to update payroll statuses: %w", err)
	}

	return nil
}

// MarkPayslipGenerated records the stored payslip artifact path
func (r *payrollRepository) MarkPayslipGenerated(ctx context.Context, payrollID string, path string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll
		SET payslip_generated = true, payslip_path = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := q.Exec(ctx, query, path, payrollID)
	if err != nil {
		return fmt.Errorf("failed to mark payslip generated: %w", err)
	}
	if result.RowsAffected() == 0 {
		return payroll.ErrPayrollNotFound
	}

	return nil
}

// MarkPayslipSent records the payslip email delivery time
func (r *payrollRepository) MarkPayslipSent(ctx context.Context, payrollID string, sentAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE payroll SET payslip_sent_at = $1, updated_at = NOW() WHERE id = $2`

	result, err := q.Exec(ctx, query, sentAt, payrollID)
	if err != nil {
		return fmt.Errorf("failed to mark payslip sent: %w", err)
	}
	if result.RowsAffected() == 0 {
		return payroll.ErrPayrollNotFound
	}

	return nil
}

// OrphanGroups clusters payroll rows with no payrun link by period,
// totalling them from the rows themselves
func (r *payrollRepository) OrphanGroups(ctx context.Context) ([]payroll.OrphanGroup, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT month, year, COUNT(*),
			COALESCE(SUM(gross_salary), 0),
			COALESCE(SUM(deductions), 0),
			COALESCE(SUM(net_salary), 0)
		FROM payroll
		WHERE payrun_id IS NULL
		GROUP BY month, year
		ORDER BY year, month
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query orphan payrolls: %w", err)
	}
	defer rows.Close()

	var groups []payroll.OrphanGroup
	for rows.Next() {
		var g payroll.OrphanGroup
		if err := rows.Scan(&g.Month, &g.Year, &g.Employees, &g.Gross, &g.Deductions, &g.Net); err != nil {
			return nil, fmt.Errorf("failed to scan orphan group: %w", err)
		}
		groups = append(groups, g)
	}

	return groups, rows.Err()
}

// LinkOrphansToPayrun attaches unlinked rows of the period to the payrun
func (r *payrollRepository) LinkOrphansToPayrun(ctx context.Context, payrunID string, month, year int) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll
		SET payrun_id = $1, updated_at = NOW()
		WHERE payrun_id IS NULL AND month = $2 AND year = $3
	`

	_, err := q.Exec(ctx, query, payrunID, month, year)
	if err != nil {
		return fmt.Errorf("failed to link orphan payrolls: %w", err)
	}

	return nil
}
