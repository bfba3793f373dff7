package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/workzen-hrms/hrms-backend-go/internal/domain/payroll"
	"github.com/workzen-hrms/hrms-backend-go/internal/pkg/database"
)

type payrunRepository struct {
	db *database.DB
}

// NewPayrunRepository creates a new payrun repository
func NewPayrunRepository(db *database.DB) payroll.PayrunRepository {
	return &payrunRepository{db: db}
}

const payrunColumns = `
	pr.id, pr.month, pr.year, pr.status,
	pr.total_employees, pr.total_gross_salary, pr.total_deductions, pr.total_net_salary,
	pr.generated_by, pr.approved_by, pr.approved_at, pr.notes,
	pr.created_at, pr.updated_at, gu.email, au.email
`

func scanPayrun(row pgx.Row) (payroll.Payrun, error) {
	var p payroll.Payrun
	var status string

	err := row.Scan(
		&p.ID,
		&p.Month,
		&p.Year,
		&status,
		&p.TotalEmployees,
		&p.TotalGross,
		&p.TotalDeductions,
		&p.TotalNet,
		&p.GeneratedBy,
		&p.ApprovedBy,
		&p.ApprovedAt,
		&p.Notes,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.GeneratedByEmail,
		&p.ApprovedByEmail,
	)
	if err != nil {
		return payroll.Payrun{}, err
	}

	p.Status = payroll.PayrunStatus(status)
	return p, nil
}

// Create inserts a new payrun. The (month, year) unique constraint turns a
// concurrent duplicate into ErrPayrunAlreadyExists.
func (r *payrunRepository) Create(ctx context.Context, p payroll.Payrun) (payroll.Payrun, error) {
	q := GetQuerier(ctx, r.db)

	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	query := `
		INSERT INTO payruns (
			id, month, year, status,
			total_employees, total_gross_salary, total_deductions, total_net_salary,
			generated_by, approved_by, approved_at, notes, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		p.ID,
		p.Month,
		p.Year,
		string(p.Status),
		p.TotalEmployees,
		p.TotalGross,
		p.TotalDeductions,
		p.TotalNet,
		p.GeneratedBy,
		p.ApprovedBy,
		p.ApprovedAt,
		p.Notes,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return payroll.Payrun{}, payroll.ErrPayrunAlreadyExists
		}
		return payroll.Payrun{}, fmt.Errorf("failed to create payrun: %w", err)
	}

	return p, nil
}

// GetByID retrieves a payrun with generator and approver emails joined
func (r *payrunRepository) GetByID(ctx context.Context, id string) (payroll.Payrun, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM payruns pr
		LEFT JOIN users gu ON gu.id = pr.generated_by
		LEFT JOIN users au ON au.id = pr.approved_by
		WHERE pr.id = $1
	`, payrunColumns)

	p, err := scanPayrun(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payrun{}, payroll.ErrPayrunNotFound
		}
		return payroll.Payrun{}, fmt.Errorf("failed to get payrun: %w", err)
	}

	return p, nil
}

// GetByPeriod retrieves the payrun covering the period
func (r *payrunRepository) GetByPeriod(ctx context.Context, month, year int) (payroll.Payrun, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM payruns pr
		LEFT JOIN users gu ON gu.id = pr.generated_by
		LEFT JOIN users au ON au.id = pr.approved_by
		WHERE pr.month = $1 AND pr.year = $2
	`, payrunColumns)

	p, err := scanPayrun(q.QueryRow(ctx, query, month, year))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payrun{}, payroll.ErrPayrunNotFound
		}
		return payroll.Payrun{}, fmt.Errorf("failed to get payrun by period: %w", err)
	}

	return p, nil
}

// ExistsByPeriod checks whether a payrun covers the period
func (r *payrunRepository) ExistsByPeriod(ctx context.Context, month, year int) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT EXISTS(SELECT 1 FROM payruns WHERE month = $1 AND year = $2)`

	var exists bool
	if err := q.QueryRow(ctx, query, month, year).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check payrun existence: %w", err)
	}

	return exists, nil
}

// List retrieves payruns newest period first, filtered by the optional fields
func (r *payrunRepository) List(ctx context.Context, filter payroll.PayrunFilter) ([]payroll.Payrun, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM payruns pr
		LEFT JOIN users gu ON gu.id = pr.generated_by
		LEFT JOIN users au ON au.id = pr.approved_by
		WHERE 1=1
	`, payrunColumns)
	args := []interface{}{}
	argIndex := 1

	if filter.Month != nil {
		query += fmt.Sprintf(" AND pr.month = $%d", argIndex)
		args = append(args, *filter.Month)
		argIndex++
	}
	if filter.Year != nil {
		query += fmt.Sprintf(" AND pr.year = $%d", argIndex)
		args = append(args, *filter.Year)
		argIndex++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND pr.status = $%d", argIndex)
		args = append(args, *filter.Status)
		argIndex++
	}

	query += " ORDER BY pr.year DESC, pr.month DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payruns: %w", err)
	}
	defer rows.Close()

	var payruns []payroll.Payrun
	for rows.Next() {
		p, err := scanPayrun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payrun: %w", err)
		}
		payruns = append(payruns, p)
	}

	return payruns, rows.Err()
}

// UpdateTotals overwrites the fold totals and status
func (r *payrunRepository) UpdateTotals(ctx context.Context, id string, totals payroll.PayrunTotals, status payroll.PayrunStatus) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payruns
		SET total_employees = $1, total_gross_salary = $2, total_deductions = $3,
			total_net_salary = $4, status = $5, updated_at = NOW()
		WHERE id = $6
	`

	result, err := q.Exec(ctx, query,
		totals.Employees,
		totals.Gross,
		totals.Deductions,
		totals.Net,
		string(status),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update payrun totals: %w", err)
	}
	if result.RowsAffected() == 0 {
		return payroll.ErrPayrunNotFound
	}

	return nil
}

// UpdateStatus records a state transition with the acting approver
func (r *payrunRepository) UpdateStatus(ctx context.Context, id string, status payroll.PayrunStatus, approvedBy string, notes *string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payruns
		SET status = $1, approved_by = $2, approved_at = NOW(), notes = $3, updated_at = NOW()
		WHERE id = $4
	`

	result, err := q.Exec(ctx, query, string(status), approvedBy, notes, id)
	if err != nil {
		return fmt.Errorf("failed to update payrun status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return payroll.ErrPayrunNotFound
	}

	return nil
}
