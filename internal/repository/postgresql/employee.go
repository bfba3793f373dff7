package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/workzen-hrms/hrms-backend-go/internal/domain/employee"
	"github.com/workzen-hrms/hrms-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `
	e.id, e.user_id, e.employee_code, e.first_name, e.last_name,
	e.department, e.designation, e.status, e.basic_salary, e.allowances,
	e.hire_date, e.created_at, e.updated_at, u.email
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	var status string

	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.EmployeeCode,
		&e.FirstName,
		&e.LastName,
		&e.Department,
		&e.Designation,
		&status,
		&e.BasicSalary,
		&e.Allowances,
		&e.HireDate,
		&e.CreatedAt,
		&e.UpdatedAt,
		&e.Email,
	)
	if err != nil {
		return employee.Employee{}, err
	}

	e.Status = employee.Status(status)
	return e, nil
}

// GetByID retrieves an employee by ID regardless of status
func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM employees e
		LEFT JOIN users u ON u.id = e.user_id
		WHERE e.id = $1
	`, employeeColumns)

	e, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return e, nil
}

// GetActiveByID retrieves an employee by ID, restricted to active status.
// An existing but inactive employee yields ErrEmployeeNotActive so callers
// can distinguish it from an unknown ID.
func (r *employeeRepository) GetActiveByID(ctx context.Context, id string) (employee.Employee, error) {
	e, err := r.GetByID(ctx, id)
	if err != nil {
		return employee.Employee{}, err
	}
	if e.Status != employee.StatusActive {
		return employee.Employee{}, employee.ErrEmployeeNotActive
	}

	return e, nil
}

// GetByUserID retrieves the employee record linked to a user account
func (r *employeeRepository) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM employees e
		LEFT JOIN users u ON u.id = e.user_id
		WHERE e.user_id = $1
	`, employeeColumns)

	e, err := scanEmployee(q.QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by user: %w", err)
	}

	return e, nil
}

// GetAllActive retrieves every active employee with the user email joined
func (r *employeeRepository) GetAllActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM employees e
		LEFT JOIN users u ON u.id = e.user_id
		WHERE e.status = 'active'
		ORDER BY e.employee_code
	`, employeeColumns)

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}

	return employees, rows.Err()
}
