package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/workzen-hrms/hrms-backend-go/internal/domain/user"
	"github.com/workzen-hrms/hrms-backend-go/internal/pkg/database"
)

type userRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepository{db: db}
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, email, role, is_active, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var u user.User
	var role string

	err := q.QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.Email,
		&role,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	u.Role = user.Role(role)
	return u, nil
}

// GetActiveByRole retrieves active users holding the given role
func (r *userRepository) GetActiveByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, email, role, is_active, created_at, updated_at
		FROM users
		WHERE role = $1 AND is_active = true
	`

	rows, err := q.Query(ctx, query, string(role))
	if err != nil {
		return nil, fmt.Errorf("failed to query users by role: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		var u user.User
		var roleValue string

		if err := rows.Scan(
			&u.ID,
			&u.Email,
			&roleValue,
			&u.IsActive,
			&u.CreatedAt,
			&u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}

		u.Role = user.Role(roleValue)
		users = append(users, u)
	}

	return users, rows.Err()
}
