package user

import "context"

type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)
	// GetActiveByRole returns active users holding the given role,
	// e.g. the payroll officers to notify after a payrun is generated.
	GetActiveByRole(ctx context.Context, role Role) ([]User, error)
}
