package user

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrAdminAccessRequired = errors.New("admin access required")
	ErrRoleNotPermitted    = errors.New("role not permitted for this operation")
	ErrMissingUserClaim    = errors.New("user_id claim is missing or invalid")
	ErrInvalidToken        = errors.New("invalid token")
)
