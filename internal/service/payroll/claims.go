package payroll

import (
	"context"
	"fmt"

	"github.com/go-chi/jwtauth/v5"

	"github.com/workzen-hrms/hrms-backend-go/internal/domain/user"
)

// claimsFromContext extracts the acting user's identity and role from the
// verified JWT.
func claimsFromContext(ctx context.Context) (userID string, role user.Role, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", "", user.ErrMissingUserClaim
	}

	roleValue, _ := claims["role"].(string)
	return userID, user.Role(roleValue), nil
}
