package response

import (
	"errors"
	"net/http"

	"github.com/workzen-hrms/hrms-backend-go/internal/domain/employee"
	"github.com/workzen-hrms/hrms-backend-go/internal/domain/payroll"
	"github.com/workzen-hrms/hrms-backend-go/internal/domain/user"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	switch {
	// Identity/role errors
	case errors.Is(err, user.ErrMissingUserClaim):
		Unauthorized(w, "Invalid or missing credentials")
	case errors.Is(err, user.ErrAdminAccessRequired):
		Forbidden(w, "Admin access required")
	case errors.Is(err, user.ErrRoleNotPermitted):
		Forbidden(w, "Role not permitted for this operation")
	case errors.Is(err, user.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found or not active")
	case errors.Is(err, employee.ErrEmployeeNotActive):
		NotFound(w, "Employee not found or not active")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Month and year are required", nil)
	case errors.Is(err, payroll.ErrMissingEmployeeID):
		BadRequest(w, "Employee ID is required", nil)
	case errors.Is(err, payroll.ErrInvalidAction):
		BadRequest(w, "Action must be approve, reject or lock", nil)
	case errors.Is(err, payroll.ErrInvalidPolicy):
		BadRequest(w, "Working days per month must be positive", nil)
	case errors.Is(err, payroll.ErrPayrunAlreadyExists):
		Conflict(w, "Payroll already generated for this month")
	case errors.Is(err, payroll.ErrPayrunNotFound):
		NotFound(w, "Payrun not found")
	case errors.Is(err, payroll.ErrPayrollNotFound):
		NotFound(w, "Payroll record not found")

	// The approval is committed at this point; only the payslip stage
	// needs a retry.
	case errors.Is(err, payroll.ErrPayslipGeneration):
		InternalServerError(w, "Payrun approved but payslip generation failed, please retry payslip generation")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
