package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/workzen-hrms/hrms-backend-go/internal/domain/attendance"
	"github.com/workzen-hrms/hrms-backend-go/internal/domain/employee"
	"github.com/workzen-hrms/hrms-backend-go/internal/domain/leave"
	"github.com/workzen-hrms/hrms-backend-go/internal/domain/notification"
	"github.com/workzen-hrms/hrms-backend-go/internal/domain/payroll"
	"github.com/workzen-hrms/hrms-backend-go/internal/domain/settings"
	"github.com/workzen-hrms/hrms-backend-go/internal/domain/user"
	"github.com/workzen-hrms/hrms-backend-go/internal/pkg/email"
)

// Transactor runs fn inside a database transaction; repository calls made
// through the fn's context join it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type payrollServiceImpl struct {
	tx             Transactor
	payrollRepo    payroll.PayrollRepository
	payrunRepo     payroll.PayrunRepository
	employeeRepo   employee.EmployeeRepository
	userRepo       user.UserRepository
	attendanceRepo attendance.AttendanceRepository
	leaveRepo      leave.LeaveRepository
	settingsRepo   settings.SettingsRepository
	payslipService payroll.PayslipService
	emailService   email.EmailService
	notifier       notification.Service
}

// NewPayrollService creates the payroll pipeline service
func NewPayrollService(
	tx Transactor,
	payrollRepo payroll.PayrollRepository,
	payrunRepo payroll.PayrunRepository,
	employeeRepo employee.EmployeeRepository,
	userRepo user.UserRepository,
	attendanceRepo attendance.AttendanceRepository,
	leaveRepo leave.LeaveRepository,
	settingsRepo settings.SettingsRepository,
	payslipService payroll.PayslipService,
	emailService email.EmailService,
	notifier notification.Service,
) payroll.PayrollService {
	return &payrollServiceImpl{
		tx:             tx,
		payrollRepo:    payrollRepo,
		payrunRepo:     payrunRepo,
		employeeRepo:   employeeRepo,
		userRepo:       userRepo,
		attendanceRepo: attendanceRepo,
		leaveRepo:      leaveRepo,
		settingsRepo:   settingsRepo,
		payslipService: payslipService,
		emailService:   emailService,
		notifier:       notifier,
	}
}

// GeneratePayrun computes payroll for every active employee of the period and
// records the batch as one payrun. The payrun row, its payroll rows and the
// final totals commit atomically; a failure for any employee aborts the whole
// run. A partial payrun is a worse failure mode than no payrun.
func (s *payrollServiceImpl) GeneratePayrun(ctx context.Context, req payroll.GeneratePayrunRequest) (payroll.GeneratePayrunResponse, error) {
	userID, _, err := claimsFromContext(ctx)
	if err != nil {
		return payroll.GeneratePayrunResponse{}, err
	}

	month, year, err := req.Period()
	if err != nil {
		return payroll.GeneratePayrunResponse{}, err
	}

	// Pre-check; the (month, year) unique constraint catches concurrent racers
	exists, err := s.payrunRepo.ExistsByPeriod(ctx, month, year)
	if err != nil {
		return payroll.GeneratePayrunResponse{}, err
	}
	if exists {
		return payroll.GeneratePayrunResponse{}, payroll.ErrPayrunAlreadyExists
	}

	policy, err := ResolvePolicy(ctx, s.settingsRepo)
	if err != nil {
		return payroll.GeneratePayrunResponse{}, err
	}
	calculator, err := NewBatchPayrollPolicy(policy)
	if err != nil {
		return payroll.GeneratePayrunResponse{}, err
	}

	employees, err := s.employeeRepo.GetAllActive(ctx)
	if err != nil {
		return payroll.GeneratePayrunResponse{}, err
	}

	// One aggregate query each for attendance and leave, never per employee
	attendanceByEmployee, err := s.attendanceSummaries(ctx, month, year)
	if err != nil {
		return payroll.GeneratePayrunResponse{}, err
	}
	leaveByEmployee, err := s.leaveSummaries(ctx, month, year)
	if err != nil {
		return payroll.GeneratePayrunResponse{}, err
	}

	var created payroll.Payrun
	var totals payroll.PayrunTotals

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		created, err = s.payrunRepo.Create(txCtx, payroll.Payrun{
			Month:       month,
			Year:        year,
			Status:      payroll.PayrunStatusDraft,
			GeneratedBy: &userID,
		})
		if err != nil {
			return err
		}

		for _, emp := range employees {
			summary := attendanceByEmployee[emp.ID]
			result := calculator.Calculate(CalculationInput{
				BasicSalary: emp.BasicSalary,
				Allowances:  emp.Allowances,
				PresentDays: summary.PresentDays,
				AbsentDays:  summary.AbsentDays,
				LeaveDays:   leaveByEmployee[emp.ID],
			})

			_, err := s.payrollRepo.Upsert(txCtx, payroll.Payroll{
				EmployeeID:  emp.ID,
				PayrunID:    &created.ID,
				Month:       month,
				Year:        year,
				BasicSalary: result.BasicSalary,
				Allowances:  result.Allowances,
				Deductions:  result.Deductions,
				GrossSalary: result.GrossSalary,
				NetSalary:   result.NetSalary,
				WorkingDays: result.WorkingDays,
				PresentDays: result.PresentDays,
				AbsentDays:  result.AbsentDays,
				LeaveDays:   result.LeaveDays,
				Status:      payroll.PayrollStatusDraft,
				GeneratedBy: &userID,
			})
			if err != nil {
				return fmt.Errorf("failed to store payroll for employee %s: %w", emp.EmployeeCode, err)
			}

			// Accumulate only after the row is safely stored
			totals.Employees++
			totals.Gross = totals.Gross.Add(result.GrossSalary)
			totals.Deductions = totals.Deductions.Add(result.Deductions)
			totals.Net = totals.Net.Add(result.NetSalary)
		}

		return s.payrunRepo.UpdateTotals(txCtx, created.ID, totals, payroll.PayrunStatusPendingApproval)
	})
	if err != nil {
		return payroll.GeneratePayrunResponse{}, err
	}

	s.notifyPayrollOfficers(ctx, month, year)

	return payroll.GeneratePayrunResponse{
		Message:         fmt.Sprintf("Payroll generated for %s %d", payroll.MonthName(month), year),
		PayrunID:        created.ID,
		TotalEmployees:  totals.Employees,
		TotalGross:      totals.Gross,
		TotalDeductions: totals.Deductions,
		TotalNet:        totals.Net,
	}, nil
}

func (s *payrollServiceImpl) attendanceSummaries(ctx context.Context, month, year int) (map[string]attendance.MonthlySummary, error) {
	summaries, err := s.attendanceRepo.MonthlySummaries(ctx, month, year)
	if err != nil {
		return nil, err
	}
	byEmployee := make(map[string]attendance.MonthlySummary, len(summaries))
	for _, summary := range summaries {
		byEmployee[summary.EmployeeID] = summary
	}
	return byEmployee, nil
}

func (s *payrollServiceImpl) leaveSummaries(ctx context.Context, month, year int) (map[string]float64, error) {
	approved, err := s.leaveRepo.ApprovedDaysByEmployee(ctx, month, year)
	if err != nil {
		return nil, err
	}
	byEmployee := make(map[string]float64, len(approved))
	for _, days := range approved {
		byEmployee[days.EmployeeID] = days.TotalDays
	}
	return byEmployee, nil
}

// notifyPayrollOfficers is fire-and-continue: a notification failure never
// aborts a committed payrun.
func (s *payrollServiceImpl) notifyPayrollOfficers(ctx context.Context, month, year int) {
	officers, err := s.userRepo.GetActiveByRole(ctx, user.RolePayrollOfficer)
	if err != nil {
		slog.Error("Failed to load payroll officers for notification", "error", err)
		return
	}

	reqs := make([]notification.CreateNotificationRequest, 0, len(officers))
	for _, officer := range officers {
		reqs = append(reqs, notification.CreateNotificationRequest{
			UserID:    officer.ID,
			Title:     "Payroll Generated",
			Message:   fmt.Sprintf("Payroll for %s %d has been generated and is pending approval", payroll.MonthName(month), year),
			Type:      notification.TypeInfo,
			ActionURL: "/payroll",
		})
	}
	s.notifier.NotifyBulk(ctx, reqs)
}

// GenerateEmployeePayroll computes and upserts one employee's payroll row on
// demand, using the calendar-day policy.
func (s *payrollServiceImpl) GenerateEmployeePayroll(ctx context.Context, req payroll.GenerateEmployeePayrollRequest) (payroll.PayrollBreakdown, error) {
	userID, _, err := claimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollBreakdown{}, err
	}

	month, year, err := req.Validate()
	if err != nil {
		return payroll.PayrollBreakdown{}, err
	}

	emp, err := s.employeeRepo.GetActiveByID(ctx, req.EmployeeID)
	if err != nil {
		return payroll.PayrollBreakdown{}, err
	}

	summary, err := s.attendanceRepo.EmployeeMonthlySummary(ctx, emp.ID, month, year)
	if err != nil {
		return payroll.PayrollBreakdown{}, err
	}
	leaveDays, err := s.leaveRepo.EmployeeApprovedDays(ctx, emp.ID, month, year)
	if err != nil {
		return payroll.PayrollBreakdown{}, err
	}

	calculator, err := NewSingleEmployeePayrollPolicy(payroll.DaysInMonth(month, year))
	if err != nil {
		return payroll.PayrollBreakdown{}, err
	}

	result := calculator.Calculate(CalculationInput{
		BasicSalary: emp.BasicSalary,
		Allowances:  emp.Allowances,
		PresentDays: summary.PresentDays,
		AbsentDays:  summary.AbsentDays,
		LeaveDays:   leaveDays,
	})

	_, err = s.payrollRepo.Upsert(ctx, payroll.Payroll{
		EmployeeID:  emp.ID,
		Month:       month,
		Year:        year,
		BasicSalary: result.BasicSalary,
		Allowances:  result.Allowances,
		Deductions:  result.Deductions,
		GrossSalary: result.GrossSalary,
		NetSalary:   result.NetSalary,
		WorkingDays: result.WorkingDays,
		PresentDays: result.PresentDays,
		AbsentDays:  result.AbsentDays,
		LeaveDays:   result.LeaveDays,
		Status:      payroll.PayrollStatusDraft,
		GeneratedBy: &userID,
	})
	if err != nil {
		return payroll.PayrollBreakdown{}, err
	}

	return payroll.PayrollBreakdown{
		BasicSalary: result.BasicSalary,
		Allowances:  result.Allowances,
		Deductions:  result.Deductions,
		GrossSalary: result.GrossSalary,
		NetSalary:   result.NetSalary,
		WorkingDays: result.WorkingDays,
		PresentDays: result.PresentDays,
		AbsentDays:  result.AbsentDays,
		LeaveDays:   result.LeaveDays,
	}, nil
}

// ProcessPayrunAction runs the approval state machine. The status transition
// commits first; payslip generation runs after the commit so that approval
// never depends on artifact or email infrastructure. When the payslip stage
// fails the approval stays committed and the caller gets ErrPayslipGeneration
// as a retry hint.
func (s *payrollServiceImpl) ProcessPayrunAction(ctx context.Context, req payroll.PayrunActionRequest) (payroll.PayrunActionResponse, error) {
	userID, _, err := claimsFromContext(ctx)
	if err != nil {
		return payroll.PayrunActionResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return payroll.PayrunActionResponse{}, err
	}
	target, _ := req.Action.TargetStatus()

	payrun, err := s.payrunRepo.GetByID(ctx, req.PayrunID)
	if err != nil {
		return payroll.PayrunActionResponse{}, err
	}

	// Re-approving an approved payrun succeeds without re-running side
	// effects. Payslips and emails must not be duplicated.
	if req.Action == payroll.ActionApprove && payrun.Status == payroll.PayrunStatusApproved {
		return payroll.PayrunActionResponse{
			Message: "Payrun is already approved",
			Status:  payroll.PayrunStatusApproved,
		}, nil
	}

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.payrunRepo.UpdateStatus(txCtx, payrun.ID, target, userID, req.Notes); err != nil {
			return err
		}
		if target == payroll.PayrunStatusApproved {
			return s.payrollRepo.SetStatusByPayrun(txCtx, payrun.ID, payroll.PayrollStatusProcessed)
		}
		return nil
	})
	if err != nil {
		return payroll.PayrunActionResponse{}, err
	}

	response := payroll.PayrunActionResponse{
		Message: fmt.Sprintf("Payrun %s successfully", strings.ToLower(string(target))),
		Status:  target,
	}

	if target != payroll.PayrunStatusApproved {
		return response, nil
	}

	result, err := s.payslipService.GenerateForPayrun(ctx, payrun.ID)
	if err != nil {
		slog.Error("Payslip generation failed after approval", "payrun_id", payrun.ID, "error", err)
		return response, fmt.Errorf("%w: %v", payroll.ErrPayslipGeneration, err)
	}
	response.Payslips = &result

	s.sendApprovalSummary(ctx, userID, payrun)

	return response, nil
}

// sendApprovalSummary is best effort; a failed email never changes the result.
func (s *payrollServiceImpl) sendApprovalSummary(ctx context.Context, approverID string, payrun payroll.Payrun) {
	approver, err := s.userRepo.GetByID(ctx, approverID)
	if err != nil {
		slog.Error("Failed to load approver for summary email", "user_id", approverID, "error", err)
		return
	}

	period := fmt.Sprintf("%s %d", payroll.MonthName(payrun.Month), payrun.Year)
	if err := s.emailService.SendPayrunApproved(approver.Email, period, payrun.TotalEmployees, payrun.TotalNet.StringFixed(2)); err != nil {
		slog.Error("Failed to send payrun summary email", "to", approver.Email, "error", err)
	}
}

// ListPayruns repairs legacy orphans first, then lists newest period first.
func (s *payrollServiceImpl) ListPayruns(ctx context.Context, filter payroll.PayrunFilter) ([]payroll.PayrunResponse, error) {
	if err := s.SyncLegacyPayruns(ctx); err != nil {
		// The listing is still served from whatever state the repair reached
		slog.Error("Legacy payrun sync failed before listing", "error", err)
	}

	payruns, err := s.payrunRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.PayrunResponse, 0, len(payruns))
	for _, p := range payruns {
		responses = append(responses, payroll.PayrunResponse{
			ID:               p.ID,
			Month:            p.Month,
			Year:             p.Year,
			Status:           p.Status,
			TotalEmployees:   p.TotalEmployees,
			TotalGross:       p.TotalGross,
			TotalDeductions:  p.TotalDeductions,
			TotalNet:         p.TotalNet,
			GeneratedByEmail: p.GeneratedByEmail,
			ApprovedByEmail:  p.ApprovedByEmail,
			ApprovedAt:       p.ApprovedAt,
			Notes:            p.Notes,
			CreatedAt:        p.CreatedAt,
		})
	}

	return responses, nil
}

// ListPayrolls lists payroll rows with role-based scoping: employees only
// ever see their own rows, and the role filter is honored for admins only.
func (s *payrollServiceImpl) ListPayrolls(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollResponse, error) {
	userID, role, err := claimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if role == user.RoleEmployee {
		emp, err := s.employeeRepo.GetByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return []payroll.PayrollResponse{}, nil
			}
			return nil, err
		}
		filter.EmployeeID = &emp.ID
	}
	if role != user.RoleAdmin {
		filter.Role = nil
	}

	payrolls, err := s.payrollRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.PayrollResponse, 0, len(payrolls))
	for _, p := range payrolls {
		responses = append(responses, toPayrollResponse(p))
	}

	return responses, nil
}

func toPayrollResponse(p payroll.Payroll) payroll.PayrollResponse {
	resp := payroll.PayrollResponse{
		ID:               p.ID,
		EmployeeID:       p.EmployeeID,
		PayrunID:         p.PayrunID,
		Month:            p.Month,
		Year:             p.Year,
		BasicSalary:      p.BasicSalary,
		Allowances:       p.Allowances,
		Deductions:       p.Deductions,
		GrossSalary:      p.GrossSalary,
		NetSalary:        p.NetSalary,
		WorkingDays:      p.WorkingDays,
		PresentDays:      p.PresentDays,
		AbsentDays:       p.AbsentDays,
		LeaveDays:        p.LeaveDays,
		Bonus:            p.Bonus,
		Penalty:          p.Penalty,
		Status:           p.Status,
		PayrunStatus:     p.PayrunStatus,
		PayslipGenerated: p.PayslipGenerated,
		PayslipPath:      p.PayslipPath,
		PayslipSentAt:    p.PayslipSentAt,
		Department:       p.Department,
		Designation:      p.Designation,
		CreatedAt:        p.CreatedAt,
	}
	if p.EmployeeCode != nil {
		resp.EmployeeCode = *p.EmployeeCode
	}
	if p.FirstName != nil && p.LastName != nil {
		resp.EmployeeName = *p.FirstName + " " + *p.LastName
	}
	return resp
}

// SyncLegacyPayruns repairs payroll rows that predate the payrun model. Each
// orphaned (month, year) group gets its payrun totals refreshed, or a new
// payrun in Pending Approval, and the rows are linked back. Idempotent: with
// no orphans it does nothing.
func (s *payrollServiceImpl) SyncLegacyPayruns(ctx context.Context) error {
	groups, err := s.payrollRepo.OrphanGroups(ctx)
	if err != nil {
		return err
	}

	for _, group := range groups {
		err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
			totals := payroll.PayrunTotals{
				Employees:  group.Employees,
				Gross:      group.Gross,
				Deductions: group.Deductions,
				Net:        group.Net,
			}

			existing, err := s.payrunRepo.GetByPeriod(txCtx, group.Month, group.Year)
			switch {
			case err == nil:
				if err := s.payrunRepo.UpdateTotals(txCtx, existing.ID, totals, existing.Status); err != nil {
					return err
				}
				return s.payrollRepo.LinkOrphansToPayrun(txCtx, existing.ID, group.Month, group.Year)
			case errors.Is(err, payroll.ErrPayrunNotFound):
				created, err := s.payrunRepo.Create(txCtx, payroll.Payrun{
					Month:           group.Month,
					Year:            group.Year,
					Status:          payroll.PayrunStatusPendingApproval,
					TotalEmployees:  group.Employees,
					TotalGross:      group.Gross,
					TotalDeductions: group.Deductions,
					TotalNet:        group.Net,
				})
				if err != nil {
					return err
				}
				return s.payrollRepo.LinkOrphansToPayrun(txCtx, created.ID, group.Month, group.Year)
			default:
				return err
			}
		})
		if err != nil {
			return fmt.Errorf("failed to sync payrun for %d-%d: %w", group.Year, group.Month, err)
		}
	}

	return nil
}
