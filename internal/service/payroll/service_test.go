package payroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workzen-hrms/hrms-backend-go/internal/domain/attendance"
	"github.com/workzen-hrms/hrms-backend-go/internal/domain/employee"
	"github.com/workzen-hrms/hrms-backend-go/internal/domain/leave"
	"github.com/workzen-hrms/hrms-backend-go/internal/domain/notification"
	"github.com/workzen-hrms/hrms-backend-go/internal/domain/payroll"
	"github.com/workzen-hrms/hrms-backend-go/internal/domain/settings"
	"github.com/workzen-hrms/hrms-backend-go/internal/domain/user"
)

// ========== FAKES ==========

type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakePayrollRepo struct {
	payroll.PayrollRepository

	upsertFn       func(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error)
	listFn         func(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.Payroll, error)
	setStatusFn    func(ctx context.Context, payrunID string, status payroll.PayrollStatus) error
	orphanGroupsFn func(ctx context.Context) ([]payroll.OrphanGroup, error)
	linkOrphansFn  func(ctx context.Context, payrunID string, month, year int) error
}

func (f *fakePayrollRepo) Upsert(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	return f.upsertFn(ctx, p)
}

func (f *fakePayrollRepo) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.Payroll, error) {
	return f.listFn(ctx, filter)
}

func (f *fakePayrollRepo) SetStatusByPayrun(ctx context.Context, payrunID string, status payroll.PayrollStatus) error {
	return f.setStatusFn(ctx, payrunID, status)
}

func (f *fakePayrollRepo) OrphanGroups(ctx context.Context) ([]payroll.OrphanGroup, error) {
	return f.orphanGroupsFn(ctx)
}

func (f *fakePayrollRepo) LinkOrphansToPayrun(ctx context.Context, payrunID string, month, year int) error {
	return f.linkOrphansFn(ctx, payrunID, month, year)
}

type fakePayrunRepo struct {
	payroll.PayrunRepository

	createFn       func(ctx context.Context, p payroll.Payrun) (payroll.Payrun, error)
	getByIDFn      func(ctx context.Context, id string) (payroll.Payrun, error)
	getByPeriodFn  func(ctx context.Context, month, year int) (payroll.Payrun, error)
	existsFn       func(ctx context.Context, month, year int) (bool, error)
	listFn         func(ctx context.Context, filter payroll.PayrunFilter) ([]payroll.Payrun, error)
	updateTotalsFn func(ctx context.Context, id string, totals payroll.PayrunTotals, status payroll.PayrunStatus) error
	updateStatusFn func(ctx context.Context, id string, status payroll.PayrunStatus, approvedBy string, notes *string) error
}

func (f *fakePayrunRepo) Create(ctx context.Context, p payroll.Payrun) (payroll.Payrun, error) {
	return f.createFn(ctx, p)
}

func (f *fakePayrunRepo) GetByID(ctx context.Context, id string) (payroll.Payrun, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakePayrunRepo) GetByPeriod(ctx context.Context, month, year int) (payroll.Payrun, error) {
	return f.getByPeriodFn(ctx, month, year)
}

func (f *fakePayrunRepo) ExistsByPeriod(ctx context.Context, month, year int) (bool, error) {
	return f.existsFn(ctx, month, year)
}

func (f *fakePayrunRepo) List(ctx context.Context, filter payroll.PayrunFilter) ([]payroll.Payrun, error) {
	return f.listFn(ctx, filter)
}

func (f *fakePayrunRepo) UpdateTotals(ctx context.Context, id string, totals payroll.PayrunTotals, status payroll.PayrunStatus) error {
	return f.updateTotalsFn(ctx, id, totals, status)
}

func (f *fakePayrunRepo) UpdateStatus(ctx context.Context, id string, status payroll.PayrunStatus, approvedBy string, notes *string) error {
	return f.updateStatusFn(ctx, id, status, approvedBy, notes)
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository

	getActiveByIDFn func(ctx context.Context, id string) (employee.Employee, error)
	getByUserIDFn   func(ctx context.Context, userID string) (employee.Employee, error)
	getAllActiveFn  func(ctx context.Context) ([]employee.Employee, error)
}

func (f *fakeEmployeeRepo) GetActiveByID(ctx context.Context, id string) (employee.Employee, error) {
	return f.getActiveByIDFn(ctx, id)
}

func (f *fakeEmployeeRepo) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	return f.getByUserIDFn(ctx, userID)
}

func (f *fakeEmployeeRepo) GetAllActive(ctx context.Context) ([]employee.Employee, error) {
	return f.getAllActiveFn(ctx)
}

type fakeUserRepo struct {
	user.UserRepository

	getByIDFn         func(ctx context.Context, id string) (user.User, error)
	getActiveByRoleFn func(ctx context.Context, role user.Role) ([]user.User, error)
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeUserRepo) GetActiveByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	return f.getActiveByRoleFn(ctx, role)
}

type fakeAttendanceRepo struct {
	summaries map[string]attendance.MonthlySummary
}

func (f *fakeAttendanceRepo) MonthlySummaries(ctx context.Context, month, year int) ([]attendance.MonthlySummary, error) {
	result := make([]attendance.MonthlySummary, 0, len(f.summaries))
	for _, s := range f.summaries {
		result = append(result, s)
	}
	return result, nil
}

func (f *fakeAttendanceRepo) EmployeeMonthlySummary(ctx context.Context, employeeID string, month, year int) (attendance.MonthlySummary, error) {
	return f.summaries[employeeID], nil
}

type fakeLeaveRepo struct {
	days map[string]float64
}

func (f *fakeLeaveRepo) ApprovedDaysByEmployee(ctx context.Context, month, year int) ([]leave.ApprovedDays, error) {
	result := make([]leave.ApprovedDays, 0, len(f.days))
	for id, d := range f.days {
		result = append(result, leave.ApprovedDays{EmployeeID: id, TotalDays: d})
	}
	return result, nil
}

func (f *fakeLeaveRepo) EmployeeApprovedDays(ctx context.Context, employeeID string, month, year int) (float64, error) {
	return f.days[employeeID], nil
}

type fakeSettingsRepo struct {
	values map[string]string
}

func (f *fakeSettingsRepo) GetValues(ctx context.Context, keys []string) (map[string]string, error) {
	return f.values, nil
}

type fakePayslipService struct {
	calls  int
	result payroll.PayslipGenerationResult
	err    error
}

func (f *fakePayslipService) GenerateForPayrun(ctx context.Context, payrunID string) (payroll.PayslipGenerationResult, error) {
	f.calls++
	return f.result, f.err
}

type fakeEmailService struct {
	payslipCalls int
	summaryCalls int
}

func (f *fakeEmailService) SendPayslip(to, employeeName, period string, payslipHTML string) error {
	f.payslipCalls++
	return nil
}

func (f *fakeEmailService) SendPayrunApproved(to, period string, totalEmployees int, totalNet string) error {
	f.summaryCalls++
	return nil
}

type fakeNotifier struct {
	notifications []notification.CreateNotificationRequest
}

func (f *fakeNotifier) Notify(ctx context.Context, req notification.CreateNotificationRequest) {
	f.notifications = append(f.notifications, req)
}

func (f *fakeNotifier) NotifyBulk(ctx context.Context, reqs []notification.CreateNotificationRequest) {
	f.notifications = append(f.notifications, reqs...)
}

func (f *fakeNotifier) Stop() {}

// ========== HELPERS ==========

func authContext(t *testing.T, userID string, role user.Role) context.Context {
	t.Helper()
	token, err := jwt.NewBuilder().
		Claim("user_id", userID).
		Claim("role", string(role)).
		Claim("type", "access").
		Expiration(time.Now().Add(time.Hour)).
		Build()
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

type serviceFixture struct {
	payrollRepo *fakePayrollRepo
	payrunRepo  *fakePayrunRepo
	employees   *fakeEmployeeRepo
	users       *fakeUserRepo
	payslips    *fakePayslipService
	emails      *fakeEmailService
	notifier    *fakeNotifier
	service     payroll.PayrollService
}

func newServiceFixture(attendanceRepo *fakeAttendanceRepo, leaveRepo *fakeLeaveRepo, settingsRepo *fakeSettingsRepo) *serviceFixture {
	f := &serviceFixture{
		payrollRepo: &fakePayrollRepo{},
		payrunRepo:  &fakePayrunRepo{},
		employees:   &fakeEmployeeRepo{},
		users: &fakeUserRepo{
			getActiveByRoleFn: func(ctx context.Context, role user.Role) ([]user.User, error) {
				return nil, nil
			},
			getByIDFn: func(ctx context.Context, id string) (user.User, error) {
				return user.User{ID: id, Email: id + "@workzen.local"}, nil
			},
		},
		payslips: &fakePayslipService{},
		emails:   &fakeEmailService{},
		notifier: &fakeNotifier{},
	}
	if attendanceRepo == nil {
		attendanceRepo = &fakeAttendanceRepo{}
	}
	if leaveRepo == nil {
		leaveRepo = &fakeLeaveRepo{}
	}
	if settingsRepo == nil {
		settingsRepo = &fakeSettingsRepo{}
	}

	f.service = NewPayrollService(
		fakeTransactor{},
		f.payrollRepo,
		f.payrunRepo,
		f.employees,
		f.users,
		attendanceRepo,
		leaveRepo,
		settingsRepo,
		f.payslips,
		f.emails,
		f.notifier,
	)
	return f
}

func periodRequest(month, year string) payroll.GeneratePayrunRequest {
	var req payroll.GeneratePayrunRequest
	req.Month.UnmarshalJSON([]byte(`"` + month + `"`))
	req.Year.UnmarshalJSON([]byte(`"` + year + `"`))
	return req
}

// ========== PAYRUN GENERATION ==========

func TestGeneratePayrunConflict(t *testing.T) {
	f := newServiceFixture(nil, nil, nil)
	f.payrunRepo.existsFn = func(ctx context.Context, month, year int) (bool, error) {
		return true, nil
	}
	f.payrunRepo.createFn = func(ctx context.Context, p payroll.Payrun) (payroll.Payrun, error) {
		t.Fatal("create must not run when the period already has a payrun")
		return payroll.Payrun{}, nil
	}

	ctx := authContext(t, "admin-1", user.RoleAdmin)
	_, err := f.service.GeneratePayrun(ctx, periodRequest("7", "2025"))
	assert.ErrorIs(t, err, payroll.ErrPayrunAlreadyExists)
}

func TestGeneratePayrunInvalidPeriod(t *testing.T) {
	f := newServiceFixture(nil, nil, nil)

	ctx := authContext(t, "admin-1", user.RoleAdmin)
	_, err := f.service.GeneratePayrun(ctx, periodRequest("13", "2025"))
	assert.ErrorIs(t, err, payroll.ErrInvalidPeriod)
}

func TestGeneratePayrunFoldsTotalsAndNotifies(t *testing.T) {
	attendanceRepo := &fakeAttendanceRepo{summaries: map[string]attendance.MonthlySummary{
		"emp-1": {EmployeeID: "emp-1", PresentDays: 20, AbsentDays: 0},
		"emp-2": {EmployeeID: "emp-2", PresentDays: 18, AbsentDays: 4},
	}}
	leaveRepo := &fakeLeaveRepo{days: map[string]float64{"emp-1": 2}}
	settingsRepo := &fakeSettingsRepo{values: map[string]string{
		settings.KeyWorkingDaysPerMonth: "22",
		settings.KeyTaxRate:             "10",
	}}

	f := newServiceFixture(attendanceRepo, leaveRepo, settingsRepo)

	f.employees.getAllActiveFn = func(ctx context.Context) ([]employee.Employee, error) {
		return []employee.Employee{
			{ID: "emp-1", EmployeeCode: "EMP001", BasicSalary: decimal.NewFromInt(30000), Allowances: decimal.NewFromInt(5000)},
			{ID: "emp-2", EmployeeCode: "EMP002", BasicSalary: decimal.NewFromInt(30000), Allowances: decimal.NewFromInt(5000)},
		}, nil
	}

	var storedRows []payroll.Payroll
	f.payrunRepo.existsFn = func(ctx context.Context, month, year int) (bool, error) { return false, nil }
	f.payrunRepo.createFn = func(ctx context.Context, p payroll.Payrun) (payroll.Payrun, error) {
		p.ID = "payrun-1"
		assert.Equal(t, payroll.PayrunStatusDraft, p.Status)
		return p, nil
	}
	f.payrollRepo.upsertFn = func(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
		storedRows = append(storedRows, p)
		return p, nil
	}

	var finalTotals payroll.PayrunTotals
	var finalStatus payroll.PayrunStatus
	f.payrunRepo.updateTotalsFn = func(ctx context.Context, id string, totals payroll.PayrunTotals, status payroll.PayrunStatus) error {
		finalTotals = totals
		finalStatus = status
		return nil
	}

	f.users.getActiveByRoleFn = func(ctx context.Context, role user.Role) ([]user.User, error) {
		assert.Equal(t, user.RolePayrollOfficer, role)
		return []user.User{{ID: "officer-1"}, {ID: "officer-2"}}, nil
	}

	ctx := authContext(t, "admin-1", user.RoleAdmin)
	resp, err := f.service.GeneratePayrun(ctx, periodRequest("7", "2025"))
	require.NoError(t, err)

	require.Len(t, storedRows, 2)
	for _, row := range storedRows {
		require.NotNil(t, row.PayrunID)
		assert.Equal(t, "payrun-1", *row.PayrunID)
	}

	// emp-1: full coverage net 27900.00; emp-2: 4 unpaid days net 18190.90
	assert.Equal(t, 2, resp.TotalEmployees)
	assert.Equal(t, "64545.45", resp.TotalGross.StringFixed(2))
	assert.Equal(t, "18454.55", resp.TotalDeductions.StringFixed(2))
	assert.Equal(t, "46090.90", resp.TotalNet.StringFixed(2))

	assert.Equal(t, finalTotals.Net.StringFixed(2), resp.TotalNet.StringFixed(2))
	assert.Equal(t, payroll.PayrunStatusPendingApproval, finalStatus)

	// One notification per active payroll officer
	require.Len(t, f.notifier.notifications, 2)
	assert.Equal(t, "officer-1", f.notifier.notifications[0].UserID)
}

func TestGeneratePayrunAbortsWhenOneEmployeeFails(t *testing.T) {
	attendanceRepo := &fakeAttendanceRepo{summaries: map[string]attendance.MonthlySummary{}}
	f := newServiceFixture(attendanceRepo, nil, nil)

	f.employees.getAllActiveFn = func(ctx context.Context) ([]employee.Employee, error) {
		return []employee.Employee{
			{ID: "emp-1", EmployeeCode: "EMP001", BasicSalary: decimal.NewFromInt(10000)},
			{ID: "emp-2", EmployeeCode: "EMP002", BasicSalary: decimal.NewFromInt(10000)},
		}, nil
	}
	f.payrunRepo.existsFn = func(ctx context.Context, month, year int) (bool, error) { return false, nil }
	f.payrunRepo.createFn = func(ctx context.Context, p payroll.Payrun) (payroll.Payrun, error) {
		p.ID = "payrun-1"
		return p, nil
	}
	f.payrollRepo.upsertFn = func(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
		if p.EmployeeID == "emp-2" {
			return payroll.Payroll{}, errors.New("constraint violation")
		}
		return p, nil
	}
	f.payrunRepo.updateTotalsFn = func(ctx context.Context, id string, totals payroll.PayrunTotals, status payroll.PayrunStatus) error {
		t.Fatal("totals must not be finalized when an employee fails")
		return nil
	}

	ctx := authContext(t, "admin-1", user.RoleAdmin)
	_, err := f.service.GeneratePayrun(ctx, periodRequest("7", "2025"))
	assert.Error(t, err)
	assert.Empty(t, f.notifier.notifications)
}

// ========== SINGLE EMPLOYEE ==========

func TestGenerateEmployeePayrollUpserts(t *testing.T) {
	attendanceRepo := &fakeAttendanceRepo{summaries: map[string]attendance.MonthlySummary{
		"emp-1": {EmployeeID: "emp-1", PresentDays: 27, AbsentDays: 3},
	}}
	f := newServiceFixture(attendanceRepo, nil, nil)

	f.employees.getActiveByIDFn = func(ctx context.Context, id string) (employee.Employee, error) {
		require.Equal(t, "emp-1", id)
		return employee.Employee{ID: "emp-1", BasicSalary: decimal.NewFromInt(30000), Allowances: decimal.NewFromInt(5000)}, nil
	}

	stored := map[string]payroll.Payroll{}
	f.payrollRepo.upsertFn = func(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
		key := p.EmployeeID + "-2025-6"
		stored[key] = p
		return p, nil
	}

	ctx := authContext(t, "officer-1", user.RolePayrollOfficer)
	req := payroll.GenerateEmployeePayrollRequest{EmployeeID: "emp-1", Month: periodValueFromString("6"), Year: periodValueFromString("2025")}

	resp, err := f.service.GenerateEmployeePayroll(ctx, req)
	require.NoError(t, err)

	// June has 30 days: perDay = 35000/30, 3 absent days deducted
	assert.Equal(t, "35000.00", resp.GrossSalary.StringFixed(2))
	assert.Equal(t, "3500.00", resp.Deductions.StringFixed(2))
	assert.Equal(t, "31500.00", resp.NetSalary.StringFixed(2))
	assert.Equal(t, 30, resp.WorkingDays)

	// A second run replaces the row instead of duplicating it
	_, err = f.service.GenerateEmployeePayroll(ctx, req)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestGenerateEmployeePayrollUnknownEmployee(t *testing.T) {
	f := newServiceFixture(nil, nil, nil)
	f.employees.getActiveByIDFn = func(ctx context.Context, id string) (employee.Employee, error) {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}

	ctx := authContext(t, "officer-1", user.RolePayrollOfficer)
	_, err := f.service.GenerateEmployeePayroll(ctx, payroll.GenerateEmployeePayrollRequest{
		EmployeeID: "ghost",
		Month:      periodValueFromString("6"),
		Year:       periodValueFromString("2025"),
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestGenerateEmployeePayrollInactiveEmployee(t *testing.T) {
	f := newServiceFixture(nil, nil, nil)
	f.employees.getActiveByIDFn = func(ctx context.Context, id string) (employee.Employee, error) {
		return employee.Employee{}, employee.ErrEmployeeNotActive
	}
	f.payrollRepo.upsertFn = func(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
		t.Fatal("no payroll row may be written for an inactive employee")
		return payroll.Payroll{}, nil
	}

	ctx := authContext(t, "officer-1", user.RolePayrollOfficer)
	_, err := f.service.GenerateEmployeePayroll(ctx, payroll.GenerateEmployeePayrollRequest{
		EmployeeID: "emp-terminated",
		Month:      periodValueFromString("6"),
		Year:       periodValueFromString("2025"),
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotActive)
}

func TestGenerateEmployeePayrollMissingEmployeeID(t *testing.T) {
	f := newServiceFixture(nil, nil, nil)

	ctx := authContext(t, "officer-1", user.RolePayrollOfficer)
	_, err := f.service.GenerateEmployeePayroll(ctx, payroll.GenerateEmployeePayrollRequest{
		Month: periodValueFromString("6"),
		Year:  periodValueFromString("2025"),
	})
	assert.ErrorIs(t, err, payroll.ErrMissingEmployeeID)
}

// ========== APPROVAL STATE MACHINE ==========

func TestProcessPayrunActionNotFound(t *testing.T) {
	f := newServiceFixture(nil, nil, nil)
	f.payrunRepo.getByIDFn = func(ctx context.Context, id string) (payroll.Payrun, error) {
		return payroll.Payrun{}, payroll.ErrPayrunNotFound
	}

	ctx := authContext(t, "admin-1", user.RoleAdmin)
	_, err := f.service.ProcessPayrunAction(ctx, payroll.PayrunActionRequest{PayrunID: "ghost", Action: payroll.ActionApprove})
	assert.ErrorIs(t, err, payroll.ErrPayrunNotFound)
}

func TestProcessPayrunActionUnknownAction(t *testing.T) {
	f := newServiceFixture(nil, nil, nil)

	ctx := authContext(t, "admin-1", user.RoleAdmin)
	_, err := f.service.ProcessPayrunAction(ctx, payroll.PayrunActionRequest{PayrunID: "payrun-1", Action: "archive"})
	assert.ErrorIs(t, err, payroll.ErrInvalidAction)
}

func TestApproveRunsPayslipsAndSummaryEmail(t *testing.T) {
	f := newServiceFixture(nil, nil, nil)

	f.payrunRepo.getByIDFn = func(ctx context.Context, id string) (payroll.Payrun, error) {
		return payroll.Payrun{ID: id, Month: 7, Year: 2025, Status: payroll.PayrunStatusPendingApproval}, nil
	}

	var statusUpdates []payroll.PayrunStatus
	f.payrunRepo.updateStatusFn = func(ctx context.Context, id string, status payroll.PayrunStatus, approvedBy string, notes *string) error {
		assert.Equal(t, "admin-1", approvedBy)
		statusUpdates = append(statusUpdates, status)
		return nil
	}

	var rowStatuses []payroll.PayrollStatus
	f.payrollRepo.setStatusFn = func(ctx context.Context, payrunID string, status payroll.PayrollStatus) error {
		rowStatuses = append(rowStatuses, status)
		return nil
	}

	f.payslips.result = payroll.PayslipGenerationResult{Total: 3, EmailsSent: 3}

	ctx := authContext(t, "admin-1", user.RoleAdmin)
	resp, err := f.service.ProcessPayrunAction(ctx, payroll.PayrunActionRequest{PayrunID: "payrun-1", Action: payroll.ActionApprove})
	require.NoError(t, err)

	assert.Equal(t, payroll.PayrunStatusApproved, resp.Status)
	assert.Equal(t, []payroll.PayrunStatus{payroll.PayrunStatusApproved}, statusUpdates)
	assert.Equal(t, []payroll.PayrollStatus{payroll.PayrollStatusProcessed}, rowStatuses)
	assert.Equal(t, 1, f.payslips.calls)
	assert.Equal(t, 1, f.emails.summaryCalls)
	require.NotNil(t, resp.Payslips)
	assert.Equal(t, 3, resp.Payslips.EmailsSent)
}

func TestApproveIsIdempotent(t *testing.T) {
	f := newServiceFixture(nil, nil, nil)

	f.payrunRepo.getByIDFn = func(ctx context.Context, id string) (payroll.Payrun, error) {
		return payroll.Payrun{ID: id, Status: payroll.PayrunStatusApproved}, nil
	}
	f.payrunRepo.updateStatusFn = func(ctx context.Context, id string, status payroll.PayrunStatus, approvedBy string, notes *string) error {
		t.Fatal("an already approved payrun must not be updated again")
		return nil
	}

	ctx := authContext(t, "admin-1", user.RoleAdmin)
	resp, err := f.service.ProcessPayrunAction(ctx, payroll.PayrunActionRequest{PayrunID: "payrun-1", Action: payroll.ActionApprove})
	require.NoError(t, err)

	assert.Equal(t, payroll.PayrunStatusApproved, resp.Status)
	// No second batch of artifacts or emails
	assert.Equal(t, 0, f.payslips.calls)
	assert.Equal(t, 0, f.emails.summaryCalls)
}

func TestApprovePayslipFailureKeepsApprovalCommitted(t *testing.T) {
	f := newServiceFixture(nil, nil, nil)

	f.payrunRepo.getByIDFn = func(ctx context.Context, id string) (payroll.Payrun, error) {
		return payroll.Payrun{ID: id, Month: 7, Year: 2025, Status: payroll.PayrunStatusPendingApproval}, nil
	}

	committed := false
	f.payrunRepo.updateStatusFn = func(ctx context.Context, id string, status payroll.PayrunStatus, approvedBy string, notes *string) error {
		committed = true
		return nil
	}
	f.payrollRepo.setStatusFn = func(ctx context.Context, payrunID string, status payroll.PayrollStatus) error {
		return nil
	}
	f.payslips.err = errors.New("storage unavailable")

	ctx := authContext(t, "admin-1", user.RoleAdmin)
	resp, err := f.service.ProcessPayrunAction(ctx, payroll.PayrunActionRequest{PayrunID: "payrun-1", Action: payroll.ActionApprove})

	assert.ErrorIs(t, err, payroll.ErrPayslipGeneration)
	assert.True(t, committed, "approval must stay committed when payslips fail")
	assert.Equal(t, payroll.PayrunStatusApproved, resp.Status)
}

func TestRejectSkipsPayslips(t *testing.T) {
	f := newServiceFixture(nil, nil, nil)

	f.payrunRepo.getByIDFn = func(ctx context.Context, id string) (payroll.Payrun, error) {
		return payroll.Payrun{ID: id, Status: payroll.PayrunStatusPendingApproval}, nil
	}
	f.payrunRepo.updateStatusFn = func(ctx context.Context, id string, status payroll.PayrunStatus, approvedBy string, notes *string) error {
		assert.Equal(t, payroll.PayrunStatusRejected, status)
		return nil
	}
	f.payrollRepo.setStatusFn = func(ctx context.Context, payrunID string, status payroll.PayrollStatus) error {
		t.Fatal("rejecting must not touch payroll row statuses")
		return nil
	}

	ctx := authContext(t, "admin-1", user.RoleAdmin)
	resp, err := f.service.ProcessPayrunAction(ctx, payroll.PayrunActionRequest{PayrunID: "payrun-1", Action: payroll.ActionReject})
	require.NoError(t, err)

	assert.Equal(t, payroll.PayrunStatusRejected, resp.Status)
	assert.Equal(t, 0, f.payslips.calls)
}

// ========== LEGACY SYNC ==========

func TestSyncLegacyPayrunsCreatesMissingPayrun(t *testing.T) {
	f := newServiceFixture(nil, nil, nil)

	f.payrollRepo.orphanGroupsFn = func(ctx context.Context) ([]payroll.OrphanGroup, error) {
		return []payroll.OrphanGroup{{
			Month:      3,
			Year:       2024,
			Employees:  5,
			Gross:      decimal.NewFromInt(100000),
			Deductions: decimal.NewFromInt(20000),
			Net:        decimal.NewFromInt(80000),
		}}, nil
	}
	f.payrunRepo.getByPeriodFn = func(ctx context.Context, month, year int) (payroll.Payrun, error) {
		return payroll.Payrun{}, payroll.ErrPayrunNotFound
	}

	var created payroll.Payrun
	f.payrunRepo.createFn = func(ctx context.Context, p payroll.Payrun) (payroll.Payrun, error) {
		p.ID = "payrun-sync"
		created = p
		return p, nil
	}

	var linkedTo string
	f.payrollRepo.linkOrphansFn = func(ctx context.Context, payrunID string, month, year int) error {
		linkedTo = payrunID
		assert.Equal(t, 3, month)
		assert.Equal(t, 2024, year)
		return nil
	}

	require.NoError(t, f.service.SyncLegacyPayruns(context.Background()))

	assert.Equal(t, payroll.PayrunStatusPendingApproval, created.Status)
	assert.Equal(t, 5, created.TotalEmployees)
	assert.Equal(t, "80000.00", created.TotalNet.StringFixed(2))
	assert.Equal(t, "payrun-sync", linkedTo)
}

func TestSyncLegacyPayrunsUpdatesExistingPayrun(t *testing.T) {
	f := newServiceFixture(nil, nil, nil)

	f.payrollRepo.orphanGroupsFn = func(ctx context.Context) ([]payroll.OrphanGroup, error) {
		return []payroll.OrphanGroup{{Month: 4, Year: 2024, Employees: 2, Net: decimal.NewFromInt(5000)}}, nil
	}
	f.payrunRepo.getByPeriodFn = func(ctx context.Context, month, year int) (payroll.Payrun, error) {
		return payroll.Payrun{ID: "existing", Status: payroll.PayrunStatusApproved}, nil
	}

	var updatedStatus payroll.PayrunStatus
	f.payrunRepo.updateTotalsFn = func(ctx context.Context, id string, totals payroll.PayrunTotals, status payroll.PayrunStatus) error {
		assert.Equal(t, "existing", id)
		updatedStatus = status
		return nil
	}
	f.payrunRepo.createFn = func(ctx context.Context, p payroll.Payrun) (payroll.Payrun, error) {
		t.Fatal("must not create a payrun when one exists for the period")
		return payroll.Payrun{}, nil
	}
	f.payrollRepo.linkOrphansFn = func(ctx context.Context, payrunID string, month, year int) error {
		assert.Equal(t, "existing", payrunID)
		return nil
	}

	require.NoError(t, f.service.SyncLegacyPayruns(context.Background()))

	// An existing payrun keeps its status, only the totals refresh
	assert.Equal(t, payroll.PayrunStatusApproved, updatedStatus)
}

func TestSyncLegacyPayrunsNoOrphansIsNoOp(t *testing.T) {
	f := newServiceFixture(nil, nil, nil)

	f.payrollRepo.orphanGroupsFn = func(ctx context.Context) ([]payroll.OrphanGroup, error) {
		return nil, nil
	}
	f.payrunRepo.createFn = func(ctx context.Context, p payroll.Payrun) (payroll.Payrun, error) {
		t.Fatal("no-op sync must not create payruns")
		return payroll.Payrun{}, nil
	}

	require.NoError(t, f.service.SyncLegacyPayruns(context.Background()))
}

// ========== LISTINGS ==========

func TestListPayrollsScopesEmployeesToOwnRows(t *testing.T) {
	f := newServiceFixture(nil, nil, nil)

	f.employees.getByUserIDFn = func(ctx context.Context, userID string) (employee.Employee, error) {
		require.Equal(t, "user-9", userID)
		return employee.Employee{ID: "emp-9"}, nil
	}

	var captured payroll.PayrollFilter
	f.payrollRepo.listFn = func(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.Payroll, error) {
		captured = filter
		return nil, nil
	}

	other := "emp-1"
	adminRole := "admin"
	ctx := authContext(t, "user-9", user.RoleEmployee)
	_, err := f.service.ListPayrolls(ctx, payroll.PayrollFilter{EmployeeID: &other, Role: &adminRole})
	require.NoError(t, err)

	// The requested employee filter is overridden with the caller's own id
	require.NotNil(t, captured.EmployeeID)
	assert.Equal(t, "emp-9", *captured.EmployeeID)
	// The role filter is admin only
	assert.Nil(t, captured.Role)
}

func TestListPayrollsEmployeeWithoutRecordGetsEmptyList(t *testing.T) {
	f := newServiceFixture(nil, nil, nil)

	f.employees.getByUserIDFn = func(ctx context.Context, userID string) (employee.Employee, error) {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}

	ctx := authContext(t, "user-9", user.RoleEmployee)
	result, err := f.service.ListPayrolls(ctx, payroll.PayrollFilter{})
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestListPayrunsRunsLegacySyncFirst(t *testing.T) {
	f := newServiceFixture(nil, nil, nil)

	syncRan := false
	f.payrollRepo.orphanGroupsFn = func(ctx context.Context) ([]payroll.OrphanGroup, error) {
		syncRan = true
		return nil, nil
	}
	f.payrunRepo.listFn = func(ctx context.Context, filter payroll.PayrunFilter) ([]payroll.Payrun, error) {
		return []payroll.Payrun{{ID: "payrun-1", Month: 7, Year: 2025, Status: payroll.PayrunStatusPendingApproval}}, nil
	}

	result, err := f.service.ListPayruns(context.Background(), payroll.PayrunFilter{})
	require.NoError(t, err)

	assert.True(t, syncRan)
	require.Len(t, result, 1)
	assert.Equal(t, "payrun-1", result[0].ID)
}

func TestMissingUserClaimRejected(t *testing.T) {
	f := newServiceFixture(nil, nil, nil)

	token, err := jwt.NewBuilder().Claim("role", "admin").Build()
	require.NoError(t, err)
	ctx := jwtauth.NewContext(context.Background(), token, nil)

	_, err = f.service.GeneratePayrun(ctx, periodRequest("7", "2025"))
	assert.ErrorIs(t, err, user.ErrMissingUserClaim)
}

func periodValueFromString(raw string) payroll.PeriodValue {
	var v payroll.PeriodValue
	_ = v.UnmarshalJSON([]byte(`"` + raw + `"`))
	return v
}
