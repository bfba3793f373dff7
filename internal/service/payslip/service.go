package payslip

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/workzen-hrms/hrms-backend-go/internal/domain/notification"
	"github.com/workzen-hrms/hrms-backend-go/internal/domain/payroll"
	"github.com/workzen-hrms/hrms-backend-go/internal/pkg/email"
	"github.com/workzen-hrms/hrms-backend-go/internal/pkg/storage"
)

//go:embed templates/*.html
var templateFS embed.FS

type service struct {
	payrollRepo  payroll.PayrollRepository
	payrunRepo   payroll.PayrunRepository
	store        storage.FileStorage
	emailService email.EmailService
	notifier     notification.Service
	templates    *template.Template
}

// NewPayslipService creates the payslip generator and dispatcher
func NewPayslipService(
	payrollRepo payroll.PayrollRepository,
	payrunRepo payroll.PayrunRepository,
	store storage.FileStorage,
	emailService email.EmailService,
	notifier notification.Service,
) (payroll.PayslipService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse payslip templates: %w", err)
	}

	return &service{
		payrollRepo:  payrollRepo,
		payrunRepo:   payrunRepo,
		store:        store,
		emailService: emailService,
		notifier:     notifier,
		templates:    tmpl,
	}, nil
}

type payslipData struct {
	EmployeeName    string
	EmployeeCode    string
	Department      string
	Designation     string
	Period          string
	BasicSalary     string
	Allowances      string
	Bonus           string
	GrossSalary     string
	PFDeduction     string
	TaxDeduction    string
	Penalty         string
	TotalDeductions string
	NetSalary       string
	WorkingDays     int
	PresentDays     int
	AbsentDays      int
	LeaveDays       float64
}

// GenerateForPayrun renders, stores and mails a payslip for every payroll row
// of the payrun. Rows are processed independently: a bad email address or a
// failed write is counted and the loop continues, because one failure must
// not block payslips for the rest of the organization.
func (s *service) GenerateForPayrun(ctx context.Context, payrunID string) (payroll.PayslipGenerationResult, error) {
	payrun, err := s.payrunRepo.GetByID(ctx, payrunID)
	if err != nil {
		return payroll.PayslipGenerationResult{}, err
	}

	rows, err := s.payrollRepo.ListByPayrun(ctx, payrunID)
	if err != nil {
		return payroll.PayslipGenerationResult{}, err
	}

	// An empty payrun is valid, not a failure
	result := payroll.PayslipGenerationResult{Total: len(rows)}
	if len(rows) == 0 {
		return result, nil
	}

	period := fmt.Sprintf("%s %d", payroll.MonthName(payrun.Month), payrun.Year)

	for _, row := range rows {
		sent, err := s.processRow(ctx, row, period)
		if err != nil {
			slog.Error("Payslip row failed",
				"payroll_id", row.ID,
				"payrun_id", payrunID,
				"error", err,
			)
			result.EmailsFailed++
			continue
		}
		if sent {
			result.EmailsSent++
		} else {
			result.EmailsFailed++
		}
	}

	return result, nil
}

func (s *service) processRow(ctx context.Context, row payroll.Payroll, period string) (sent bool, err error) {
	code := ""
	if row.EmployeeCode != nil {
		code = *row.EmployeeCode
	}

	body, err := s.render(row, period)
	if err != nil {
		return false, err
	}

	filename := fmt.Sprintf("payslip_%s_%d_%02d.html", code, row.Year, row.Month)
	if _, err := s.store.Upload(ctx, bytes.NewReader(body), filename, "text/html"); err != nil {
		return false, fmt.Errorf("failed to store payslip: %w", err)
	}

	path := "/payslips/" + filename
	if err := s.payrollRepo.MarkPayslipGenerated(ctx, row.ID, path); err != nil {
		return false, err
	}

	defer s.notifyEmployee(ctx, row, period, path)

	if row.EmployeeEmail == nil || *row.EmployeeEmail == "" {
		return false, nil
	}

	name := ""
	if row.FirstName != nil && row.LastName != nil {
		name = *row.FirstName + " " + *row.LastName
	}

	if err := s.emailService.SendPayslip(*row.EmployeeEmail, name, period, string(body)); err != nil {
		slog.Error("Failed to email payslip", "to", *row.EmployeeEmail, "payroll_id", row.ID, "error", err)
		return false, nil
	}

	if err := s.payrollRepo.MarkPayslipSent(ctx, row.ID, time.Now()); err != nil {
		slog.Error("Failed to stamp payslip sent time", "payroll_id", row.ID, "error", err)
	}

	return true, nil
}

func (s *service) render(row payroll.Payroll, period string) ([]byte, error) {
	data := payslipData{
		EmployeeCode:    derefOr(row.EmployeeCode, ""),
		Department:      derefOr(row.Department, "-"),
		Designation:     derefOr(row.Designation, "-"),
		Period:          period,
		BasicSalary:     row.BasicSalary.StringFixed(2),
		Allowances:      row.Allowances.StringFixed(2),
		GrossSalary:     row.GrossSalary.StringFixed(2),
		TotalDeductions: row.Deductions.StringFixed(2),
		NetSalary:       row.NetSalary.StringFixed(2),
		WorkingDays:     row.WorkingDays,
		PresentDays:     row.PresentDays,
		AbsentDays:      row.AbsentDays,
		LeaveDays:       row.LeaveDays,
	}
	if row.FirstName != nil && row.LastName != nil {
		data.EmployeeName = *row.FirstName + " " + *row.LastName
	}

	// Manual adjustments only get a line when they carry a value
	if row.Bonus != nil && !row.Bonus.IsZero() {
		data.Bonus = row.Bonus.StringFixed(2)
	}
	if row.Penalty != nil && !row.Penalty.IsZero() {
		data.Penalty = row.Penalty.StringFixed(2)
	}

	// The PF and tax display lines use hardcoded 12%/10% regardless of the
	// policy that produced the stored deduction total, so they can disagree
	// with TotalDeductions when the tax rate was non-default at generation
	// time. Inherited behavior; do not fix without a product decision.
	data.PFDeduction = row.BasicSalary.Mul(decimal.New(12, -2)).Round(2).StringFixed(2)
	data.TaxDeduction = row.GrossSalary.Mul(decimal.New(10, -2)).Round(2).StringFixed(2)

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "payslip.html", data); err != nil {
		return nil, fmt.Errorf("failed to render payslip: %w", err)
	}
	return buf.Bytes(), nil
}

// notifyEmployee fires regardless of the email outcome
func (s *service) notifyEmployee(ctx context.Context, row payroll.Payroll, period, path string) {
	if row.EmployeeUserID == nil || *row.EmployeeUserID == "" {
		return
	}
	s.notifier.Notify(ctx, notification.CreateNotificationRequest{
		UserID:    *row.EmployeeUserID,
		Title:     "Payslip Available",
		Message:   fmt.Sprintf("Your payslip for %s is now available", period),
		Type:      notification.TypeSuccess,
		ActionURL: path,
	})
}

func derefOr(value *string, fallback string) string {
	if value == nil || *value == "" {
		return fallback
	}
	return *value
}
