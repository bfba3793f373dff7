package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/workzen-hrms/hrms-backend-go/internal/domain/payroll"
	"github.com/workzen-hrms/hrms-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	// Payrun lifecycle
	GeneratePayrun(w http.ResponseWriter, r *http.Request)
	ListPayruns(w http.ResponseWriter, r *http.Request)
	ProcessPayrunAction(w http.ResponseWriter, r *http.Request)
	SyncPayruns(w http.ResponseWriter, r *http.Request)

	// Per-employee payroll
	GenerateEmployeePayroll(w http.ResponseWriter, r *http.Request)
	ListPayrolls(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// ========== PAYRUNS ==========

func (h *payrollHandlerImpl) GeneratePayrun(w http.ResponseWriter, r *http.Request) {
	var req payroll.GeneratePayrunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.GeneratePayrun(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, result.Message, result)
}

func (h *payrollHandlerImpl) ListPayruns(w http.ResponseWriter, r *http.Request) {
	filter := payroll.PayrunFilter{
		Month:  intQueryParam(r, "month"),
		Year:   intQueryParam(r, "year"),
		Status: stringQueryParam(r, "status"),
	}

	result, err := h.payrollService.ListPayruns(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ProcessPayrunAction(w http.ResponseWriter, r *http.Request) {
	var req payroll.PayrunActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.ProcessPayrunAction(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, result.Message, result)
}

func (h *payrollHandlerImpl) SyncPayruns(w http.ResponseWriter, r *http.Request) {
	if err := h.payrollService.SyncLegacyPayruns(r.Context()); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Legacy payruns synchronized", nil)
}

// ========== PAYROLL RECORDS ==========

func (h *payrollHandlerImpl) GenerateEmployeePayroll(w http.ResponseWriter, r *http.Request) {
	var req payroll.GenerateEmployeePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.GenerateEmployeePayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListPayrolls(w http.ResponseWriter, r *http.Request) {
	filter := payroll.PayrollFilter{
		EmployeeID: stringQueryParam(r, "employeeId"),
		Month:      intQueryParam(r, "month"),
		Year:       intQueryParam(r, "year"),
		PayrunID:   stringQueryParam(r, "payrunId"),
		Role:       stringQueryParam(r, "role"),
	}

	result, err := h.payrollService.ListPayrolls(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func intQueryParam(r *http.Request, key string) *int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &value
}

func stringQueryParam(r *http.Request, key string) *string {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	return &raw
}
