package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/guardpost/guardpost-backend/internal/domain/payroll"
	"github.com/guardpost/guardpost-backend/internal/handler/http/response"
)

type PayrollHandler interface {
	// Paystubs
	GeneratePayStub(w http.ResponseWriter, r *http.Request)
	PreviewPayStub(w http.ResponseWriter, r *http.Request)
	GetPayStub(w http.ResponseWriter, r *http.Request)
	DownloadPayStub(w http.ResponseWriter, r *http.Request)
	ListEmployeePayStubs(w http.ResponseWriter, r *http.Request)

	// Deductions
	ReconcileDeduction(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// ========== PAYSTUBS ==========

func (h *payrollHandlerImpl) GeneratePayStub(w http.ResponseWriter, r *http.Request) {
	var req payroll.GeneratePayStubRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.GeneratePayStub(r.Context(), req)
	if err != nil {
		if errors.Is(err, payroll.ErrDuplicatePayPeriod) {
			response.ConflictWithData(w, "DUPLICATE_PAY_PERIOD",
				"A paystub already exists for this pay period; resend with confirm_duplicate to generate another", result)
			return
		}
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Paystub generated", result)
}

func (h *payrollHandlerImpl) PreviewPayStub(w http.ResponseWriter, r *http.Request) {
	var req payroll.GeneratePayStubRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.PreviewPayStub(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetPayStub(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Paystub ID is required", nil)
		return
	}

	result, err := h.payrollService.GetPayStub(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) DownloadPayStub(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Paystub ID is required", nil)
		return
	}

	var buf bytes.Buffer
	if err := h.payrollService.RenderPayStub(r.Context(), id, &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="paystub_%s.pdf"`, id))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write paystub pdf", "paystub_id", id, "error", err)
	}
}

func (h *payrollHandlerImpl) ListEmployeePayStubs(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	result, err := h.payrollService.ListPayStubs(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{TotalItems: int64(len(result))})
}

// ========== DEDUCTIONS ==========

func (h *payrollHandlerImpl) ReconcileDeduction(w http.ResponseWriter, r *http.Request) {
	var req payroll.ReconcileDeductionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.ReconcileDeduction(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
