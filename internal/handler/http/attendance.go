package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/guardpost/guardpost-backend/internal/domain/attendance"
	"github.com/guardpost/guardpost-backend/internal/handler/http/response"
)

type AttendanceHandler interface {
	Summary(w http.ResponseWriter, r *http.Request)
	ExportSummary(w http.ResponseWriter, r *http.Request)
	RecomputeShift(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

func summaryFilterFromQuery(r *http.Request) attendance.SummaryFilter {
	query := r.URL.Query()
	return attendance.SummaryFilter{
		EmployeeID: query.Get("employee_id"),
		From:       query.Get("from"),
		To:         query.Get("to"),
		LocationID: query.Get("location_id"),
		BranchID:   query.Get("branch_id"),
	}
}

// Summary implements AttendanceHandler.
func (h *attendanceHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GetSummary(r.Context(), summaryFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportSummary implements AttendanceHandler.
func (h *attendanceHandlerImpl) ExportSummary(w http.ResponseWriter, r *http.Request) {
	filter := summaryFilterFromQuery(r)

	// Buffered so a failed export still gets a JSON error response.
	var buf bytes.Buffer
	if err := h.attendanceService.ExportSummary(r.Context(), filter, &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="attendance_%s_%s.xlsx"`, filter.From, filter.To))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write attendance export", "error", err)
	}
}

// RecomputeShift implements AttendanceHandler.
func (h *attendanceHandlerImpl) RecomputeShift(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Shift ID is required", nil)
		return
	}

	result, err := h.attendanceService.RecomputeShift(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift hours recomputed", result)
}
