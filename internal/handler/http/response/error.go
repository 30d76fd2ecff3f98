package response

import (
	"errors"
	"net/http"

	"github.com/guardpost/guardpost-backend/internal/domain/attendance"
	"github.com/guardpost/guardpost-backend/internal/domain/payroll"
	"github.com/guardpost/guardpost-backend/internal/pkg/jwt"
	"github.com/guardpost/guardpost-backend/internal/pkg/timeutil"
	"github.com/guardpost/guardpost-backend/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, jwt.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, jwt.ErrMissingCompanyClaim):
		Unauthorized(w, "Token is not bound to a company")
	case errors.Is(err, jwt.ErrManagerAccessRequired):
		Forbidden(w, "Manager or owner access required")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, attendance.ErrEntryNotFound):
		NotFound(w, "Employee is not assigned to this shift")
	case errors.Is(err, attendance.ErrInvalidWindow):
		UnprocessableEntity(w, "INVALID_WINDOW", "Shift has an invalid scheduled window")
	case errors.Is(err, attendance.ErrInvalidDateRange):
		BadRequest(w, "Invalid date range", nil)
	case errors.Is(err, attendance.ErrPatrolCountFailure):
		writeJSON(w, http.StatusBadGateway, Response{
			Success: false,
			Error:   &ErrorDetail{Code: "PATROL_COUNT_UNAVAILABLE", Message: "Patrol counts are temporarily unavailable"},
		})
	case errors.Is(err, timeutil.ErrOutOfRangeDuration):
		UnprocessableEntity(w, "OUT_OF_RANGE_DURATION", "Reported span exceeds 24 hours")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrMissingRateOrPeriod):
		UnprocessableEntity(w, "MISSING_RATE_OR_PERIOD", "Pay rate or pay period is missing")
	case errors.Is(err, payroll.ErrDuplicatePayPeriod):
		Conflict(w, "A paystub already exists for this pay period")
	case errors.Is(err, payroll.ErrPayStubNotFound):
		NotFound(w, "Paystub not found")
	case errors.Is(err, payroll.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, payroll.ErrInvalidDeductionBasis):
		BadRequest(w, "Deduction basis must be percentage or amount", nil)
	case errors.Is(err, payroll.ErrNegativeAmount):
		BadRequest(w, "Amount must not be negative", nil)
	case errors.Is(err, payroll.ErrNegativePercentage):
		BadRequest(w, "Percentage must not be negative", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
