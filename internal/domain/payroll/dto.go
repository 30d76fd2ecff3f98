package payroll

import (
	"time"

	"github.com/guardpost/guardpost-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== PAYSTUB DTOs ==========

type FixedEarningRequest struct {
	Kind   string          `json:"kind" validate:"required"`
	Amount decimal.Decimal `json:"amount"`
}

type DeductionRequest struct {
	Kind       string           `json:"kind" validate:"required"`
	Basis      DeductionBasis   `json:"basis" validate:"required,oneof=percentage amount"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
}

type GeneratePayStubRequest struct {
	EmployeeID       string                `json:"employee_id" validate:"required"`
	PeriodStart      string                `json:"period_start" validate:"omitempty,datetime=2006-01-02"`
	PeriodEnd        string                `json:"period_end" validate:"omitempty,datetime=2006-01-02"`
	HourlyRate       *decimal.Decimal      `json:"hourly_rate,omitempty"`
	Earnings         []FixedEarningRequest `json:"earnings" validate:"dive"`
	Deductions       []DeductionRequest    `json:"deductions" validate:"dive"`
	ConfirmDuplicate bool                  `json:"confirm_duplicate"`
}

func (r *GeneratePayStubRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}

	var errs validator.ValidationErrors
	period := r.Period()
	if !period.IsZero() && period.End.Before(period.Start) {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must not be before period_start"})
	}
	for _, e := range r.Earnings {
		if e.Kind == EarningKindRegular {
			errs = append(errs, validator.ValidationError{Field: "earnings", Message: "Regular earnings are computed from reconciled hours"})
		}
		if e.Amount.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "earnings", Message: "amount must be non-negative"})
		}
	}
	for _, d := range r.Deductions {
		switch {
		case d.Basis == BasisPercentage && d.Percentage == nil:
			errs = append(errs, validator.ValidationError{Field: "deductions", Message: "percentage is required for percentage basis"})
		case d.Basis == BasisAmount && d.Amount == nil:
			errs = append(errs, validator.ValidationError{Field: "deductions", Message: "amount is required for amount basis"})
		}
		if d.Percentage != nil && d.Percentage.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "deductions", Message: "percentage must be non-negative"})
		}
		if d.Amount != nil && d.Amount.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "deductions", Message: "amount must be non-negative"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Period parses the requested bounds; unparsable or absent bounds are zero.
func (r GeneratePayStubRequest) Period() PayPeriod {
	var p PayPeriod
	p.Start, _ = time.Parse("2006-01-02", r.PeriodStart)
	p.End, _ = time.Parse("2006-01-02", r.PeriodEnd)
	return p
}

type EarningLineResponse struct {
	Kind          string           `json:"kind"`
	Quantity      *float64         `json:"quantity,omitempty"`
	Rate          *decimal.Decimal `json:"rate,omitempty"`
	CurrentAmount decimal.Decimal  `json:"current_amount"`
	YTDAmount     decimal.Decimal  `json:"ytd_amount"`
}

type DeductionLineResponse struct {
	Kind       string          `json:"kind"`
	Percentage decimal.Decimal `json:"percentage"`
	Amount     decimal.Decimal `json:"amount"`
	YTDAmount  decimal.Decimal `json:"ytd_amount"`
	Basis      DeductionBasis  `json:"basis"`
}

type AdvisoryResponse struct {
	Code              AdvisoryCode `json:"code"`
	Message           string       `json:"message"`
	ExistingPayStubID string       `json:"existing_paystub_id,omitempty"`
}

type PayStubResponse struct {
	ID              string                  `json:"id,omitempty"`
	EmployeeID      string                  `json:"employee_id"`
	EmployeeName    *string                 `json:"employee_name,omitempty"`
	PeriodStart     string                  `json:"period_start"`
	PeriodEnd       string                  `json:"period_end"`
	Earnings        []EarningLineResponse   `json:"earnings"`
	Deductions      []DeductionLineResponse `json:"deductions"`
	GrossEarnings   decimal.Decimal         `json:"gross_earnings"`
	TotalDeductions decimal.Decimal         `json:"total_deductions"`
	NetPay          decimal.Decimal         `json:"net_pay"`
	YTDGross        decimal.Decimal         `json:"ytd_gross"`
	Advisories      []AdvisoryResponse      `json:"advisories,omitempty"`
	CreatedAt       *time.Time              `json:"created_at,omitempty"`
}

// ========== DEDUCTION DTOs ==========

// DeductionEdit names the field a user changed on a deduction line.
type DeductionEdit string

const (
	EditPercentage DeductionEdit = "percentage"
	EditAmount     DeductionEdit = "amount"
	EditKind       DeductionEdit = "kind"
)

type ReconcileDeductionRequest struct {
	EmployeeID    string           `json:"employee_id" validate:"required"`
	PeriodStart   string           `json:"period_start" validate:"required,datetime=2006-01-02"`
	Kind          string           `json:"kind" validate:"required"`
	Percentage    decimal.Decimal  `json:"percentage"`
	Amount        decimal.Decimal  `json:"amount"`
	YTDAmount     decimal.Decimal  `json:"ytd_amount"`
	TotalEarnings decimal.Decimal  `json:"total_earnings"`
	Edit          DeductionEdit    `json:"edit" validate:"required,oneof=percentage amount kind"`
	Value         *decimal.Decimal `json:"value,omitempty"`
	NewKind       string           `json:"new_kind,omitempty"`
}

func (r *ReconcileDeductionRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}

	var errs validator.ValidationErrors
	if r.Edit == EditKind && validator.IsEmpty(r.NewKind) {
		errs = append(errs, validator.ValidationError{Field: "new_kind", Message: "is required when edit is kind"})
	}
	if r.Edit != EditKind && r.Value == nil {
		errs = append(errs, validator.ValidationError{Field: "value", Message: "is required"})
	}
	if r.TotalEarnings.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "total_earnings", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
