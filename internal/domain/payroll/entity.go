package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Earning kinds. Any other label is a fixed (non-hourly) kind.
const (
	EarningKindRegular  = "Regular"
	EarningKindVacation = "Vacation"
)

// DeductionBasis records which field of a deduction line was edited last
// and is therefore authoritative.
type DeductionBasis string

const (
	BasisPercentage DeductionBasis = "percentage"
	BasisAmount     DeductionBasis = "amount"
)

// PayPeriod is the inclusive date range a paystub covers.
type PayPeriod struct {
	Start time.Time
	End   time.Time
}

func (p PayPeriod) IsZero() bool {
	return p.Start.IsZero() || p.End.IsZero()
}

// SameAs reports whether both periods have identical calendar bounds.
func (p PayPeriod) SameAs(o PayPeriod) bool {
	return sameDay(p.Start, o.Start) && sameDay(p.End, o.End)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// EarningLine is one earning on a paystub. Quantity and Rate are set only for
// hourly kinds, where Quantity * Rate == CurrentAmount.
type EarningLine struct {
	Kind          string
	Quantity      *float64
	Rate          *decimal.Decimal
	CurrentAmount decimal.Decimal
	YTDAmount     decimal.Decimal
}

type DeductionLine struct {
	Kind       string
	Percentage decimal.Decimal
	Amount     decimal.Decimal
	YTDAmount  decimal.Decimal
	Basis      DeductionBasis
}

type PayStub struct {
	ID              string
	CompanyID       string
	EmployeeID      string
	Period          PayPeriod
	Earnings        []EarningLine
	Deductions      []DeductionLine
	GrossEarnings   decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal
	YTDGross        decimal.Decimal
	FilePath        *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// DTO
	EmployeeName *string
}

// EarningYTD returns the YTD of the given earning kind, zero when absent.
// Safe to call on a nil stub.
func (p *PayStub) EarningYTD(kind string) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	for _, e := range p.Earnings {
		if e.Kind == kind {
			return e.YTDAmount
		}
	}
	return decimal.Zero
}

// DeductionYTD returns the YTD of the given deduction kind, zero when absent.
// Safe to call on a nil stub.
func (p *PayStub) DeductionYTD(kind string) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	for _, d := range p.Deductions {
		if d.Kind == kind {
			return d.YTDAmount
		}
	}
	return decimal.Zero
}

type AdvisoryCode string

const (
	AdvisoryDuplicatePayPeriod   AdvisoryCode = "DUPLICATE_PAY_PERIOD"
	AdvisoryIncompleteAttendance AdvisoryCode = "INCOMPLETE_ATTENDANCE"
)

// Advisory is a non-fatal finding that needs operator confirmation.
type Advisory struct {
	Code              AdvisoryCode
	Message           string
	ExistingPayStubID string
}

// Assembly is an assembled paystub plus any advisories raised while assembling.
type Assembly struct {
	PayStub    PayStub
	Advisories []Advisory
}

func (a Assembly) Has(code AdvisoryCode) bool {
	for _, adv := range a.Advisories {
		if adv.Code == code {
			return true
		}
	}
	return false
}
