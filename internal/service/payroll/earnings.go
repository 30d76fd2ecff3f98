package payroll

import (
	"github.com/guardpost/guardpost-backend/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ComputeRegularEarning prices reconciled hours at the hourly rate and carries
// the Regular YTD forward. A missing or non-positive rate, or a missing pay
// period, fails with ErrMissingRateOrPeriod instead of emitting a zero line.
func ComputeRegularEarning(rate *decimal.Decimal, quantityHours float64, priorYTD decimal.Decimal, period payroll.PayPeriod) (payroll.EarningLine, error) {
	if rate == nil || !rate.IsPositive() || period.IsZero() {
		return payroll.EarningLine{}, payroll.ErrMissingRateOrPeriod
	}

	current := rate.Mul(decimal.NewFromFloat(quantityHours)).Round(2)
	quantity := quantityHours
	r := *rate

	return payroll.EarningLine{
		Kind:          payroll.EarningKindRegular,
		Quantity:      &quantity,
		Rate:          &r,
		CurrentAmount: current,
		YTDAmount:     priorYTD.Add(current).Round(2),
	}, nil
}

// ComputeFixedEarning builds a non-hourly line. Its YTD series is the one for kind only.
func ComputeFixedEarning(kind string, amount decimal.Decimal, priorYTD decimal.Decimal) payroll.EarningLine {
	current := amount.Round(2)
	return payroll.EarningLine{
		Kind:          kind,
		CurrentAmount: current,
		YTDAmount:     priorYTD.Add(current).Round(2),
	}
}
