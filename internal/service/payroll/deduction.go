package payroll

import (
	"github.com/guardpost/guardpost-backend/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// SetByPercentage makes percentage authoritative and derives the amount.
func SetByPercentage(line payroll.DeductionLine, percentage, totalEarnings decimal.Decimal) payroll.DeductionLine {
	line.Percentage = percentage
	line.Amount = percentage.Mul(totalEarnings).Div(hundred).Round(2)
	line.Basis = payroll.BasisPercentage
	return line
}

// SetByAmount makes amount authoritative and derives the percentage. With no
// earnings the percentage is 0.
func SetByAmount(line payroll.DeductionLine, amount, totalEarnings decimal.Decimal) payroll.DeductionLine {
	line.Amount = amount
	if totalEarnings.IsZero() {
		line.Percentage = decimal.Zero
	} else {
		line.Percentage = amount.Div(totalEarnings).Mul(hundred).Round(2)
	}
	line.Basis = payroll.BasisAmount
	return line
}

// ChangeKind switches the deduction kind and resets YTD to the prior stub's
// YTD for the new kind. prior may be nil.
func ChangeKind(line payroll.DeductionLine, kind string, prior *payroll.PayStub) payroll.DeductionLine {
	line.Kind = kind
	line.YTDAmount = prior.DeductionYTD(kind)
	return line
}

// AccumulateYTD sets YTD to the prior YTD of the line's kind plus its amount.
func AccumulateYTD(line payroll.DeductionLine, prior *payroll.PayStub) payroll.DeductionLine {
	line.YTDAmount = prior.DeductionYTD(line.Kind).Add(line.Amount).Round(2)
	return line
}
