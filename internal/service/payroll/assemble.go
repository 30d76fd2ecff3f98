package payroll

import (
	"fmt"

	"github.com/guardpost/guardpost-backend/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

type FixedEarningInput struct {
	Kind   string
	Amount decimal.Decimal
}

// DeductionInput carries the user's authoritative value for one deduction:
// Percentage when Basis is percentage, Amount when Basis is amount.
type DeductionInput struct {
	Kind       string
	Basis      payroll.DeductionBasis
	Percentage decimal.Decimal
	Amount     decimal.Decimal
}

type AssembleInput struct {
	CompanyID     string
	EmployeeID    string
	Period        payroll.PayPeriod
	HourlyRate    *decimal.Decimal
	RegularHours  float64
	FixedEarnings []FixedEarningInput
	Deductions    []DeductionInput
}

// Assemble composes a paystub from earnings and deductions. prior is the
// employee's most recent earlier stub (nil when none); existing are stubs
// already stored for the same employee and period, which raise a
// DuplicatePayPeriod advisory rather than an error.
func Assemble(in AssembleInput, prior *payroll.PayStub, existing []payroll.PayStub) (payroll.Assembly, error) {
	regular, err := ComputeRegularEarning(in.HourlyRate, in.RegularHours, prior.EarningYTD(payroll.EarningKindRegular), in.Period)
	if err != nil {
		return payroll.Assembly{}, err
	}

	earnings := []payroll.EarningLine{regular}
	for _, f := range mergeFixedEarnings(in.FixedEarnings) {
		earnings = append(earnings, ComputeFixedEarning(f.Kind, f.Amount, prior.EarningYTD(f.Kind)))
	}

	gross := decimal.Zero
	ytdGross := decimal.Zero
	for _, e := range earnings {
		gross = gross.Add(e.CurrentAmount)
		ytdGross = ytdGross.Add(e.YTDAmount)
	}

	deductions, err := reconcileDeductions(in.Deductions, gross)
	if err != nil {
		return payroll.Assembly{}, err
	}
	totalDeductions := decimal.Zero
	for i := range deductions {
		deductions[i] = AccumulateYTD(deductions[i], prior)
		totalDeductions = totalDeductions.Add(deductions[i].Amount)
	}

	assembly := payroll.Assembly{
		PayStub: payroll.PayStub{
			CompanyID:       in.CompanyID,
			EmployeeID:      in.EmployeeID,
			Period:          in.Period,
			Earnings:        earnings,
			Deductions:      deductions,
			GrossEarnings:   gross,
			TotalDeductions: totalDeductions,
			NetPay:          gross.Sub(totalDeductions),
			YTDGross:        ytdGross,
		},
	}

	for _, stub := range existing {
		if stub.EmployeeID == in.EmployeeID && stub.Period.SameAs(in.Period) {
			assembly.Advisories = append(assembly.Advisories, payroll.Advisory{
				Code:              payroll.AdvisoryDuplicatePayPeriod,
				Message:           fmt.Sprintf("paystub %s already covers %s to %s", stub.ID, in.Period.Start.Format("2006-01-02"), in.Period.End.Format("2006-01-02")),
				ExistingPayStubID: stub.ID,
			})
		}
	}

	return assembly, nil
}

// mergeFixedEarnings sums repeated kinds so each kind yields one line and one YTD series.
func mergeFixedEarnings(in []FixedEarningInput) []FixedEarningInput {
	var out []FixedEarningInput
	index := make(map[string]int)
	for _, f := range in {
		if i, ok := index[f.Kind]; ok {
			out[i].Amount = out[i].Amount.Add(f.Amount)
			continue
		}
		index[f.Kind] = len(out)
		out = append(out, f)
	}
	return out
}

// reconcileDeductions yields one line per kind so each kind keeps a single YTD
// series. Repeated kinds that are all percentage based sum their percentages;
// any other mix sums the derived amounts and makes the amount authoritative.
func reconcileDeductions(in []DeductionInput, gross decimal.Decimal) ([]payroll.DeductionLine, error) {
	type group struct {
		kind          string
		allPercentage bool
		percentage    decimal.Decimal
		amount        decimal.Decimal
	}

	var groups []*group
	index := make(map[string]*group)
	for _, d := range in {
		var amount decimal.Decimal
		switch d.Basis {
		case payroll.BasisPercentage:
			amount = SetByPercentage(payroll.DeductionLine{}, d.Percentage, gross).Amount
		case payroll.BasisAmount:
			amount = d.Amount
		default:
			return nil, fmt.Errorf("deduction %q: %w", d.Kind, payroll.ErrInvalidDeductionBasis)
		}

		g, ok := index[d.Kind]
		if !ok {
			g = &group{kind: d.Kind, allPercentage: true}
			index[d.Kind] = g
			groups = append(groups, g)
		}
		g.allPercentage = g.allPercentage && d.Basis == payroll.BasisPercentage
		g.percentage = g.percentage.Add(d.Percentage)
		g.amount = g.amount.Add(amount)
	}

	lines := make([]payroll.DeductionLine, 0, len(groups))
	for _, g := range groups {
		line := payroll.DeductionLine{Kind: g.kind}
		if g.allPercentage {
			line = SetByPercentage(line, g.percentage, gross)
		} else {
			line = SetByAmount(line, g.amount, gross)
		}
		lines = append(lines, line)
	}
	return lines, nil
}
