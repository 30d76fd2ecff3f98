package payroll

import (
	"testing"
	"time"

	"github.com/guardpost/guardpost-backend/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func priorStub() *payroll.PayStub {
	return &payroll.PayStub{
		ID:         "prior-1",
		EmployeeID: "emp-1",
		Period: payroll.PayPeriod{
			Start: time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
		},
		Earnings: []payroll.EarningLine{
			{Kind: payroll.EarningKindRegular, YTDAmount: dec("10400.00")},
			{Kind: payroll.EarningKindVacation, YTDAmount: dec("416.00")},
		},
		Deductions: []payroll.DeductionLine{
			{Kind: "CPP", YTDAmount: dec("795.60")},
			{Kind: "EI", YTDAmount: dec("171.60")},
		},
	}
}

func baseInput() AssembleInput {
	return AssembleInput{
		CompanyID:    "company-1",
		EmployeeID:   "emp-1",
		Period:       marchPeriod,
		HourlyRate:   decPtr("20"),
		RegularHours: 40,
		FixedEarnings: []FixedEarningInput{
			{Kind: payroll.EarningKindVacation, Amount: dec("20")},
			{Kind: payroll.EarningKindVacation, Amount: dec("12")},
		},
		Deductions: []DeductionInput{
			{Kind: "CPP", Basis: payroll.BasisPercentage, Percentage: dec("7.65")},
			{Kind: "EI", Basis: payroll.BasisAmount, Amount: dec("13.28")},
		},
	}
}

func TestAssemble_ComposesLinesAndYTD(t *testing.T) {
	assembly, err := Assemble(baseInput(), priorStub(), nil)
	require.NoError(t, err)
	assert.Empty(t, assembly.Advisories)

	stub := assembly.PayStub
	require.Len(t, stub.Earnings, 2)
	assert.Equal(t, "800.00", stub.Earnings[0].CurrentAmount.StringFixed(2))
	assert.Equal(t, "11200.00", stub.Earnings[0].YTDAmount.StringFixed(2))
	assert.Equal(t, "32.00", stub.Earnings[1].CurrentAmount.StringFixed(2))
	assert.Equal(t, "448.00", stub.Earnings[1].YTDAmount.StringFixed(2))

	assert.Equal(t, "832.00", stub.GrossEarnings.StringFixed(2))
	assert.Equal(t, "11648.00", stub.YTDGross.StringFixed(2))

	require.Len(t, stub.Deductions, 2)
	cpp := stub.Deductions[0]
	assert.Equal(t, "63.65", cpp.Amount.StringFixed(2))
	assert.Equal(t, "859.25", cpp.YTDAmount.StringFixed(2))
	ei := stub.Deductions[1]
	assert.Equal(t, "1.60", ei.Percentage.StringFixed(2))
	assert.Equal(t, "184.88", ei.YTDAmount.StringFixed(2))

	assert.Equal(t, "76.93", stub.TotalDeductions.StringFixed(2))
	assert.Equal(t, "755.07", stub.NetPay.StringFixed(2))
}

func TestAssemble_NoPriorStartsFromZero(t *testing.T) {
	assembly, err := Assemble(baseInput(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "800.00", assembly.PayStub.Earnings[0].YTDAmount.StringFixed(2))
	assert.Equal(t, "63.65", assembly.PayStub.Deductions[0].YTDAmount.StringFixed(2))
}

func TestAssemble_DuplicatePeriodIsAdvisory(t *testing.T) {
	existing := []payroll.PayStub{
		{ID: "stub-1", EmployeeID: "emp-1", Period: marchPeriod},
		{ID: "stub-2", EmployeeID: "emp-1", Period: payroll.PayPeriod{Start: marchPeriod.Start, End: marchPeriod.End.AddDate(0, 0, 1)}},
	}

	assembly, err := Assemble(baseInput(), priorStub(), existing)
	require.NoError(t, err)
	assert.True(t, assembly.Has(payroll.AdvisoryDuplicatePayPeriod))
	require.Len(t, assembly.Advisories, 1)
	assert.Equal(t, "stub-1", assembly.Advisories[0].ExistingPayStubID)
	assert.Equal(t, "800.00", assembly.PayStub.Earnings[0].CurrentAmount.StringFixed(2))
}

func TestAssemble_BlocksOnMissingRate(t *testing.T) {
	in := baseInput()
	in.HourlyRate = nil
	_, err := Assemble(in, priorStub(), nil)
	assert.ErrorIs(t, err, payroll.ErrMissingRateOrPeriod)

	in = baseInput()
	in.Period = payroll.PayPeriod{}
	_, err = Assemble(in, priorStub(), nil)
	assert.ErrorIs(t, err, payroll.ErrMissingRateOrPeriod)
}

func TestAssemble_InvalidBasis(t *testing.T) {
	in := baseInput()
	in.Deductions = []DeductionInput{{Kind: "CPP", Basis: "both"}}
	_, err := Assemble(in, nil, nil)
	assert.ErrorIs(t, err, payroll.ErrInvalidDeductionBasis)
}

func TestAssemble_ZeroHours(t *testing.T) {
	in := baseInput()
	in.RegularHours = 0
	in.FixedEarnings = nil
	assembly, err := Assemble(in, nil, nil)
	require.NoError(t, err)
	assert.True(t, assembly.PayStub.GrossEarnings.IsZero())
	assert.True(t, assembly.PayStub.Deductions[0].Amount.IsZero())
	assert.True(t, assembly.PayStub.Deductions[1].Percentage.IsZero())
	assert.True(t, decimal.NewFromFloat(-13.28).Equal(assembly.PayStub.NetPay))
}

func TestAssemble_RepeatedKindsKeepOneYTDSeries(t *testing.T) {
	in := baseInput()
	in.Deductions = []DeductionInput{
		{Kind: "CPP", Basis: payroll.BasisAmount, Amount: dec("40")},
		{Kind: "EI", Basis: payroll.BasisPercentage, Percentage: dec("1")},
		{Kind: "CPP", Basis: payroll.BasisAmount, Amount: dec("10")},
		{Kind: "EI", Basis: payroll.BasisPercentage, Percentage: dec("0.6")},
	}

	march, err := Assemble(in, priorStub(), nil)
	require.NoError(t, err)

	stub := march.PayStub
	require.Len(t, stub.Deductions, 2)
	cpp := stub.Deductions[0]
	assert.Equal(t, "CPP", cpp.Kind)
	assert.Equal(t, payroll.BasisAmount, cpp.Basis)
	assert.Equal(t, "50.00", cpp.Amount.StringFixed(2))
	assert.Equal(t, "845.60", cpp.YTDAmount.StringFixed(2))
	ei := stub.Deductions[1]
	assert.Equal(t, payroll.BasisPercentage, ei.Basis)
	assert.Equal(t, "1.60", ei.Percentage.StringFixed(2))
	assert.Equal(t, "13.31", ei.Amount.StringFixed(2))
	assert.Equal(t, "184.91", ei.YTDAmount.StringFixed(2))
	assert.Equal(t, "63.31", stub.TotalDeductions.StringFixed(2))

	// Vacation 20 + 12 merged onto the prior 416.
	require.Len(t, stub.Earnings, 2)
	assert.Equal(t, "448.00", stub.Earnings[1].YTDAmount.StringFixed(2))

	april := baseInput()
	april.Period = payroll.PayPeriod{
		Start: time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.April, 15, 0, 0, 0, 0, time.UTC),
	}
	april.Deductions = []DeductionInput{{Kind: "CPP", Basis: payroll.BasisAmount, Amount: dec("5")}}

	next, err := Assemble(april, &stub, nil)
	require.NoError(t, err)
	assert.Equal(t, "850.60", next.PayStub.Deductions[0].YTDAmount.StringFixed(2))
	assert.Equal(t, "480.00", next.PayStub.Earnings[1].YTDAmount.StringFixed(2))
	assert.Equal(t, "12000.00", next.PayStub.Earnings[0].YTDAmount.StringFixed(2))
}

func TestAssemble_RepeatedKindMixedBasisSumsAmounts(t *testing.T) {
	in := baseInput()
	in.Deductions = []DeductionInput{
		{Kind: "CPP", Basis: payroll.BasisPercentage, Percentage: dec("5")},
		{Kind: "CPP", Basis: payroll.BasisAmount, Amount: dec("10")},
	}

	assembly, err := Assemble(in, nil, nil)
	require.NoError(t, err)
	require.Len(t, assembly.PayStub.Deductions, 1)
	cpp := assembly.PayStub.Deductions[0]
	assert.Equal(t, payroll.BasisAmount, cpp.Basis)
	assert.Equal(t, "51.60", cpp.Amount.StringFixed(2))
	assert.Equal(t, "6.20", cpp.Percentage.StringFixed(2))
	assert.Equal(t, "51.60", cpp.YTDAmount.StringFixed(2))
}
