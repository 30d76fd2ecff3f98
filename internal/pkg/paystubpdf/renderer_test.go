package paystubpdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/guardpost/guardpost-backend/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Render(t *testing.T) {
	hours := 80.0
	rate := decimal.NewFromInt(20)
	name := "Dana Reyes"
	stub := payroll.PayStub{
		ID:         "stub-1",
		EmployeeID: "emp-1",
		Period: payroll.PayPeriod{
			Start: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		},
		Earnings: []payroll.EarningLine{
			{Kind: payroll.EarningKindRegular, Quantity: &hours, Rate: &rate, CurrentAmount: decimal.NewFromInt(1600), YTDAmount: decimal.NewFromInt(12000)},
			{Kind: payroll.EarningKindVacation, CurrentAmount: decimal.NewFromInt(64), YTDAmount: decimal.NewFromInt(480)},
		},
		Deductions: []payroll.DeductionLine{
			{Kind: "CPP", Percentage: decimal.RequireFromString("7.65"), Amount: decimal.RequireFromString("127.30"), YTDAmount: decimal.RequireFromString("955.00")},
		},
		GrossEarnings:   decimal.NewFromInt(1664),
		TotalDeductions: decimal.RequireFromString("127.30"),
		NetPay:          decimal.RequireFromString("1536.70"),
		YTDGross:        decimal.NewFromInt(12480),
		EmployeeName:    &name,
	}

	var buf bytes.Buffer
	require.NoError(t, NewRenderer("", "CAD").Render(&buf, stub))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 500)
}

func TestRenderer_RenderEmptyStub(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer("Statement", "").Render(&buf, payroll.PayStub{}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
