package paystubpdf

import (
	"fmt"
	"io"
	"strconv"

	"github.com/guardpost/guardpost-backend/internal/domain/payroll"
	"github.com/jung-kurt/gofpdf"
)

// Renderer writes paystubs as single-page A4 PDFs.
type Renderer struct {
	title    string
	currency string
}

func NewRenderer(title, currency string) *Renderer {
	if title == "" {
		title = "Pay Statement"
	}
	return &Renderer{title: title, currency: currency}
}

var (
	earningCols   = []float64{60, 30, 30, 35, 35}
	deductionCols = []float64{60, 30, 50, 50}
)

func (r *Renderer) Render(w io.Writer, stub payroll.PayStub) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, r.title)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	employee := stub.EmployeeID
	if stub.EmployeeName != nil && *stub.EmployeeName != "" {
		employee = fmt.Sprintf("%s (%s)", *stub.EmployeeName, stub.EmployeeID)
	}
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s", employee))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s to %s", stub.Period.Start.Format("2006-01-02"), stub.Period.End.Format("2006-01-02")))
	pdf.Ln(6)
	if stub.ID != "" {
		pdf.Cell(0, 7, fmt.Sprintf("Reference: %s", stub.ID))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	header(pdf, earningCols, "Earnings", "Hours", "Rate", "Current", "YTD")
	for _, e := range stub.Earnings {
		hours, rate := "", ""
		if e.Quantity != nil {
			hours = strconv.FormatFloat(*e.Quantity, 'f', 2, 64)
		}
		if e.Rate != nil {
			rate = e.Rate.StringFixed(2)
		}
		row(pdf, earningCols, e.Kind, hours, rate, e.CurrentAmount.StringFixed(2), e.YTDAmount.StringFixed(2))
	}
	pdf.Ln(6)

	header(pdf, deductionCols, "Deductions", "%", "Current", "YTD")
	for _, d := range stub.Deductions {
		row(pdf, deductionCols, d.Kind, d.Percentage.StringFixed(2), d.Amount.StringFixed(2), d.YTDAmount.StringFixed(2))
	}
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Gross: %s %s", stub.GrossEarnings.StringFixed(2), r.currency))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Deductions: %s %s", stub.TotalDeductions.StringFixed(2), r.currency))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Net: %s %s", stub.NetPay.StringFixed(2), r.currency))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 8, fmt.Sprintf("YTD gross: %s %s", stub.YTDGross.StringFixed(2), r.currency))

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write paystub pdf: %w", err)
	}
	return nil
}

func header(pdf *gofpdf.Fpdf, widths []float64, labels ...string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, label := range labels {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 7, label, "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)
}

func row(pdf *gofpdf.Fpdf, widths []float64, values ...string) {
	pdf.SetFont("Helvetica", "", 10)
	for i, v := range values {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 6, v, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}
