package export

import (
	"fmt"
	"io"

	"github.com/guardpost/guardpost-backend/internal/domain/attendance"
	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet = "Summary"
	EntriesSheet = "Entries"
)

// XLSXExporter writes attendance summaries as Excel workbooks with a
// Summary sheet and one row per entry on an Entries sheet.
type XLSXExporter struct{}

func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

func (e *XLSXExporter) WriteSummary(w io.Writer, summary attendance.SummaryResponse, entries []attendance.EntryHours) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}

	employee := "All employees"
	if summary.EmployeeID != nil {
		employee = *summary.EmployeeID
	}
	average := ""
	if summary.AverageHours != nil {
		average = fmt.Sprintf("%.2f", *summary.AverageHours)
	}

	rows := [][]interface{}{
		{"From", summary.From},
		{"To", summary.To},
		{"Employee", employee},
		{"Shifts", summary.ShiftCount},
		{"Excluded", summary.ExcludedCount},
		{"Out of range", summary.OutOfRangeCount},
		{"Patrols", summary.PatrolCount},
		{"Total hours", fmt.Sprintf("%.2f", summary.TotalHours)},
		{"Average hours", average},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SummarySheet, cell, &r); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	if _, err := f.NewSheet(EntriesSheet); err != nil {
		return fmt.Errorf("failed to create entries sheet: %w", err)
	}
	header := []interface{}{"Shift", "Date", "Employee", "Status", "Hours", "Clamped", "Note"}
	if err := f.SetSheetRow(EntriesSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write entries header: %w", err)
	}
	for i, entry := range entries {
		hours, note := "", ""
		switch {
		case entry.OutOfRange:
			note = "out of range"
		case !entry.Reconciliation.Available:
			note = "unavailable"
		default:
			hours = fmt.Sprintf("%.2f", entry.Reconciliation.Hours())
		}
		r := []interface{}{
			entry.ShiftID,
			entry.Date.Format("2006-01-02"),
			entry.EmployeeID,
			string(entry.Status),
			hours,
			entry.Reconciliation.Clamped,
			note,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(EntriesSheet, cell, &r); err != nil {
			return fmt.Errorf("failed to write entry row: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
