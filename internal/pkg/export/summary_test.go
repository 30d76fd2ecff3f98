package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/guardpost/guardpost-backend/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXLSXExporter_WriteSummary(t *testing.T) {
	average := 8.0
	summary := attendance.SummaryResponse{
		From:          "2024-03-01",
		To:            "2024-03-31",
		ShiftCount:    2,
		ExcludedCount: 1,
		PatrolCount:   4,
		TotalHours:    16,
		AverageHours:  &average,
		Incomplete:    true,
	}
	day := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	entries := []attendance.EntryHours{
		{ShiftID: "s1", Date: day, EmployeeID: "emp-1", Status: attendance.StatusCompleted,
			Reconciliation: attendance.Reconciliation{Available: true, Duration: 8 * time.Hour, Clamped: true}},
		{ShiftID: "s1", Date: day, EmployeeID: "emp-2", Status: attendance.StatusStarted},
	}

	var buf bytes.Buffer
	require.NoError(t, NewXLSXExporter().WriteSummary(&buf, summary, entries))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheet, EntriesSheet}, f.GetSheetList())

	total, err := f.GetCellValue(SummarySheet, "B8")
	require.NoError(t, err)
	assert.Equal(t, "16.00", total)

	employee, err := f.GetCellValue(SummarySheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "All employees", employee)

	rows, err := f.GetRows(EntriesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "8.00", rows[1][4])
	assert.Equal(t, "emp-2", rows[2][2])
	assert.Equal(t, "unavailable", rows[2][6])
}
