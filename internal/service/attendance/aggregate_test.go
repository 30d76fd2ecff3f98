package attendance

import (
	"testing"
	"time"

	"github.com/guardpost/guardpost-backend/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
)

func completed(employeeID string, start, end *time.Time) attendance.StatusEntry {
	return attendance.StatusEntry{
		EmployeeID:    employeeID,
		Status:        attendance.StatusCompleted,
		ReportedStart: start,
		ReportedEnd:   end,
	}
}

func shiftOn(id string, day int, location string, entries ...attendance.StatusEntry) attendance.Shift {
	return attendance.Shift{
		ID:         id,
		LocationID: location,
		BranchID:   "branch-1",
		Window: attendance.ScheduledWindow{
			Date:      time.Date(2024, time.March, day, 0, 0, 0, 0, time.UTC),
			StartTime: "08:00",
			EndTime:   "16:00",
		},
		Entries: entries,
	}
}

func marchScope(employeeID string) attendance.Scope {
	return attendance.Scope{
		EmployeeID: employeeID,
		From:       time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		To:         time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestAggregate_UnavailableIsExcludedNotZero(t *testing.T) {
	shifts := []attendance.Shift{
		shiftOn("s1", 1, "loc-1", completed("emp-1", instant(1, 8, 0), instant(1, 16, 0))),
		shiftOn("s2", 2, "loc-1", completed("emp-1", instant(2, 8, 0), instant(2, 16, 0))),
		shiftOn("s3", 3, "loc-1", attendance.StatusEntry{
			EmployeeID:    "emp-1",
			Status:        attendance.StatusStarted,
			ReportedStart: instant(3, 8, 0),
		}),
	}

	summary := Aggregate(shifts, marchScope("emp-1"), 15)

	assert.Equal(t, 2, summary.ShiftCount)
	assert.Equal(t, 1, summary.ExcludedCount)
	assert.Equal(t, 16.0, summary.TotalHours)
	assert.Equal(t, 8.0, summary.AverageHours())
	assert.True(t, summary.Incomplete())
}

func TestAggregate_MultipleEmployeesPerShift(t *testing.T) {
	shifts := []attendance.Shift{
		shiftOn("s1", 1, "loc-1",
			completed("emp-1", instant(1, 8, 0), instant(1, 16, 5)),
			completed("emp-2", instant(1, 8, 0), instant(1, 12, 0)),
			attendance.StatusEntry{EmployeeID: "emp-3", Status: attendance.StatusPending},
		),
	}

	all := Aggregate(shifts, marchScope(""), 15)
	assert.Equal(t, 2, all.ShiftCount)
	assert.Equal(t, 1, all.ExcludedCount)
	assert.Equal(t, 12.0, all.TotalHours)

	one := Aggregate(shifts, marchScope("emp-2"), 15)
	assert.Equal(t, 1, one.ShiftCount)
	assert.Equal(t, 0, one.ExcludedCount)
	assert.Equal(t, 4.0, one.TotalHours)
	assert.False(t, one.Incomplete())
}

func TestAggregate_FiltersDateLocationBranch(t *testing.T) {
	shifts := []attendance.Shift{
		shiftOn("s1", 1, "loc-1", completed("emp-1", instant(1, 8, 0), instant(1, 16, 0))),
		shiftOn("s2", 2, "loc-2", completed("emp-1", instant(2, 8, 0), instant(2, 16, 0))),
	}

	scope := marchScope("emp-1")
	scope.LocationID = "loc-2"
	assert.Equal(t, 1, Aggregate(shifts, scope, 0).ShiftCount)

	scope = marchScope("emp-1")
	scope.From = time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 8.0, Aggregate(shifts, scope, 0).TotalHours)

	scope = marchScope("emp-1")
	scope.BranchID = "branch-9"
	assert.Equal(t, attendance.Summary{}, Aggregate(shifts, scope, 0))
}

func TestAggregate_OutOfRangeFlagged(t *testing.T) {
	shifts := []attendance.Shift{
		shiftOn("s1", 1, "loc-1", completed("emp-1", instant(1, 8, 0), instant(2, 9, 0))),
		shiftOn("s2", 2, "loc-1", completed("emp-1", instant(2, 8, 0), instant(2, 16, 0))),
	}

	summary := Aggregate(shifts, marchScope("emp-1"), 15)
	assert.Equal(t, 1, summary.ShiftCount)
	assert.Equal(t, 0, summary.ExcludedCount)
	assert.Equal(t, 1, summary.OutOfRangeCount)
	assert.Equal(t, 8.0, summary.TotalHours)
	assert.True(t, summary.Incomplete())
}

func TestAggregate_EmptyAverage(t *testing.T) {
	summary := Aggregate(nil, marchScope(""), 15)
	assert.Equal(t, 0.0, summary.AverageHours())
	assert.False(t, summary.Incomplete())
}

func TestBreakdown_ListsEveryEntry(t *testing.T) {
	shifts := []attendance.Shift{
		shiftOn("s1", 1, "loc-1",
			completed("emp-1", instant(1, 8, 0), instant(1, 16, 0)),
			attendance.StatusEntry{EmployeeID: "emp-2", Status: attendance.StatusStarted},
		),
	}

	entries := Breakdown(shifts, marchScope(""), 0)
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "s1", entries[0].ShiftID)
		assert.True(t, entries[0].Reconciliation.Available)
		assert.Equal(t, attendance.StatusStarted, entries[1].Status)
		assert.False(t, entries[1].Reconciliation.Available)
	}
}
