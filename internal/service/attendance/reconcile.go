package attendance

import (
	"fmt"
	"time"

	"github.com/guardpost/guardpost-backend/internal/domain/attendance"
	"github.com/guardpost/guardpost-backend/internal/pkg/timeutil"
)

// Reconcile derives the authoritative worked time for one employee on one shift.
// A missing reported start or end yields an unavailable result, never zero.
// When the reported total is within toleranceMinutes of the scheduled total the
// result is the scheduled duration exactly.
func Reconcile(window attendance.ScheduledWindow, toleranceMinutes int, reportedStart, reportedEnd *time.Time) (attendance.Reconciliation, error) {
	if reportedStart == nil || reportedEnd == nil {
		return attendance.Reconciliation{}, nil
	}

	raw, err := timeutil.Elapsed(*reportedStart, *reportedEnd)
	if err != nil {
		return attendance.Reconciliation{}, err
	}

	scheduled, err := scheduledDuration(window)
	if err != nil {
		return attendance.Reconciliation{}, err
	}

	if toleranceMinutes < 0 {
		toleranceMinutes = 0
	}
	diff := raw - scheduled
	if diff < 0 {
		diff = -diff
	}
	if diff <= time.Duration(toleranceMinutes)*time.Minute {
		return attendance.Reconciliation{Available: true, Duration: scheduled, Clamped: raw != scheduled}, nil
	}

	return attendance.Reconciliation{Available: true, Duration: raw}, nil
}

// ReconcileEntry applies Reconcile to a status entry. Entries that have not
// reached completed are always unavailable.
func ReconcileEntry(window attendance.ScheduledWindow, toleranceMinutes int, entry attendance.StatusEntry) (attendance.Reconciliation, error) {
	if entry.Status != attendance.StatusCompleted {
		return attendance.Reconciliation{}, nil
	}
	return Reconcile(window, toleranceMinutes, entry.ReportedStart, entry.ReportedEnd)
}

func scheduledDuration(window attendance.ScheduledWindow) (time.Duration, error) {
	loc := time.UTC
	if window.Timezone != "" {
		l, err := time.LoadLocation(window.Timezone)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", attendance.ErrInvalidWindow, err)
		}
		loc = l
	}

	start, end, err := timeutil.WindowBounds(window.Date, window.StartTime, window.EndTime, loc)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", attendance.ErrInvalidWindow, err)
	}
	return timeutil.Elapsed(start, end)
}
