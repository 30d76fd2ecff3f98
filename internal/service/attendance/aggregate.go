package attendance

import (
	"errors"

	"github.com/guardpost/guardpost-backend/internal/domain/attendance"
	"github.com/guardpost/guardpost-backend/internal/pkg/timeutil"
)

// Aggregate folds reconciled hours for every entry in scope. Unavailable
// entries are counted in ExcludedCount and spans over 24h in OutOfRangeCount;
// neither contributes to ShiftCount or TotalHours. PatrolCount is left for the
// caller to fill from the patrol subsystem.
func Aggregate(shifts []attendance.Shift, scope attendance.Scope, toleranceMinutes int) attendance.Summary {
	var summary attendance.Summary
	for _, e := range Breakdown(shifts, scope, toleranceMinutes) {
		switch {
		case e.OutOfRange:
			summary.OutOfRangeCount++
		case !e.Reconciliation.Available:
			summary.ExcludedCount++
		default:
			summary.ShiftCount++
			summary.TotalHours += e.Reconciliation.Hours()
		}
	}
	return summary
}

// Breakdown reconciles every entry in scope, in shift order.
func Breakdown(shifts []attendance.Shift, scope attendance.Scope, toleranceMinutes int) []attendance.EntryHours {
	var out []attendance.EntryHours
	for _, shift := range shifts {
		if !inScope(shift, scope) {
			continue
		}
		for _, entry := range shift.Entries {
			if scope.EmployeeID != "" && entry.EmployeeID != scope.EmployeeID {
				continue
			}

			rec, err := ReconcileEntry(shift.Window, toleranceMinutes, entry)
			out = append(out, attendance.EntryHours{
				ShiftID:        shift.ID,
				Date:           shift.Window.Date,
				EmployeeID:     entry.EmployeeID,
				Status:         entry.Status,
				Reconciliation: rec,
				OutOfRange:     errors.Is(err, timeutil.ErrOutOfRangeDuration),
			})
		}
	}
	return out
}

func inScope(shift attendance.Shift, scope attendance.Scope) bool {
	if scope.LocationID != "" && shift.LocationID != scope.LocationID {
		return false
	}
	if scope.BranchID != "" && shift.BranchID != scope.BranchID {
		return false
	}
	return timeutil.WithinDates(shift.Window.Date, scope.From, scope.To)
}
