package attendance

import (
	"time"
)

// EntryStatus is the per-employee attendance state inside a shift.
type EntryStatus string

const (
	StatusPending   EntryStatus = "pending"
	StatusStarted   EntryStatus = "started"
	StatusCompleted EntryStatus = "completed"
)

// ScheduledWindow is the planned boundary of a shift. StartTime and EndTime
// are wall-clock values ("15:04") on Date; an EndTime at or before StartTime
// ends on the following day.
type ScheduledWindow struct {
	Date      time.Time
	StartTime string
	EndTime   string
	Timezone  string
}

// StatusEntry is one employee's attendance record within a shift.
type StatusEntry struct {
	EmployeeID       string
	Status           EntryStatus
	ReportedStart    *time.Time
	ReportedEnd      *time.Time
	CachedTotalHours *float64
	UpdatedAt        time.Time
}

type Shift struct {
	ID         string
	CompanyID  string
	Window     ScheduledWindow
	LocationID string
	BranchID   string
	Entries    []StatusEntry
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// DTO
	LocationName *string
}

// Entry returns the status entry for employeeID, if assigned.
func (s Shift) Entry(employeeID string) (StatusEntry, bool) {
	for _, e := range s.Entries {
		if e.EmployeeID == employeeID {
			return e, true
		}
	}
	return StatusEntry{}, false
}

// Reconciliation is the authoritative worked time for one entry.
// Available is false when a reported start or end is missing.
type Reconciliation struct {
	Available bool
	Duration  time.Duration
	Clamped   bool
}

func (r Reconciliation) Hours() float64 {
	return r.Duration.Hours()
}

// HoursPtr is the cache representation: nil when unavailable.
func (r Reconciliation) HoursPtr() *float64 {
	if !r.Available {
		return nil
	}
	h := r.Hours()
	return &h
}

// Summary is the folded attendance for a filter. ShiftCount only counts
// entries with an available reconciliation.
type Summary struct {
	ShiftCount      int
	ExcludedCount   int
	OutOfRangeCount int
	PatrolCount     int
	TotalHours      float64
}

// Incomplete reports whether any entries were left out of TotalHours.
func (s Summary) Incomplete() bool {
	return s.ExcludedCount > 0 || s.OutOfRangeCount > 0
}

// AverageHours is TotalHours over the shifts that contributed to it.
func (s Summary) AverageHours() float64 {
	if s.ShiftCount == 0 {
		return 0
	}
	return s.TotalHours / float64(s.ShiftCount)
}

// Scope is a parsed SummaryFilter. Empty IDs and zero dates do not filter.
type Scope struct {
	EmployeeID string
	LocationID string
	BranchID   string
	From       time.Time
	To         time.Time
}

// EntryHours is one reconciled entry, as listed in exports.
type EntryHours struct {
	ShiftID        string
	Date           time.Time
	EmployeeID     string
	Status         EntryStatus
	Reconciliation Reconciliation
	OutOfRange     bool
}
