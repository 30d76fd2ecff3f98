package attendance

import (
	"time"

	"github.com/guardpost/guardpost-backend/internal/pkg/validator"
)

// SummaryFilter narrows attendance aggregation. Empty fields do not filter.
type SummaryFilter struct {
	EmployeeID string `json:"employee_id" validate:"omitempty,uuid"`
	From       string `json:"from" validate:"required,datetime=2006-01-02"`
	To         string `json:"to" validate:"required,datetime=2006-01-02"`
	LocationID string `json:"location_id" validate:"omitempty,uuid"`
	BranchID   string `json:"branch_id" validate:"omitempty,uuid"`
}

func (f *SummaryFilter) Validate() error {
	if err := validator.Struct(f); err != nil {
		return err
	}
	from, _ := time.Parse("2006-01-02", f.From)
	to, _ := time.Parse("2006-01-02", f.To)
	if to.Before(from) {
		return validator.ValidationErrors{{Field: "to", Message: "must not be before from"}}
	}
	return nil
}

// Scope returns the parsed filter. Call after Validate.
func (f SummaryFilter) Scope() Scope {
	from, _ := time.Parse("2006-01-02", f.From)
	to, _ := time.Parse("2006-01-02", f.To)
	return Scope{
		EmployeeID: f.EmployeeID,
		LocationID: f.LocationID,
		BranchID:   f.BranchID,
		From:       from,
		To:         to,
	}
}

type SummaryResponse struct {
	From            string   `json:"from"`
	To              string   `json:"to"`
	EmployeeID      *string  `json:"employee_id,omitempty"`
	ShiftCount      int      `json:"shift_count"`
	PatrolCount     int      `json:"patrol_count"`
	ExcludedCount   int      `json:"excluded_count"`
	OutOfRangeCount int      `json:"out_of_range_count"`
	TotalHours      float64  `json:"total_hours"`
	AverageHours    *float64 `json:"average_hours,omitempty"`
	Incomplete      bool     `json:"incomplete"`
}

type EntryHoursResponse struct {
	EmployeeID string   `json:"employee_id"`
	Status     string   `json:"status"`
	TotalHours *float64 `json:"total_hours"`
	Clamped    bool     `json:"clamped"`
	Warning    *string  `json:"warning,omitempty"`
}

type ShiftHoursResponse struct {
	ShiftID          string               `json:"shift_id"`
	ToleranceMinutes int                  `json:"tolerance_minutes"`
	Entries          []EntryHoursResponse `json:"entries"`
}
