package attendance

import (
	"context"
	"io"
)

// ShiftRepository defines data access methods for shifts and their status entries.
// All methods include companyID parameter to prevent cross-company data access attacks.
type ShiftRepository interface {
	// GetByID retrieves a shift with all of its status entries
	GetByID(ctx context.Context, id string, companyID string) (Shift, error)

	// List retrieves shifts whose scheduled date lies within the filter range.
	// Entries are not filtered by employee; callers fold them.
	List(ctx context.Context, filter SummaryFilter, companyID string) ([]Shift, error)

	// UpdateCachedHours stores the reconciled hours for one entry. nil clears the cache.
	UpdateCachedHours(ctx context.Context, shiftID string, employeeID string, hours *float64, companyID string) error
}

// PatrolCounter is supplied by the patrol subsystem.
type PatrolCounter interface {
	CountPatrols(ctx context.Context, filter SummaryFilter, companyID string) (int, error)
}

// ToleranceSource resolves the company-wide tolerance margin in minutes.
type ToleranceSource interface {
	ToleranceMinutes(ctx context.Context, companyID string) (int, error)
}

// SummaryExporter renders a summary and its entries to a downloadable artifact.
type SummaryExporter interface {
	WriteSummary(w io.Writer, summary SummaryResponse, entries []EntryHours) error
}
