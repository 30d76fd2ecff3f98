package attendance

import (
	"context"
	"io"
)

// AttendanceService defines the reporting side of shift attendance
type AttendanceService interface {
	// GetSummary folds reconciled hours for the filter
	GetSummary(ctx context.Context, filter SummaryFilter) (SummaryResponse, error)

	// ExportSummary writes the summary as a spreadsheet
	ExportSummary(ctx context.Context, filter SummaryFilter, w io.Writer) error

	// RecomputeShift reconciles every entry of a shift and refreshes the cached hours
	RecomputeShift(ctx context.Context, shiftID string) (ShiftHoursResponse, error)

	// RecomputeRange refreshes cached hours for every shift in the filter range
	RecomputeRange(ctx context.Context, filter SummaryFilter, companyID string) (int, error)
}
