package attendance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/guardpost/guardpost-backend/internal/domain/attendance"
	"github.com/guardpost/guardpost-backend/internal/pkg/jwt"
	"github.com/guardpost/guardpost-backend/internal/pkg/timeutil"
)

type AttendanceServiceImpl struct {
	shiftRepo attendance.ShiftRepository
	tolerance attendance.ToleranceSource
	patrols   attendance.PatrolCounter
	exporter  attendance.SummaryExporter
}

func NewAttendanceService(
	shiftRepo attendance.ShiftRepository,
	tolerance attendance.ToleranceSource,
	patrols attendance.PatrolCounter,
	exporter attendance.SummaryExporter,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		shiftRepo: shiftRepo,
		tolerance: tolerance,
		patrols:   patrols,
		exporter:  exporter,
	}
}

// GetSummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetSummary(ctx context.Context, filter attendance.SummaryFilter) (attendance.SummaryResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	summary, _, err := s.summarize(ctx, filter, claims.CompanyID)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}
	return toSummaryResponse(filter, summary), nil
}

// ExportSummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ExportSummary(ctx context.Context, filter attendance.SummaryFilter, w io.Writer) error {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	summary, entries, err := s.summarize(ctx, filter, claims.CompanyID)
	if err != nil {
		return err
	}
	return s.exporter.WriteSummary(w, toSummaryResponse(filter, summary), entries)
}

func (s *AttendanceServiceImpl) summarize(ctx context.Context, filter attendance.SummaryFilter, companyID string) (attendance.Summary, []attendance.EntryHours, error) {
	if err := filter.Validate(); err != nil {
		return attendance.Summary{}, nil, err
	}

	tolerance, err := s.tolerance.ToleranceMinutes(ctx, companyID)
	if err != nil {
		return attendance.Summary{}, nil, fmt.Errorf("failed to resolve tolerance: %w", err)
	}

	shifts, err := s.shiftRepo.List(ctx, filter, companyID)
	if err != nil {
		return attendance.Summary{}, nil, err
	}

	scope := filter.Scope()
	summary := Aggregate(shifts, scope, tolerance)
	entries := Breakdown(shifts, scope, tolerance)

	if s.patrols != nil {
		patrols, err := s.patrols.CountPatrols(ctx, filter, companyID)
		if err != nil {
			return attendance.Summary{}, nil, fmt.Errorf("%w: %v", attendance.ErrPatrolCountFailure, err)
		}
		summary.PatrolCount = patrols
	}

	if summary.OutOfRangeCount > 0 {
		slog.Warn("Attendance entries exceed 24h and were excluded",
			"company_id", companyID,
			"from", filter.From,
			"to", filter.To,
			"count", summary.OutOfRangeCount)
	}

	return summary, entries, nil
}

// RecomputeShift implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RecomputeShift(ctx context.Context, shiftID string) (attendance.ShiftHoursResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.ShiftHoursResponse{}, err
	}

	tolerance, err := s.tolerance.ToleranceMinutes(ctx, claims.CompanyID)
	if err != nil {
		return attendance.ShiftHoursResponse{}, fmt.Errorf("failed to resolve tolerance: %w", err)
	}

	shift, err := s.shiftRepo.GetByID(ctx, shiftID, claims.CompanyID)
	if err != nil {
		return attendance.ShiftHoursResponse{}, err
	}

	entries, err := s.refreshCache(ctx, shift, tolerance)
	if err != nil {
		return attendance.ShiftHoursResponse{}, err
	}

	return attendance.ShiftHoursResponse{
		ShiftID:          shift.ID,
		ToleranceMinutes: tolerance,
		Entries:          entries,
	}, nil
}

// RecomputeRange implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RecomputeRange(ctx context.Context, filter attendance.SummaryFilter, companyID string) (int, error) {
	if err := filter.Validate(); err != nil {
		return 0, err
	}

	tolerance, err := s.tolerance.ToleranceMinutes(ctx, companyID)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve tolerance: %w", err)
	}

	shifts, err := s.shiftRepo.List(ctx, filter, companyID)
	if err != nil {
		return 0, err
	}

	scope := filter.Scope()
	refreshed := 0
	for _, shift := range shifts {
		if !inScope(shift, scope) {
			continue
		}
		if _, err := s.refreshCache(ctx, shift, tolerance); err != nil {
			return refreshed, err
		}
		refreshed++
	}
	return refreshed, nil
}

// refreshCache is the only writer of cached hours. Unchanged values are not rewritten.
func (s *AttendanceServiceImpl) refreshCache(ctx context.Context, shift attendance.Shift, tolerance int) ([]attendance.EntryHoursResponse, error) {
	out := make([]attendance.EntryHoursResponse, 0, len(shift.Entries))
	for _, entry := range shift.Entries {
		resp := attendance.EntryHoursResponse{
			EmployeeID: entry.EmployeeID,
			Status:     string(entry.Status),
		}

		rec, err := ReconcileEntry(shift.Window, tolerance, entry)
		if err != nil {
			if !errors.Is(err, timeutil.ErrOutOfRangeDuration) && !errors.Is(err, attendance.ErrInvalidWindow) {
				return nil, err
			}
			warning := err.Error()
			resp.Warning = &warning
			slog.Warn("Attendance entry could not be reconciled",
				"shift_id", shift.ID,
				"employee_id", entry.EmployeeID,
				"error", err)
		}

		hours := rec.HoursPtr()
		resp.TotalHours = hours
		resp.Clamped = rec.Clamped

		if !sameHours(entry.CachedTotalHours, hours) {
			if err := s.shiftRepo.UpdateCachedHours(ctx, shift.ID, entry.EmployeeID, hours, shift.CompanyID); err != nil {
				return nil, fmt.Errorf("failed to update cached hours: %w", err)
			}
		}
		out = append(out, resp)
	}
	return out, nil
}

func sameHours(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func toSummaryResponse(filter attendance.SummaryFilter, summary attendance.Summary) attendance.SummaryResponse {
	resp := attendance.SummaryResponse{
		From:            filter.From,
		To:              filter.To,
		ShiftCount:      summary.ShiftCount,
		PatrolCount:     summary.PatrolCount,
		ExcludedCount:   summary.ExcludedCount,
		OutOfRangeCount: summary.OutOfRangeCount,
		TotalHours:      summary.TotalHours,
		Incomplete:      summary.Incomplete(),
	}
	if filter.EmployeeID != "" {
		employeeID := filter.EmployeeID
		resp.EmployeeID = &employeeID
	}
	if summary.ShiftCount > 0 {
		avg := summary.AverageHours()
		resp.AverageHours = &avg
	}
	return resp
}
