package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/guardpost/guardpost-backend/internal/domain/attendance"
)

// CompanyLister lists the companies whose shifts the nightly job refreshes.
type CompanyLister interface {
	ListCompanyIDs(ctx context.Context) ([]string, error)
}

// Recomputer is the part of attendance.AttendanceService the job drives.
type Recomputer interface {
	RecomputeRange(ctx context.Context, filter attendance.SummaryFilter, companyID string) (int, error)
}

type AttendanceJobs struct {
	recomputer Recomputer
	companies  CompanyLister
	lookback   int
	now        func() time.Time
}

// NewAttendanceJobs refreshes cached hours for the last lookbackDays days,
// which covers late check-outs on overnight shifts.
func NewAttendanceJobs(recomputer Recomputer, companies CompanyLister, lookbackDays int) *AttendanceJobs {
	if lookbackDays < 1 {
		lookbackDays = 1
	}
	return &AttendanceJobs{
		recomputer: recomputer,
		companies:  companies,
		lookback:   lookbackDays,
		now:        time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddDailyJob("recompute_cached_shift_hours", 1, j.RecomputeCachedHours)
}

// RecomputeCachedHours reconciles every shift in the lookback window for each
// company. One company failing does not stop the others.
func (j *AttendanceJobs) RecomputeCachedHours(ctx context.Context) error {
	companyIDs, err := j.companies.ListCompanyIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list companies: %w", err)
	}

	today := j.now().UTC()
	filter := attendance.SummaryFilter{
		From: today.AddDate(0, 0, -j.lookback).Format("2006-01-02"),
		To:   today.AddDate(0, 0, -1).Format("2006-01-02"),
	}

	slog.Info("Cron: Starting cached hours recompute", "from", filter.From, "to", filter.To, "companies", len(companyIDs))

	var errs []error
	total := 0
	for _, companyID := range companyIDs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		n, err := j.recomputer.RecomputeRange(ctx, filter, companyID)
		total += n
		if err != nil {
			slog.Error("Cron: Failed to recompute cached hours", "company_id", companyID, "error", err)
			errs = append(errs, fmt.Errorf("company %s: %w", companyID, err))
		}
	}

	slog.Info("Cron: Cached hours recompute finished", "shifts", total, "failures", len(errs))
	return errors.Join(errs...)
}

// StaticCompanies lists a fixed set of companies, e.g. from configuration.
type StaticCompanies []string

func (s StaticCompanies) ListCompanyIDs(ctx context.Context) ([]string, error) {
	return s, nil
}
