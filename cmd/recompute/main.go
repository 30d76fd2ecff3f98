// Command recompute refreshes cached shift hours for a date range, for
// backfills after tolerance changes or corrected check-ins.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/guardpost/guardpost-backend/internal/config"
	"github.com/guardpost/guardpost-backend/internal/domain/attendance"
	"github.com/guardpost/guardpost-backend/internal/pkg/database"
	"github.com/guardpost/guardpost-backend/internal/repository/postgresql"
	attendanceService "github.com/guardpost/guardpost-backend/internal/service/attendance"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")

	var (
		companies []string
		from      string
		to        string
		employee  string
		verbose   bool
	)
	flagSet := pflag.NewFlagSet("recompute", pflag.ContinueOnError)
	flagSet.StringSliceVar(&companies, "company", nil, "company ID to recompute (repeatable; default: every company with shifts)")
	flagSet.StringVar(&from, "from", yesterday, "first shift date, YYYY-MM-DD")
	flagSet.StringVar(&to, "to", yesterday, "last shift date, YYYY-MM-DD")
	flagSet.StringVar(&employee, "employee", "", "only shifts this employee is assigned to")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.NewPostgreSQLDB(context.Background(), cfg.DatabaseURL(), cfg.PoolOptions())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if len(companies) == 0 {
		companies, err = postgresql.NewCompanyRepository(db).ListCompanyIDs(ctx)
		if err != nil {
			return err
		}
	}

	svc := attendanceService.NewAttendanceService(
		postgresql.NewShiftRepository(db),
		postgresql.NewSettingsRepository(db, cfg.Attendance.DefaultToleranceMinutes),
		postgresql.NewPatrolRepository(db),
		nil,
	)

	filter := attendance.SummaryFilter{From: from, To: to, EmployeeID: employee}
	total := 0
	for _, companyID := range companies {
		// One transaction per company so a failed backfill leaves its caches untouched.
		var n int
		err := postgresql.WithTransaction(ctx, db, func(txCtx context.Context) error {
			var err error
			n, err = svc.RecomputeRange(txCtx, filter, companyID)
			return err
		})
		if err != nil {
			return fmt.Errorf("company %s: %w", companyID, err)
		}
		slog.Info("Recomputed cached hours", "company_id", companyID, "shifts", n)
		total += n
	}

	slog.Info("Recompute finished", "companies", len(companies), "shifts", total, "from", from, "to", to)
	return nil
}
