package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guardpost/guardpost-backend/internal/config"
	"github.com/guardpost/guardpost-backend/internal/domain/payroll"
	appHTTP "github.com/guardpost/guardpost-backend/internal/handler/http"
	"github.com/guardpost/guardpost-backend/internal/messaging/kafka"
	"github.com/guardpost/guardpost-backend/internal/pkg/cron"
	"github.com/guardpost/guardpost-backend/internal/pkg/database"
	"github.com/guardpost/guardpost-backend/internal/pkg/export"
	"github.com/guardpost/guardpost-backend/internal/pkg/jwt"
	"github.com/guardpost/guardpost-backend/internal/pkg/paystubpdf"
	"github.com/guardpost/guardpost-backend/internal/pkg/storage"
	"github.com/guardpost/guardpost-backend/internal/repository/postgresql"
	attendanceService "github.com/guardpost/guardpost-backend/internal/service/attendance"
	payrollService "github.com/guardpost/guardpost-backend/internal/service/payroll"
)

const version = "v1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(cfg.App.LogLevel))

	db, err := database.NewPostgreSQLDB(context.Background(), cfg.DatabaseURL(), cfg.PoolOptions())
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	shiftRepo := postgresql.NewShiftRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db, cfg.Attendance.DefaultToleranceMinutes)
	patrolRepo := postgresql.NewPatrolRepository(db)
	payStubRepo := postgresql.NewPayStubRepository(db)
	rateRepo := postgresql.NewEmployeeRateRepository(db)
	companyRepo := postgresql.NewCompanyRepository(db)

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		slog.Error("Failed to initialize local storage", "error", err)
		os.Exit(1)
	}

	var publisher payroll.EventPublisher = kafka.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		writer := kafka.NewWriter(cfg.Kafka.Brokers)
		defer writer.Close()
		publisher = kafka.NewPayStubPublisher(writer, cfg.Kafka.Topic)
	} else {
		slog.Warn("KAFKA_BROKERS not set, paystub events will not be published")
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	attendanceSvc := attendanceService.NewAttendanceService(shiftRepo, settingsRepo, patrolRepo, export.NewXLSXExporter())
	payrollSvc := payrollService.NewPayrollService(
		payStubRepo,
		rateRepo,
		shiftRepo,
		settingsRepo,
		paystubpdf.NewRenderer(cfg.Paystub.Title, cfg.Paystub.Currency),
		publisher,
		fileStorage,
	)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)

	router := appHTTP.NewRouter(appHTTP.RouterOptions{
		AppName:        "guardpost",
		Version:        version,
		Env:            cfg.App.Env,
		AllowedOrigins: []string{cfg.App.FrontendURL},
	}, JWTService, attendanceHandler, payrollHandler)

	scheduler := cron.NewScheduler()
	if cfg.Attendance.RecomputeEnabled {
		var companies cron.CompanyLister = companyRepo
		if len(cfg.Attendance.CompanyIDs) > 0 {
			companies = cron.StaticCompanies(cfg.Attendance.CompanyIDs)
		}
		cron.NewAttendanceJobs(attendanceSvc, companies, 2).RegisterJobs(scheduler)
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
