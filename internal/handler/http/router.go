package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/guardpost/guardpost-backend/internal/handler/http/middleware"
	"github.com/guardpost/guardpost-backend/internal/pkg/jwt"
)

type RouterOptions struct {
	AppName        string
	Version        string
	Env            string
	AllowedOrigins []string
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, attendanceHandler AttendanceHandler, payrollHandler PayrollHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", opts.AppName),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Use(middleware.RequireManager)
				r.Get("/summary", attendanceHandler.Summary)
				r.Get("/summary/export", attendanceHandler.ExportSummary)
				r.Post("/shifts/{id}/recompute", attendanceHandler.RecomputeShift)
			})

			r.Route("/payroll", func(r chi.Router) {
				r.With(middleware.RequireSelfOrManager("employeeID")).
					Get("/employees/{employeeID}/paystubs", payrollHandler.ListEmployeePayStubs)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Route("/paystubs", func(r chi.Router) {
						r.Post("/", payrollHandler.GeneratePayStub)
						r.Post("/preview", payrollHandler.PreviewPayStub)
						r.Get("/{id}", payrollHandler.GetPayStub)
						r.Get("/{id}/pdf", payrollHandler.DownloadPayStub)
					})
					r.Post("/deductions/reconcile", payrollHandler.ReconcileDeduction)
				})
			})
		})
	})

	return r
}
