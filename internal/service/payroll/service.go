package payroll

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/guardpost/guardpost-backend/internal/domain/attendance"
	"github.com/guardpost/guardpost-backend/internal/domain/payroll"
	"github.com/guardpost/guardpost-backend/internal/pkg/jwt"
	"github.com/guardpost/guardpost-backend/internal/pkg/storage"
	attendanceService "github.com/guardpost/guardpost-backend/internal/service/attendance"
)

type PayrollServiceImpl struct {
	payStubRepo payroll.PayStubRepository
	rateRepo    payroll.EmployeeRateRepository
	shiftRepo   attendance.ShiftRepository
	tolerance   attendance.ToleranceSource
	renderer    payroll.PayStubRenderer
	publisher   payroll.EventPublisher
	fileStorage storage.FileStorage
}

func NewPayrollService(
	payStubRepo payroll.PayStubRepository,
	rateRepo payroll.EmployeeRateRepository,
	shiftRepo attendance.ShiftRepository,
	tolerance attendance.ToleranceSource,
	renderer payroll.PayStubRenderer,
	publisher payroll.EventPublisher,
	fileStorage storage.FileStorage,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		payStubRepo: payStubRepo,
		rateRepo:    rateRepo,
		shiftRepo:   shiftRepo,
		tolerance:   tolerance,
		renderer:    renderer,
		publisher:   publisher,
		fileStorage: fileStorage,
	}
}

// ========== PAYSTUBS ==========

// GeneratePayStub implements payroll.PayrollService.
func (s *PayrollServiceImpl) GeneratePayStub(ctx context.Context, req payroll.GeneratePayStubRequest) (payroll.PayStubResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayStubResponse{}, err
	}

	assembly, err := s.assemble(ctx, req, claims.CompanyID)
	if err != nil {
		return payroll.PayStubResponse{}, err
	}

	if assembly.Has(payroll.AdvisoryDuplicatePayPeriod) && !req.ConfirmDuplicate {
		return mapToPayStubResponse(assembly.PayStub, assembly.Advisories), payroll.ErrDuplicatePayPeriod
	}

	stub := assembly.PayStub
	stub.ID = uuid.NewString()
	created, err := s.payStubRepo.Create(ctx, stub)
	if err != nil {
		return payroll.PayStubResponse{}, fmt.Errorf("failed to create paystub: %w", err)
	}

	if assembly.Has(payroll.AdvisoryDuplicatePayPeriod) {
		slog.Warn("Paystub generated for an already covered pay period",
			"paystub_id", created.ID,
			"employee_id", created.EmployeeID,
			"confirmed_by", claims.UserID)
	}

	s.archive(ctx, &created)

	if s.publisher != nil {
		if err := s.publisher.PublishPayStubGenerated(ctx, created); err != nil {
			slog.Error("Failed to publish paystub generated event", "paystub_id", created.ID, "error", err)
		}
	}

	return mapToPayStubResponse(created, assembly.Advisories), nil
}

// PreviewPayStub implements payroll.PayrollService.
func (s *PayrollServiceImpl) PreviewPayStub(ctx context.Context, req payroll.GeneratePayStubRequest) (payroll.PayStubResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayStubResponse{}, err
	}

	assembly, err := s.assemble(ctx, req, claims.CompanyID)
	if err != nil {
		return payroll.PayStubResponse{}, err
	}
	return mapToPayStubResponse(assembly.PayStub, assembly.Advisories), nil
}

// assemble gathers every input the engine needs and runs Assemble.
func (s *PayrollServiceImpl) assemble(ctx context.Context, req payroll.GeneratePayStubRequest, companyID string) (payroll.Assembly, error) {
	if err := req.Validate(); err != nil {
		return payroll.Assembly{}, err
	}

	period := req.Period()
	if period.IsZero() {
		return payroll.Assembly{}, payroll.ErrMissingRateOrPeriod
	}

	rate := req.HourlyRate
	if rate == nil {
		var err error
		rate, err = s.rateRepo.GetHourlyRate(ctx, req.EmployeeID, companyID)
		if err != nil {
			return payroll.Assembly{}, err
		}
	}

	summary, err := s.periodHours(ctx, req.EmployeeID, period, companyID)
	if err != nil {
		return payroll.Assembly{}, err
	}

	prior, err := s.priorInYear(ctx, req.EmployeeID, period.Start, companyID)
	if err != nil {
		return payroll.Assembly{}, err
	}

	existing, err := s.payStubRepo.ListForPeriod(ctx, req.EmployeeID, period, companyID)
	if err != nil {
		return payroll.Assembly{}, fmt.Errorf("failed to check existing paystubs: %w", err)
	}

	input := AssembleInput{
		CompanyID:    companyID,
		EmployeeID:   req.EmployeeID,
		Period:       period,
		HourlyRate:   rate,
		RegularHours: summary.TotalHours,
	}
	for _, e := range req.Earnings {
		input.FixedEarnings = append(input.FixedEarnings, FixedEarningInput{Kind: e.Kind, Amount: e.Amount})
	}
	for _, d := range req.Deductions {
		in := DeductionInput{Kind: d.Kind, Basis: d.Basis}
		if d.Percentage != nil {
			in.Percentage = *d.Percentage
		}
		if d.Amount != nil {
			in.Amount = *d.Amount
		}
		input.Deductions = append(input.Deductions, in)
	}

	assembly, err := Assemble(input, prior, existing)
	if err != nil {
		return payroll.Assembly{}, err
	}

	if summary.Incomplete() {
		assembly.Advisories = append(assembly.Advisories, payroll.Advisory{
			Code: payroll.AdvisoryIncompleteAttendance,
			Message: fmt.Sprintf("%d shift entries without usable check-in/out were left out of Regular hours",
				summary.ExcludedCount+summary.OutOfRangeCount),
		})
	}

	return assembly, nil
}

// periodHours sums reconciled hours for the employee across the pay period.
func (s *PayrollServiceImpl) periodHours(ctx context.Context, employeeID string, period payroll.PayPeriod, companyID string) (attendance.Summary, error) {
	tolerance, err := s.tolerance.ToleranceMinutes(ctx, companyID)
	if err != nil {
		return attendance.Summary{}, fmt.Errorf("failed to resolve tolerance: %w", err)
	}

	filter := attendance.SummaryFilter{
		EmployeeID: employeeID,
		From:       period.Start.Format("2006-01-02"),
		To:         period.End.Format("2006-01-02"),
	}
	shifts, err := s.shiftRepo.List(ctx, filter, companyID)
	if err != nil {
		return attendance.Summary{}, err
	}

	return attendanceService.Aggregate(shifts, attendance.Scope{
		EmployeeID: employeeID,
		From:       period.Start,
		To:         period.End,
	}, tolerance), nil
}

// archive stores the rendered PDF. Failures are logged; the stub itself is already saved.
func (s *PayrollServiceImpl) archive(ctx context.Context, stub *payroll.PayStub) {
	if s.renderer == nil || s.fileStorage == nil {
		return
	}

	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, *stub); err != nil {
		slog.Error("Failed to render paystub", "paystub_id", stub.ID, "error", err)
		return
	}

	path := fmt.Sprintf("paystubs/%s/%s.pdf", stub.CompanyID, stub.ID)
	stored, err := s.fileStorage.Upload(ctx, &buf, path, "application/pdf")
	if err != nil {
		slog.Error("Failed to archive paystub", "paystub_id", stub.ID, "error", err)
		return
	}

	if err := s.payStubRepo.SetFilePath(ctx, stub.ID, stored, stub.CompanyID); err != nil {
		slog.Error("Failed to record paystub file path", "paystub_id", stub.ID, "error", err)
		return
	}
	stub.FilePath = &stored
}

// GetPayStub implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetPayStub(ctx context.Context, id string) (payroll.PayStubResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayStubResponse{}, err
	}

	stub, err := s.payStubRepo.GetByID(ctx, id, claims.CompanyID)
	if err != nil {
		return payroll.PayStubResponse{}, err
	}
	return mapToPayStubResponse(stub, nil), nil
}

// ListPayStubs implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListPayStubs(ctx context.Context, employeeID string) ([]payroll.PayStubResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	stubs, err := s.payStubRepo.ListByEmployee(ctx, employeeID, claims.CompanyID)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.PayStubResponse, 0, len(stubs))
	for _, stub := range stubs {
		responses = append(responses, mapToPayStubResponse(stub, nil))
	}
	return responses, nil
}

// RenderPayStub implements payroll.PayrollService.
func (s *PayrollServiceImpl) RenderPayStub(ctx context.Context, id string, w io.Writer) error {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	stub, err := s.payStubRepo.GetByID(ctx, id, claims.CompanyID)
	if err != nil {
		return err
	}

	if served, err := s.serveArchived(ctx, stub, w); served || err != nil {
		return err
	}
	return s.renderer.Render(w, stub)
}

// serveArchived copies the archived PDF when one exists. A missing archive is
// not an error; the caller renders afresh.
func (s *PayrollServiceImpl) serveArchived(ctx context.Context, stub payroll.PayStub, w io.Writer) (bool, error) {
	if s.fileStorage == nil || stub.FilePath == nil {
		return false, nil
	}

	ok, err := s.fileStorage.Exists(ctx, *stub.FilePath)
	if err != nil || !ok {
		if err != nil {
			slog.Warn("Paystub archive lookup failed", "paystub_id", stub.ID, "error", err)
		}
		return false, nil
	}

	file, err := s.fileStorage.Download(ctx, *stub.FilePath)
	if err != nil {
		slog.Warn("Paystub archive unreadable", "paystub_id", stub.ID, "error", err)
		return false, nil
	}
	defer file.Close()

	if _, err := io.Copy(w, file); err != nil {
		return true, fmt.Errorf("failed to copy archived paystub: %w", err)
	}
	return true, nil
}

// ========== DEDUCTIONS ==========

// ReconcileDeduction implements payroll.PayrollService.
func (s *PayrollServiceImpl) ReconcileDeduction(ctx context.Context, req payroll.ReconcileDeductionRequest) (payroll.DeductionLineResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.DeductionLineResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.DeductionLineResponse{}, err
	}

	line := payroll.DeductionLine{
		Kind:       req.Kind,
		Percentage: req.Percentage,
		Amount:     req.Amount,
		YTDAmount:  req.YTDAmount,
	}

	switch req.Edit {
	case payroll.EditPercentage:
		if req.Value.IsNegative() {
			return payroll.DeductionLineResponse{}, payroll.ErrNegativePercentage
		}
		line = SetByPercentage(line, *req.Value, req.TotalEarnings)
	case payroll.EditAmount:
		if req.Value.IsNegative() {
			return payroll.DeductionLineResponse{}, payroll.ErrNegativeAmount
		}
		line = SetByAmount(line, *req.Value, req.TotalEarnings)
	case payroll.EditKind:
		periodStart, _ := time.Parse("2006-01-02", req.PeriodStart)
		prior, err := s.priorInYear(ctx, req.EmployeeID, periodStart, claims.CompanyID)
		if err != nil {
			return payroll.DeductionLineResponse{}, err
		}
		line = ChangeKind(line, req.NewKind, prior)
	}

	return mapToDeductionResponse(line), nil
}

// priorInYear fetches the prior stub that seeds YTD. A stub from an earlier
// calendar year is ignored so every series restarts in January.
func (s *PayrollServiceImpl) priorInYear(ctx context.Context, employeeID string, periodStart time.Time, companyID string) (*payroll.PayStub, error) {
	prior, err := s.payStubRepo.GetPrior(ctx, employeeID, periodStart, companyID)
	if err != nil {
		if errors.Is(err, payroll.ErrPayStubNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get prior paystub: %w", err)
	}
	if prior != nil && prior.Period.Start.Year() != periodStart.Year() {
		return nil, nil
	}
	return prior, nil
}

func mapToPayStubResponse(stub payroll.PayStub, advisories []payroll.Advisory) payroll.PayStubResponse {
	resp := payroll.PayStubResponse{
		ID:              stub.ID,
		EmployeeID:      stub.EmployeeID,
		EmployeeName:    stub.EmployeeName,
		PeriodStart:     stub.Period.Start.Format("2006-01-02"),
		PeriodEnd:       stub.Period.End.Format("2006-01-02"),
		Earnings:        make([]payroll.EarningLineResponse, 0, len(stub.Earnings)),
		Deductions:      make([]payroll.DeductionLineResponse, 0, len(stub.Deductions)),
		GrossEarnings:   stub.GrossEarnings,
		TotalDeductions: stub.TotalDeductions,
		NetPay:          stub.NetPay,
		YTDGross:        stub.YTDGross,
	}
	if !stub.CreatedAt.IsZero() {
		createdAt := stub.CreatedAt
		resp.CreatedAt = &createdAt
	}
	for _, e := range stub.Earnings {
		resp.Earnings = append(resp.Earnings, payroll.EarningLineResponse{
			Kind:          e.Kind,
			Quantity:      e.Quantity,
			Rate:          e.Rate,
			CurrentAmount: e.CurrentAmount,
			YTDAmount:     e.YTDAmount,
		})
	}
	for _, d := range stub.Deductions {
		resp.Deductions = append(resp.Deductions, mapToDeductionResponse(d))
	}
	for _, a := range advisories {
		resp.Advisories = append(resp.Advisories, payroll.AdvisoryResponse{
			Code:              a.Code,
			Message:           a.Message,
			ExistingPayStubID: a.ExistingPayStubID,
		})
	}
	return resp
}

func mapToDeductionResponse(d payroll.DeductionLine) payroll.DeductionLineResponse {
	return payroll.DeductionLineResponse{
		Kind:       d.Kind,
		Percentage: d.Percentage,
		Amount:     d.Amount,
		YTDAmount:  d.YTDAmount,
		Basis:      d.Basis,
	}
}
