package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/guardpost/guardpost-backend/internal/domain/attendance"
	"github.com/guardpost/guardpost-backend/internal/domain/payroll"
	"github.com/guardpost/guardpost-backend/internal/handler/http/response"
	"github.com/guardpost/guardpost-backend/internal/pkg/jwt"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type fakeAttendanceService struct {
	lastFilter attendance.SummaryFilter
}

func (f *fakeAttendanceService) GetSummary(ctx context.Context, filter attendance.SummaryFilter) (attendance.SummaryResponse, error) {
	f.lastFilter = filter
	if err := filter.Validate(); err != nil {
		return attendance.SummaryResponse{}, err
	}
	return attendance.SummaryResponse{From: filter.From, To: filter.To, ShiftCount: 2, ExcludedCount: 1, TotalHours: 16}, nil
}

func (f *fakeAttendanceService) ExportSummary(ctx context.Context, filter attendance.SummaryFilter, w io.Writer) error {
	_, err := w.Write([]byte("xlsx"))
	return err
}

func (f *fakeAttendanceService) RecomputeShift(ctx context.Context, shiftID string) (attendance.ShiftHoursResponse, error) {
	if shiftID != "shift-1" {
		return attendance.ShiftHoursResponse{}, attendance.ErrShiftNotFound
	}
	return attendance.ShiftHoursResponse{ShiftID: shiftID}, nil
}

func (f *fakeAttendanceService) RecomputeRange(ctx context.Context, filter attendance.SummaryFilter, companyID string) (int, error) {
	return 0, nil
}

type fakePayrollService struct{}

func (fakePayrollService) GeneratePayStub(ctx context.Context, req payroll.GeneratePayStubRequest) (payroll.PayStubResponse, error) {
	resp := payroll.PayStubResponse{EmployeeID: req.EmployeeID, NetPay: decimal.NewFromInt(800)}
	if !req.ConfirmDuplicate {
		resp.Advisories = []payroll.AdvisoryResponse{{Code: payroll.AdvisoryDuplicatePayPeriod, ExistingPayStubID: "stub-0"}}
		return resp, payroll.ErrDuplicatePayPeriod
	}
	resp.ID = "stub-1"
	return resp, nil
}

func (fakePayrollService) PreviewPayStub(ctx context.Context, req payroll.GeneratePayStubRequest) (payroll.PayStubResponse, error) {
	return payroll.PayStubResponse{}, payroll.ErrMissingRateOrPeriod
}

func (fakePayrollService) GetPayStub(ctx context.Context, id string) (payroll.PayStubResponse, error) {
	return payroll.PayStubResponse{}, payroll.ErrPayStubNotFound
}

func (fakePayrollService) ListPayStubs(ctx context.Context, employeeID string) ([]payroll.PayStubResponse, error) {
	return []payroll.PayStubResponse{{ID: "stub-1", EmployeeID: employeeID}}, nil
}

func (fakePayrollService) RenderPayStub(ctx context.Context, id string, w io.Writer) error {
	_, err := w.Write([]byte("%PDF-1.3"))
	return err
}

func (fakePayrollService) ReconcileDeduction(ctx context.Context, req payroll.ReconcileDeductionRequest) (payroll.DeductionLineResponse, error) {
	return payroll.DeductionLineResponse{Kind: req.Kind}, nil
}

type testServer struct {
	t          *testing.T
	jwtService jwt.Service
	attendance *fakeAttendanceService
	handler    http.Handler
}

func newTestServer(t *testing.T) *testServer {
	jwtService := jwt.NewJWTService(handlerTestSecret, "1h")
	att := &fakeAttendanceService{}
	router := NewRouter(RouterOptions{AppName: "guardpost-test", Env: "test", AllowedOrigins: []string{"*"}},
		jwtService, NewAttendanceHandler(att), NewPayrollHandler(fakePayrollService{}))
	return &testServer{t: t, jwtService: jwtService, attendance: att, handler: router}
}

func (s *testServer) token(claims jwt.Claims) string {
	s.t.Helper()
	token, _, err := s.jwtService.GenerateAccessToken(claims)
	require.NoError(s.t, err)
	return token
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

var manager = jwt.Claims{UserID: "user-1", CompanyID: "company-1", Role: jwt.RoleManager}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRouter_RequiresAuth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/api/v1/attendance/summary?from=2024-03-01&to=2024-03-31", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	noCompany := s.token(jwt.Claims{UserID: "user-1", Role: jwt.RoleManager})
	rec = s.do(http.MethodGet, "/api/v1/attendance/summary?from=2024-03-01&to=2024-03-31", noCompany, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_AttendanceSummary(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/api/v1/attendance/summary?from=2024-03-01&to=2024-03-31&location_id=loc-1", s.token(manager), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.True(t, body.Success)
	data := body.Data.(map[string]interface{})
	assert.Equal(t, 16.0, data["total_hours"])
	assert.Equal(t, "loc-1", s.attendance.lastFilter.LocationID)

	rec = s.do(http.MethodGet, "/api/v1/attendance/summary?from=2024-03-31&to=2024-03-01", s.token(manager), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRouter_EmployeeCannotReadSummary(t *testing.T) {
	s := newTestServer(t)
	employee := s.token(jwt.Claims{UserID: "user-2", CompanyID: "company-1", EmployeeID: "emp-1", Role: jwt.RoleEmployee})
	rec := s.do(http.MethodGet, "/api/v1/attendance/summary?from=2024-03-01&to=2024-03-31", employee, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_ExportAndRecompute(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/api/v1/attendance/summary/export?from=2024-03-01&to=2024-03-31", s.token(manager), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attendance_2024-03-01_2024-03-31.xlsx")
	assert.Equal(t, "xlsx", rec.Body.String())

	rec = s.do(http.MethodPost, "/api/v1/attendance/shifts/shift-1/recompute", s.token(manager), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/attendance/shifts/unknown/recompute", s.token(manager), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_GeneratePayStubDuplicate(t *testing.T) {
	s := newTestServer(t)
	req := map[string]interface{}{"employee_id": "emp-1", "period_start": "2024-03-01", "period_end": "2024-03-15"}

	rec := s.do(http.MethodPost, "/api/v1/payroll/paystubs", s.token(manager), req)
	require.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "DUPLICATE_PAY_PERIOD", body.Error.Code)
	require.NotNil(t, body.Data)

	req["confirm_duplicate"] = true
	rec = s.do(http.MethodPost, "/api/v1/payroll/paystubs", s.token(manager), req)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRouter_PayrollErrors(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/v1/payroll/paystubs/preview", s.token(manager), map[string]string{"employee_id": "emp-1"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "MISSING_RATE_OR_PERIOD", decodeBody(t, rec).Error.Code)

	rec = s.do(http.MethodGet, "/api/v1/payroll/paystubs/missing", s.token(manager), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/payroll/paystubs/stub-1/pdf", s.token(manager), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
}

func TestRouter_EmployeeOwnPayStubs(t *testing.T) {
	s := newTestServer(t)
	employee := s.token(jwt.Claims{UserID: "user-2", CompanyID: "company-1", EmployeeID: "emp-1", Role: jwt.RoleEmployee})

	rec := s.do(http.MethodGet, "/api/v1/payroll/employees/emp-1/paystubs", employee, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Meta)
	assert.Equal(t, int64(1), body.Meta.TotalItems)

	rec = s.do(http.MethodGet, "/api/v1/payroll/employees/emp-2/paystubs", employee, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/payroll/paystubs", employee, map[string]string{"employee_id": "emp-1"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
