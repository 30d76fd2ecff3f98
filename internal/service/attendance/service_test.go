package attendance

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/guardpost/guardpost-backend/internal/domain/attendance"
	"github.com/guardpost/guardpost-backend/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCompanyID = "company-1"

type fakeShiftRepo struct {
	shifts  []attendance.Shift
	updates map[string]*float64
}

func (f *fakeShiftRepo) GetByID(ctx context.Context, id string, companyID string) (attendance.Shift, error) {
	for _, s := range f.shifts {
		if s.ID == id && s.CompanyID == companyID {
			return s, nil
		}
	}
	return attendance.Shift{}, attendance.ErrShiftNotFound
}

func (f *fakeShiftRepo) List(ctx context.Context, filter attendance.SummaryFilter, companyID string) ([]attendance.Shift, error) {
	var out []attendance.Shift
	for _, s := range f.shifts {
		if s.CompanyID == companyID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeShiftRepo) UpdateCachedHours(ctx context.Context, shiftID string, employeeID string, hours *float64, companyID string) error {
	if f.updates == nil {
		f.updates = make(map[string]*float64)
	}
	f.updates[shiftID+"/"+employeeID] = hours
	return nil
}

type fixedTolerance int

func (t fixedTolerance) ToleranceMinutes(ctx context.Context, companyID string) (int, error) {
	return int(t), nil
}

type fixedPatrols struct {
	count int
	err   error
}

func (p fixedPatrols) CountPatrols(ctx context.Context, filter attendance.SummaryFilter, companyID string) (int, error) {
	return p.count, p.err
}

type recordingExporter struct {
	summary attendance.SummaryResponse
	entries []attendance.EntryHours
}

func (r *recordingExporter) WriteSummary(w io.Writer, summary attendance.SummaryResponse, entries []attendance.EntryHours) error {
	r.summary = summary
	r.entries = entries
	_, err := w.Write([]byte("ok"))
	return err
}

func authedContext(t *testing.T) context.Context {
	t.Helper()
	svc := jwt.NewJWTService("test-secret-key-for-jwt", "1h")
	token, _, err := svc.GenerateAccessToken(jwt.Claims{UserID: "user-1", CompanyID: testCompanyID, Role: jwt.RoleManager})
	require.NoError(t, err)
	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), decoded, nil)
}

func seededRepo() *fakeShiftRepo {
	stale := 7.0
	s1 := shiftOn("s1", 1, "loc-1",
		completed("emp-1", instant(1, 8, 0), instant(1, 16, 10)),
		attendance.StatusEntry{EmployeeID: "emp-2", Status: attendance.StatusStarted, ReportedStart: instant(1, 8, 0), CachedTotalHours: &stale},
	)
	s1.CompanyID = testCompanyID
	s2 := shiftOn("s2", 2, "loc-1", completed("emp-1", instant(2, 8, 0), instant(2, 16, 0)))
	s2.CompanyID = testCompanyID
	eight := 8.0
	s2.Entries[0].CachedTotalHours = &eight
	return &fakeShiftRepo{shifts: []attendance.Shift{s1, s2}}
}

var marchFilter = attendance.SummaryFilter{From: "2024-03-01", To: "2024-03-31"}

func TestAttendanceService_GetSummary(t *testing.T) {
	svc := NewAttendanceService(seededRepo(), fixedTolerance(15), fixedPatrols{count: 4}, &recordingExporter{})

	resp, err := svc.GetSummary(authedContext(t), marchFilter)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.ShiftCount)
	assert.Equal(t, 1, resp.ExcludedCount)
	assert.Equal(t, 4, resp.PatrolCount)
	assert.Equal(t, 16.0, resp.TotalHours)
	require.NotNil(t, resp.AverageHours)
	assert.Equal(t, 8.0, *resp.AverageHours)
	assert.True(t, resp.Incomplete)
	assert.Nil(t, resp.EmployeeID)
}

func TestAttendanceService_GetSummary_Validation(t *testing.T) {
	svc := NewAttendanceService(seededRepo(), fixedTolerance(15), nil, &recordingExporter{})

	_, err := svc.GetSummary(authedContext(t), attendance.SummaryFilter{From: "2024-03-31", To: "2024-03-01"})
	assert.Error(t, err)

	_, err = svc.GetSummary(authedContext(t), attendance.SummaryFilter{From: "March"})
	assert.Error(t, err)
}

func TestAttendanceService_GetSummary_RequiresClaims(t *testing.T) {
	svc := NewAttendanceService(seededRepo(), fixedTolerance(15), nil, &recordingExporter{})
	_, err := svc.GetSummary(context.Background(), marchFilter)
	assert.Error(t, err)
}

func TestAttendanceService_GetSummary_PatrolFailure(t *testing.T) {
	svc := NewAttendanceService(seededRepo(), fixedTolerance(15), fixedPatrols{err: errors.New("down")}, &recordingExporter{})
	_, err := svc.GetSummary(authedContext(t), marchFilter)
	assert.ErrorIs(t, err, attendance.ErrPatrolCountFailure)
}

func TestAttendanceService_ExportSummary(t *testing.T) {
	exporter := &recordingExporter{}
	svc := NewAttendanceService(seededRepo(), fixedTolerance(15), nil, exporter)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportSummary(authedContext(t), marchFilter, &buf))
	assert.Equal(t, "ok", buf.String())
	assert.Len(t, exporter.entries, 3)
	assert.Equal(t, 2, exporter.summary.ShiftCount)
}

func TestAttendanceService_RecomputeShift(t *testing.T) {
	repo := seededRepo()
	svc := NewAttendanceService(repo, fixedTolerance(15), nil, &recordingExporter{})

	resp, err := svc.RecomputeShift(authedContext(t), "s1")
	require.NoError(t, err)
	assert.Equal(t, 15, resp.ToleranceMinutes)
	require.Len(t, resp.Entries, 2)

	require.NotNil(t, resp.Entries[0].TotalHours)
	assert.Equal(t, 8.0, *resp.Entries[0].TotalHours)
	assert.True(t, resp.Entries[0].Clamped)
	assert.Nil(t, resp.Entries[1].TotalHours)

	// Both entries changed: emp-1 had no cache, emp-2's stale cache is cleared.
	require.Contains(t, repo.updates, "s1/emp-1")
	assert.Equal(t, 8.0, *repo.updates["s1/emp-1"])
	require.Contains(t, repo.updates, "s1/emp-2")
	assert.Nil(t, repo.updates["s1/emp-2"])
}

func TestAttendanceService_RecomputeShift_NotFound(t *testing.T) {
	svc := NewAttendanceService(seededRepo(), fixedTolerance(15), nil, &recordingExporter{})
	_, err := svc.RecomputeShift(authedContext(t), "missing")
	assert.ErrorIs(t, err, attendance.ErrShiftNotFound)
}

func TestAttendanceService_RecomputeRange_SkipsUnchanged(t *testing.T) {
	repo := seededRepo()
	svc := NewAttendanceService(repo, fixedTolerance(15), nil, &recordingExporter{})

	n, err := svc.RecomputeRange(context.Background(), marchFilter, testCompanyID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NotContains(t, repo.updates, "s2/emp-1")
	assert.Len(t, repo.updates, 2)
}
