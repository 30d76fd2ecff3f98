package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/guardpost/guardpost-backend/internal/domain/attendance"
	"github.com/guardpost/guardpost-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) attendance.ShiftRepository {
	return &shiftRepository{db: db}
}

const shiftColumns = `
	s.id, s.company_id, s.date,
	to_char(s.start_time, 'HH24:MI:SS'), to_char(s.end_time, 'HH24:MI:SS'), s.timezone,
	s.location_id, COALESCE(s.branch_id::text, ''), s.created_at, s.updated_at,
	l.name AS location_name
`

// GetByID implements attendance.ShiftRepository.
func (r *shiftRepository) GetByID(ctx context.Context, id string, companyID string) (attendance.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + shiftColumns + `
		FROM shifts s
		LEFT JOIN locations l ON l.id = s.location_id
		WHERE s.id = $1 AND s.company_id = $2
	`

	s, err := scanShift(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Shift{}, attendance.ErrShiftNotFound
		}
		return attendance.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}

	entries, err := r.loadEntries(ctx, []string{s.ID})
	if err != nil {
		return attendance.Shift{}, err
	}
	s.Entries = entries[s.ID]

	return s, nil
}

// List implements attendance.ShiftRepository.
func (r *shiftRepository) List(ctx context.Context, filter attendance.SummaryFilter, companyID string) ([]attendance.Shift, error) {
	q := GetQuerier(ctx, r.db)

	where, args := shiftListWhere(filter, companyID)
	query := fmt.Sprintf(`
		SELECT %s
		FROM shifts s
		LEFT JOIN locations l ON l.id = s.location_id
		WHERE %s
		ORDER BY s.date ASC, s.start_time ASC
	`, shiftColumns, where)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	var shifts []attendance.Shift
	var ids []string
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shifts: %w", err)
	}

	if len(ids) == 0 {
		return shifts, nil
	}

	entries, err := r.loadEntries(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range shifts {
		shifts[i].Entries = entries[shifts[i].ID]
	}

	return shifts, nil
}

// UpdateCachedHours implements attendance.ShiftRepository.
func (r *shiftRepository) UpdateCachedHours(ctx context.Context, shiftID string, employeeID string, hours *float64, companyID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_entries se
		SET cached_total_hours = $1, updated_at = NOW()
		FROM shifts s
		WHERE se.shift_id = s.id
		  AND se.shift_id = $2
		  AND se.employee_id = $3
		  AND s.company_id = $4
	`

	tag, err := q.Exec(ctx, query, hours, shiftID, employeeID, companyID)
	if err != nil {
		return fmt.Errorf("failed to update cached hours: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrEntryNotFound
	}

	return nil
}

func (r *shiftRepository) loadEntries(ctx context.Context, shiftIDs []string) (map[string][]attendance.StatusEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT shift_id, employee_id, status, reported_start, reported_end, cached_total_hours, updated_at
		FROM shift_entries
		WHERE shift_id = ANY($1)
		ORDER BY shift_id, employee_id
	`

	rows, err := q.Query(ctx, query, shiftIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load shift entries: %w", err)
	}
	defer rows.Close()

	entries := make(map[string][]attendance.StatusEntry, len(shiftIDs))
	for rows.Next() {
		var shiftID string
		var e attendance.StatusEntry
		if err := rows.Scan(&shiftID, &e.EmployeeID, &e.Status, &e.ReportedStart, &e.ReportedEnd, &e.CachedTotalHours, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shift entry: %w", err)
		}
		entries[shiftID] = append(entries[shiftID], e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shift entries: %w", err)
	}

	return entries, nil
}

func scanShift(row pgx.Row) (attendance.Shift, error) {
	var s attendance.Shift
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.Window.Date,
		&s.Window.StartTime, &s.Window.EndTime, &s.Window.Timezone,
		&s.LocationID, &s.BranchID, &s.CreatedAt, &s.UpdatedAt,
		&s.LocationName,
	)
	return s, err
}

// shiftListWhere builds the WHERE clause for List. Shifts are narrowed to the
// employee when one is given, but every entry of a matching shift is loaded.
func shiftListWhere(filter attendance.SummaryFilter, companyID string) (string, []interface{}) {
	conditions := []string{"s.company_id = $1"}
	args := []interface{}{companyID}
	argIdx := 2

	if filter.From != "" {
		conditions = append(conditions, fmt.Sprintf("s.date >= $%d::date", argIdx))
		args = append(args, filter.From)
		argIdx++
	}
	if filter.To != "" {
		conditions = append(conditions, fmt.Sprintf("s.date <= $%d::date", argIdx))
		args = append(args, filter.To)
		argIdx++
	}
	if filter.LocationID != "" {
		conditions = append(conditions, fmt.Sprintf("s.location_id = $%d", argIdx))
		args = append(args, filter.LocationID)
		argIdx++
	}
	if filter.BranchID != "" {
		conditions = append(conditions, fmt.Sprintf("s.branch_id = $%d", argIdx))
		args = append(args, filter.BranchID)
		argIdx++
	}
	if filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM shift_entries se WHERE se.shift_id = s.id AND se.employee_id = $%d)", argIdx))
		args = append(args, filter.EmployeeID)
	}

	return strings.Join(conditions, " AND "), args
}
