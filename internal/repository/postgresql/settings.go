package postgresql

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/guardpost/guardpost-backend/internal/domain/attendance"
	"github.com/guardpost/guardpost-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type settingsRepository struct {
	db               *database.DB
	defaultTolerance int
}

// NewSettingsRepository resolves tolerance from company_settings, falling
// back to defaultTolerance for companies without a stored value.
func NewSettingsRepository(db *database.DB, defaultTolerance int) attendance.ToleranceSource {
	if defaultTolerance < 0 {
		defaultTolerance = 0
	}
	return &settingsRepository{db: db, defaultTolerance: defaultTolerance}
}

// ToleranceMinutes implements attendance.ToleranceSource.
func (r *settingsRepository) ToleranceMinutes(ctx context.Context, companyID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT value
		FROM company_settings
		WHERE company_id = $1 AND key = 'attendance_tolerance_minutes'
	`

	var raw *string
	err := q.QueryRow(ctx, query, companyID).Scan(&raw)
	if err != nil {
		if err == pgx.ErrNoRows {
			return r.defaultTolerance, nil
		}
		return 0, fmt.Errorf("failed to get tolerance setting: %w", err)
	}
	if raw == nil {
		return r.defaultTolerance, nil
	}

	minutes, ok := ParseToleranceMinutes(*raw)
	if !ok {
		slog.Warn("Ignoring malformed tolerance setting", "company_id", companyID, "value", *raw)
	}
	return minutes, nil
}

// ParseToleranceMinutes reads a stored tolerance. Malformed or negative
// values resolve to 0 and report false.
func ParseToleranceMinutes(raw string) (int, bool) {
	minutes, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || minutes < 0 {
		return 0, false
	}
	return minutes, true
}
