package postgresql

import (
	"context"
	"fmt"

	"github.com/guardpost/guardpost-backend/internal/domain/attendance"
	"github.com/guardpost/guardpost-backend/internal/pkg/database"
)

type patrolRepository struct {
	db *database.DB
}

func NewPatrolRepository(db *database.DB) attendance.PatrolCounter {
	return &patrolRepository{db: db}
}

// CountPatrols implements attendance.PatrolCounter.
func (r *patrolRepository) CountPatrols(ctx context.Context, filter attendance.SummaryFilter, companyID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	where, args := shiftListWhere(filter, companyID)
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM patrol_logs p
		JOIN shifts s ON s.id = p.shift_id
		WHERE %s
	`, where)
	if filter.EmployeeID != "" {
		query += fmt.Sprintf(" AND p.employee_id = $%d", len(args))
	}

	var count int
	if err := q.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count patrols: %w", err)
	}

	return count, nil
}
