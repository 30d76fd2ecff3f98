package postgresql

import (
	"context"
	"fmt"

	"github.com/guardpost/guardpost-backend/internal/domain/payroll"
	"github.com/guardpost/guardpost-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type employeeRateRepository struct {
	db *database.DB
}

func NewEmployeeRateRepository(db *database.DB) payroll.EmployeeRateRepository {
	return &employeeRateRepository{db: db}
}

// GetHourlyRate implements payroll.EmployeeRateRepository. A NULL rate is
// returned as nil so the engine can block on it.
func (r *employeeRateRepository) GetHourlyRate(ctx context.Context, employeeID string, companyID string) (*decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT hourly_rate
		FROM employees
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
	`

	var rate decimal.NullDecimal
	if err := q.QueryRow(ctx, query, employeeID, companyID).Scan(&rate); err != nil {
		if err == pgx.ErrNoRows {
			return nil, payroll.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get hourly rate: %w", err)
	}
	if !rate.Valid {
		return nil, nil
	}

	return &rate.Decimal, nil
}
