package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/guardpost/guardpost-backend/internal/domain/payroll"
	"github.com/guardpost/guardpost-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type payStubRepository struct {
	db *database.DB
}

func NewPayStubRepository(db *database.DB) payroll.PayStubRepository {
	return &payStubRepository{db: db}
}

// earningJSON and deductionJSON are the stored shapes of the line JSONB columns.
type earningJSON struct {
	Kind          string           `json:"kind"`
	Quantity      *float64         `json:"quantity,omitempty"`
	Rate          *decimal.Decimal `json:"rate,omitempty"`
	CurrentAmount decimal.Decimal  `json:"current_amount"`
	YTDAmount     decimal.Decimal  `json:"ytd_amount"`
}

type deductionJSON struct {
	Kind       string                 `json:"kind"`
	Percentage decimal.Decimal        `json:"percentage"`
	Amount     decimal.Decimal        `json:"amount"`
	YTDAmount  decimal.Decimal        `json:"ytd_amount"`
	Basis      payroll.DeductionBasis `json:"basis"`
}

const payStubColumns = `
	p.id, p.company_id, p.employee_id, p.period_start, p.period_end,
	p.earnings, p.deductions, p.gross_earnings, p.total_deductions, p.net_pay, p.ytd_gross,
	p.file_path, p.created_at, p.updated_at, e.full_name AS employee_name
`

// Create implements payroll.PayStubRepository.
func (r *payStubRepository) Create(ctx context.Context, stub payroll.PayStub) (payroll.PayStub, error) {
	q := GetQuerier(ctx, r.db)

	earningsJSON, deductionsJSON, err := encodeLines(stub)
	if err != nil {
		return payroll.PayStub{}, err
	}

	query := `
		INSERT INTO paystubs (
			id, company_id, employee_id, period_start, period_end,
			earnings, deductions, gross_earnings, total_deductions, net_pay, ytd_gross
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		stub.ID, stub.CompanyID, stub.EmployeeID, stub.Period.Start, stub.Period.End,
		earningsJSON, deductionsJSON, stub.GrossEarnings, stub.TotalDeductions, stub.NetPay, stub.YTDGross,
	).Scan(&stub.CreatedAt, &stub.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "paystubs_employee_id_fkey") {
			return payroll.PayStub{}, payroll.ErrEmployeeNotFound
		}
		return payroll.PayStub{}, fmt.Errorf("failed to create paystub: %w", err)
	}

	return stub, nil
}

// GetByID implements payroll.PayStubRepository.
func (r *payStubRepository) GetByID(ctx context.Context, id string, companyID string) (payroll.PayStub, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + payStubColumns + `
		FROM paystubs p
		LEFT JOIN employees e ON e.id = p.employee_id
		WHERE p.id = $1 AND p.company_id = $2
	`

	stub, err := scanPayStub(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayStub{}, payroll.ErrPayStubNotFound
		}
		return payroll.PayStub{}, fmt.Errorf("failed to get paystub: %w", err)
	}

	return stub, nil
}

// ListByEmployee implements payroll.PayStubRepository.
func (r *payStubRepository) ListByEmployee(ctx context.Context, employeeID string, companyID string) ([]payroll.PayStub, error) {
	query := `
		SELECT` + payStubColumns + `
		FROM paystubs p
		LEFT JOIN employees e ON e.id = p.employee_id
		WHERE p.employee_id = $1 AND p.company_id = $2
		ORDER BY p.period_start DESC, p.created_at DESC
	`
	return r.list(ctx, query, employeeID, companyID)
}

// GetPrior implements payroll.PayStubRepository. Among stubs sharing the
// latest earlier period, the most recently created one wins.
func (r *payStubRepository) GetPrior(ctx context.Context, employeeID string, periodStart time.Time, companyID string) (*payroll.PayStub, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + payStubColumns + `
		FROM paystubs p
		LEFT JOIN employees e ON e.id = p.employee_id
		WHERE p.employee_id = $1 AND p.company_id = $2
		  AND p.period_start < $3
		  AND date_trunc('year', p.period_start) = date_trunc('year', $3::date)
		ORDER BY p.period_start DESC, p.created_at DESC
		LIMIT 1
	`

	stub, err := scanPayStub(q.QueryRow(ctx, query, employeeID, companyID, periodStart))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get prior paystub: %w", err)
	}

	return &stub, nil
}

// ListForPeriod implements payroll.PayStubRepository.
func (r *payStubRepository) ListForPeriod(ctx context.Context, employeeID string, period payroll.PayPeriod, companyID string) ([]payroll.PayStub, error) {
	query := `
		SELECT` + payStubColumns + `
		FROM paystubs p
		LEFT JOIN employees e ON e.id = p.employee_id
		WHERE p.employee_id = $1 AND p.company_id = $2
		  AND p.period_start = $3::date AND p.period_end = $4::date
		ORDER BY p.created_at ASC
	`
	return r.list(ctx, query, employeeID, companyID, period.Start, period.End)
}

// SetFilePath implements payroll.PayStubRepository.
func (r *payStubRepository) SetFilePath(ctx context.Context, id string, path string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE paystubs SET file_path = $1, updated_at = NOW()
		WHERE id = $2 AND company_id = $3
	`, path, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to set paystub file path: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayStubNotFound
	}

	return nil
}

func (r *payStubRepository) list(ctx context.Context, query string, args ...interface{}) ([]payroll.PayStub, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list paystubs: %w", err)
	}
	defer rows.Close()

	var stubs []payroll.PayStub
	for rows.Next() {
		stub, err := scanPayStub(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan paystub: %w", err)
		}
		stubs = append(stubs, stub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate paystubs: %w", err)
	}

	return stubs, nil
}

func scanPayStub(row pgx.Row) (payroll.PayStub, error) {
	var stub payroll.PayStub
	var earningsBytes, deductionsBytes []byte
	err := row.Scan(
		&stub.ID, &stub.CompanyID, &stub.EmployeeID, &stub.Period.Start, &stub.Period.End,
		&earningsBytes, &deductionsBytes, &stub.GrossEarnings, &stub.TotalDeductions, &stub.NetPay, &stub.YTDGross,
		&stub.FilePath, &stub.CreatedAt, &stub.UpdatedAt, &stub.EmployeeName,
	)
	if err != nil {
		return payroll.PayStub{}, err
	}
	if err := decodeLines(&stub, earningsBytes, deductionsBytes); err != nil {
		return payroll.PayStub{}, err
	}
	return stub, nil
}

func encodeLines(stub payroll.PayStub) ([]byte, []byte, error) {
	earnings := make([]earningJSON, 0, len(stub.Earnings))
	for _, e := range stub.Earnings {
		earnings = append(earnings, earningJSON(e))
	}
	deductions := make([]deductionJSON, 0, len(stub.Deductions))
	for _, d := range stub.Deductions {
		deductions = append(deductions, deductionJSON(d))
	}

	earningsJSON, err := json.Marshal(earnings)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode earnings: %w", err)
	}
	deductionsJSON, err := json.Marshal(deductions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode deductions: %w", err)
	}
	return earningsJSON, deductionsJSON, nil
}

func decodeLines(stub *payroll.PayStub, earningsBytes, deductionsBytes []byte) error {
	var earnings []earningJSON
	if len(earningsBytes) > 0 {
		if err := json.Unmarshal(earningsBytes, &earnings); err != nil {
			return fmt.Errorf("failed to decode earnings: %w", err)
		}
	}
	var deductions []deductionJSON
	if len(deductionsBytes) > 0 {
		if err := json.Unmarshal(deductionsBytes, &deductions); err != nil {
			return fmt.Errorf("failed to decode deductions: %w", err)
		}
	}

	stub.Earnings = make([]payroll.EarningLine, 0, len(earnings))
	for _, e := range earnings {
		stub.Earnings = append(stub.Earnings, payroll.EarningLine(e))
	}
	stub.Deductions = make([]payroll.DeductionLine, 0, len(deductions))
	for _, d := range deductions {
		stub.Deductions = append(stub.Deductions, payroll.DeductionLine(d))
	}
	return nil
}
