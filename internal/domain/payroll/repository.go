package payroll

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// PayStubRepository defines data access methods for paystubs.
// All methods include companyID parameter to prevent cross-company data access attacks.
type PayStubRepository interface {
	Create(ctx context.Context, stub PayStub) (PayStub, error)
	GetByID(ctx context.Context, id string, companyID string) (PayStub, error)
	ListByEmployee(ctx context.Context, employeeID string, companyID string) ([]PayStub, error)

	// GetPrior returns the most recent paystub whose period starts before
	// periodStart within the same calendar year, or nil. YTD series therefore
	// restart with the first stub of each January.
	GetPrior(ctx context.Context, employeeID string, periodStart time.Time, companyID string) (*PayStub, error)

	// ListForPeriod returns stubs with exactly these period bounds.
	ListForPeriod(ctx context.Context, employeeID string, period PayPeriod, companyID string) ([]PayStub, error)

	SetFilePath(ctx context.Context, id string, path string, companyID string) error
}

// EmployeeRateRepository resolves an employee's hourly pay rate.
type EmployeeRateRepository interface {
	GetHourlyRate(ctx context.Context, employeeID string, companyID string) (*decimal.Decimal, error)
}

// PayStubRenderer produces a printable artifact from a completed paystub.
type PayStubRenderer interface {
	Render(w io.Writer, stub PayStub) error
}

// EventPublisher announces generated paystubs to downstream consumers.
type EventPublisher interface {
	PublishPayStubGenerated(ctx context.Context, stub PayStub) error
}
