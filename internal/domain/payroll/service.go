package payroll

import (
	"context"
	"io"
)

type PayrollService interface {
	// GeneratePayStub assembles and stores a paystub. A duplicate pay period
	// fails with ErrDuplicatePayPeriod unless the request confirms it.
	GeneratePayStub(ctx context.Context, req GeneratePayStubRequest) (PayStubResponse, error)

	// PreviewPayStub assembles without storing and reports advisories
	PreviewPayStub(ctx context.Context, req GeneratePayStubRequest) (PayStubResponse, error)

	GetPayStub(ctx context.Context, id string) (PayStubResponse, error)
	ListPayStubs(ctx context.Context, employeeID string) ([]PayStubResponse, error)
	RenderPayStub(ctx context.Context, id string, w io.Writer) error

	// ReconcileDeduction applies one deduction edit against total earnings
	ReconcileDeduction(ctx context.Context, req ReconcileDeductionRequest) (DeductionLineResponse, error)
}
