package kafka

import "time"

const (
	PayStubGeneratedTopic = "guardpost.payroll.paystub.generated.v1"
	PayStubGeneratedType  = "paystub.generated"
)

type PayStubGeneratedEvent struct {
	EventType       string    `json:"event_type"`
	PayStubID       string    `json:"paystub_id"`
	CompanyID       string    `json:"company_id"`
	EmployeeID      string    `json:"employee_id"`
	PeriodStart     string    `json:"period_start"`
	PeriodEnd       string    `json:"period_end"`
	GrossEarnings   string    `json:"gross_earnings"`
	TotalDeductions string    `json:"total_deductions"`
	NetPay          string    `json:"net_pay"`
	FilePath        *string   `json:"file_path,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}
