package payroll

import "errors"

var (
	ErrMissingRateOrPeriod   = errors.New("pay rate or pay period is missing")
	ErrDuplicatePayPeriod    = errors.New("a paystub already exists for this pay period")
	ErrPayStubNotFound       = errors.New("paystub not found")
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrInvalidDeductionBasis = errors.New("invalid deduction basis")
	ErrNegativeAmount        = errors.New("amount must not be negative")
	ErrNegativePercentage    = errors.New("percentage must not be negative")
)
