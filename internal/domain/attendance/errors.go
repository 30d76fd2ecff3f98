package attendance

import "errors"

// Attendance domain errors
var (
	ErrShiftNotFound      = errors.New("shift not found")
	ErrEntryNotFound      = errors.New("employee is not assigned to this shift")
	ErrInvalidWindow      = errors.New("invalid scheduled window")
	ErrInvalidDateRange   = errors.New("invalid date range")
	ErrPatrolCountFailure = errors.New("failed to count patrols")
)
