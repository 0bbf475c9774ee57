package buckets

import "errors"

var (
	ErrBudgetNotFound      = errors.New("budget not found")
	ErrSavingsGoalNotFound = errors.New("savings goal not found")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidName         = errors.New("name is required")
)
