package expenses

import "errors"

var (
	ErrExpenseNotFound = errors.New("expense not found")
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrInvalidDate     = errors.New("date is required")
)
