package bills

import "errors"

var (
	ErrBillNotFound        = errors.New("bill not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrForbidden           = errors.New("operation allowed only for the bill creator")
	ErrInvalidName         = errors.New("bill name is required")
	ErrInvalidAmount       = errors.New("bill total must be positive")
	ErrInvalidDueDate      = errors.New("bill due date is required")
)
