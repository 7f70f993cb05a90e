package queue

import "errors"

// Caller-facing errors returned by the queue core. Handlers map them to HTTP
// statuses with errors.Is; services wrap them with detail via fmt.Errorf and
// the %w verb.
var (
	ErrValidation          = errors.New("invalid input")
	ErrSlotConflict        = errors.New("time slot already booked")
	ErrDoctorUnavailable   = errors.New("doctor unavailable")
	ErrQueueEmpty          = errors.New("no patients waiting")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrNotFound            = errors.New("entry not found")
	ErrConcurrencyConflict = errors.New("concurrent queue update, retry")
)
