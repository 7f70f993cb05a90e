package queue

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create inserts a new entry. Maps a queue-number uniqueness violation to
	// ErrConcurrencyConflict and a scheduled-time violation to ErrSlotConflict.
	Create(ctx context.Context, e *Entry) error
	GetByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	FindByDoctorAndDate(ctx context.Context, doctorID uuid.UUID, date string) ([]*Entry, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Entry, int, error)

	// MaxQueueNumber returns the highest queue number among non-cancelled
	// entries for the doctor/date, or 0 when the queue is empty.
	MaxQueueNumber(ctx context.Context, doctorID uuid.UUID, date string) (int, error)

	// OccupiedTimes returns the scheduled times held by non-cancelled entries.
	OccupiedTimes(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error)

	// InProgress returns the doctor's current in-progress entry, or nil when
	// there is none. Not date-bound: a visit left open from a previous day
	// still counts until it is completed or cancelled.
	InProgress(ctx context.Context, doctorID uuid.UUID) (*Entry, error)

	// TransitionStatus conditionally moves an entry from one status to
	// another in a single write, reporting whether the entry was still in the
	// expected from-status. Cancel metadata is recorded when provided.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to Status, reason, actor *string) (bool, error)

	UpdatePayment(ctx context.Context, id uuid.UUID, status PaymentStatus) error
}
