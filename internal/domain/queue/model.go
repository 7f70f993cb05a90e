package queue

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a queue entry.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

// Kind distinguishes booked visits from walk-ins.
type Kind string

const (
	KindBooked Kind = "booked"
	KindWalkIn Kind = "walk_in"
)

// PriorityClass is the triage bucket used as the primary dispatch tie-break.
type PriorityClass string

const (
	PriorityEmergency PriorityClass = "emergency"
	PriorityPriority  PriorityClass = "priority"
	PriorityRegular   PriorityClass = "regular"
)

// Rank orders priority classes for dispatch; lower is served first.
func (p PriorityClass) Rank() int {
	switch p {
	case PriorityEmergency:
		return 0
	case PriorityPriority:
		return 1
	default:
		return 2
	}
}

// PaymentStatus tracks whether the visit has been paid for.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// Entry maps to the queue_entry table. Entries are never deleted;
// cancellation is a terminal status, preserving the day's audit trail.
type Entry struct {
	ID            uuid.UUID     `db:"id" json:"id"`
	DoctorID      uuid.UUID     `db:"doctor_id" json:"doctor_id"`
	PatientID     uuid.UUID     `db:"patient_id" json:"patient_id"`
	VisitDate     string        `db:"visit_date" json:"visit_date"`
	ScheduledTime *string       `db:"scheduled_time" json:"scheduled_time,omitempty"` // nil for walk-ins
	EndTime       *string       `db:"end_time" json:"end_time,omitempty"`
	QueueNumber   int           `db:"queue_number" json:"queue_number"`
	Status        Status        `db:"status" json:"status"`
	Kind          Kind          `db:"kind" json:"kind"`
	Priority      PriorityClass `db:"priority_class" json:"priority_class"`
	PriorityFlag  bool          `db:"priority_flag" json:"priority_flag"`
	Symptoms      string        `db:"symptoms" json:"symptoms,omitempty"`
	PaymentStatus PaymentStatus `db:"payment_status" json:"payment_status"`
	CancelReason  *string       `db:"cancel_reason" json:"cancel_reason,omitempty"`
	CancelledBy   *string       `db:"cancelled_by" json:"cancelled_by,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}
