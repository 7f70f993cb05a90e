package doctor

import (
	"time"

	"github.com/google/uuid"
)

// Availability maps to the doctor_availability table. It is the doctor's
// weekly working pattern; the resolver expands it into bookable slots for a
// concrete date.
type Availability struct {
	DoctorID    uuid.UUID `db:"doctor_id" json:"doctor_id"`
	Name        string    `db:"name" json:"name"`
	Weekdays    []int     `db:"weekdays" json:"weekdays"` // time.Weekday values, 0=Sunday
	StartTime   string    `db:"start_time" json:"start_time"`
	EndTime     string    `db:"end_time" json:"end_time"`
	SlotMinutes int       `db:"slot_minutes" json:"slot_minutes"`
	Accepting   bool      `db:"accepting_patients" json:"accepting_patients"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// WorksOn reports whether the doctor works on the given weekday.
func (a *Availability) WorksOn(d time.Weekday) bool {
	for _, w := range a.Weekdays {
		if time.Weekday(w) == d {
			return true
		}
	}
	return false
}
