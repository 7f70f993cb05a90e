package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patient table. The record is intentionally thin: the
// queue only needs enough to identify and reach the person; clinical records
// live elsewhere.
type Patient struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Phone     string    `db:"phone" json:"phone"`
	Email     *string   `db:"email" json:"email,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
