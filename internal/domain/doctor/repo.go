package doctor

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Get(ctx context.Context, doctorID uuid.UUID) (*Availability, error)
	Upsert(ctx context.Context, av *Availability) error
	SetAccepting(ctx context.Context, doctorID uuid.UUID, accepting bool) error
	List(ctx context.Context, limit, offset int) ([]*Availability, int, error)
}
