package doctor

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinicq/clinicq/internal/platform/clock"
)

// ErrNotFound is returned when no availability record exists for a doctor.
var ErrNotFound = errors.New("doctor not found")

// OccupiedLister supplies the times already taken by non-cancelled queue
// entries for a doctor on a date. Satisfied by the queue repository.
type OccupiedLister interface {
	OccupiedTimes(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error)
}

type Service struct {
	repo     Repository
	occupied OccupiedLister
}

func NewService(repo Repository, occupied OccupiedLister) *Service {
	return &Service{repo: repo, occupied: occupied}
}

func (s *Service) SetAvailability(ctx context.Context, av *Availability) error {
	if av.DoctorID == uuid.Nil {
		return fmt.Errorf("doctor_id is required")
	}
	if len(av.Weekdays) == 0 {
		return fmt.Errorf("at least one working weekday is required")
	}
	for _, w := range av.Weekdays {
		if w < 0 || w > 6 {
			return fmt.Errorf("invalid weekday %d: expected 0 (Sunday) through 6 (Saturday)", w)
		}
	}
	if av.SlotMinutes <= 0 {
		return fmt.Errorf("slot_minutes must be positive")
	}
	start, err := clock.ParseHHMM(av.StartTime)
	if err != nil {
		return fmt.Errorf("start_time: %w", err)
	}
	end, err := clock.ParseHHMM(av.EndTime)
	if err != nil {
		return fmt.Errorf("end_time: %w", err)
	}
	if start >= end {
		return fmt.Errorf("start_time %s must be before end_time %s", av.StartTime, av.EndTime)
	}
	return s.repo.Upsert(ctx, av)
}

func (s *Service) GetAvailability(ctx context.Context, doctorID uuid.UUID) (*Availability, error) {
	return s.repo.Get(ctx, doctorID)
}

func (s *Service) SetAccepting(ctx context.Context, doctorID uuid.UUID, accepting bool) error {
	return s.repo.SetAccepting(ctx, doctorID, accepting)
}

func (s *Service) ListDoctors(ctx context.Context, limit, offset int) ([]*Availability, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// OpenSlots returns the bookable slots for a doctor on a date: the weekly
// grid minus times held by non-cancelled entries.
func (s *Service) OpenSlots(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error) {
	av, err := s.repo.Get(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	occupied, err := s.occupied.OccupiedTimes(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	return ResolveSlots(av, date, occupied)
}
