package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinicq/clinicq/internal/domain/doctor"
	"github.com/clinicq/clinicq/internal/platform/clock"
)

// DoctorDirectory supplies doctor availability records. Satisfied by the
// doctor repository.
type DoctorDirectory interface {
	Get(ctx context.Context, doctorID uuid.UUID) (*doctor.Availability, error)
}

// Allocator decides whether a booking request may be accepted and computes
// its time window. It does not persist or number entries; numbering belongs
// to the sequencer, because walk-ins bypass slot validation entirely but
// still need a queue number.
type Allocator struct {
	doctors DoctorDirectory
	repo    Repository
}

func NewAllocator(doctors DoctorDirectory, repo Repository) *Allocator {
	return &Allocator{doctors: doctors, repo: repo}
}

// Reserve validates a requested time against the doctor's availability and
// the day's non-cancelled bookings, returning the computed end time.
func (a *Allocator) Reserve(ctx context.Context, doctorID uuid.UUID, date, hhmm string) (string, error) {
	av, err := a.lookup(ctx, doctorID)
	if err != nil {
		return "", err
	}

	day, err := clock.ParseDate(date)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if !av.WorksOn(day.Weekday()) {
		return "", fmt.Errorf("%w: %s does not work on %s", ErrDoctorUnavailable, av.Name, day.Weekday())
	}

	onGrid, err := doctor.IsGridTime(av, hhmm)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if !onGrid {
		return "", fmt.Errorf("%w: %s is outside the %s-%s window or off the %d-minute grid",
			ErrValidation, hhmm, av.StartTime, av.EndTime, av.SlotMinutes)
	}

	occupied, err := a.repo.OccupiedTimes(ctx, doctorID, date)
	if err != nil {
		return "", err
	}
	for _, t := range occupied {
		if t == hhmm {
			return "", fmt.Errorf("%w: %s on %s", ErrSlotConflict, hhmm, date)
		}
	}

	end, err := clock.AddMinutes(hhmm, av.SlotMinutes)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return end, nil
}

// RequireAccepting checks the walk-in gate: the doctor must exist and be
// flagged as accepting patients.
func (a *Allocator) RequireAccepting(ctx context.Context, doctorID uuid.UUID) (*doctor.Availability, error) {
	av, err := a.lookup(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !av.Accepting {
		return nil, fmt.Errorf("%w: %s is not accepting patients", ErrDoctorUnavailable, av.Name)
	}
	return av, nil
}

func (a *Allocator) lookup(ctx context.Context, doctorID uuid.UUID) (*doctor.Availability, error) {
	av, err := a.doctors.Get(ctx, doctorID)
	if errors.Is(err, doctor.ErrNotFound) {
		return nil, fmt.Errorf("%w: doctor %s", ErrNotFound, doctorID)
	}
	if err != nil {
		return nil, err
	}
	return av, nil
}
