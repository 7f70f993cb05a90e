package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicq/clinicq/internal/platform/auth"
	"github.com/clinicq/clinicq/internal/platform/clock"
	"github.com/clinicq/clinicq/internal/platform/realtime"
)

// Service is the dispatch facade: it composes the allocator, sequencer and
// state machine per request, persists the result, then notifies subscribers.
// Any failure before the write aborts the operation; events fire only after
// a successful write.
type Service struct {
	repo       Repository
	alloc      *Allocator
	classifier Classifier
	notifier   realtime.Publisher
	clk        clock.Clock
	logger     zerolog.Logger
	locks      *keyedMutex
}

func NewService(repo Repository, alloc *Allocator, classifier Classifier, notifier realtime.Publisher, clk clock.Clock, logger zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		alloc:      alloc,
		classifier: classifier,
		notifier:   notifier,
		clk:        clk,
		logger:     logger,
		locks:      newKeyedMutex(),
	}
}

// BookingRequest is a timed booking for a doctor's slot grid.
type BookingRequest struct {
	DoctorID     uuid.UUID `json:"doctor_id"`
	PatientID    uuid.UUID `json:"patient_id"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	Symptoms     string    `json:"symptoms"`
	PriorityFlag bool      `json:"priority_flag"`
}

// WalkInRequest adds a patient to today's queue without a scheduled time.
type WalkInRequest struct {
	DoctorID     uuid.UUID `json:"doctor_id"`
	PatientID    uuid.UUID `json:"patient_id"`
	Symptoms     string    `json:"symptoms"`
	PriorityFlag bool      `json:"priority_flag"`
}

func (s *Service) BookAppointment(ctx context.Context, req BookingRequest) (*Entry, error) {
	if req.DoctorID == uuid.Nil {
		return nil, fmt.Errorf("%w: doctor_id is required", ErrValidation)
	}
	if req.PatientID == uuid.Nil {
		return nil, fmt.Errorf("%w: patient_id is required", ErrValidation)
	}
	if _, err := clock.ParseDate(req.Date); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if req.Time == "" {
		return nil, fmt.Errorf("%w: time is required for a booking", ErrValidation)
	}

	entry, err := s.insertNumbered(ctx, req.DoctorID, req.Date, func(n int) (*Entry, error) {
		end, err := s.alloc.Reserve(ctx, req.DoctorID, req.Date, req.Time)
		if err != nil {
			return nil, err
		}
		scheduled := req.Time
		return &Entry{
			DoctorID:      req.DoctorID,
			PatientID:     req.PatientID,
			VisitDate:     req.Date,
			ScheduledTime: &scheduled,
			EndTime:       &end,
			QueueNumber:   n,
			Status:        StatusPending,
			Kind:          KindBooked,
			Priority:      s.classifier.Classify(req.Symptoms, req.PriorityFlag, n),
			PriorityFlag:  req.PriorityFlag,
			Symptoms:      req.Symptoms,
			PaymentStatus: PaymentPending,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, realtime.EventEntryCreated, entry)
	return entry, nil
}

func (s *Service) AddWalkIn(ctx context.Context, req WalkInRequest) (*Entry, error) {
	if req.DoctorID == uuid.Nil {
		return nil, fmt.Errorf("%w: doctor_id is required", ErrValidation)
	}
	if req.PatientID == uuid.Nil {
		return nil, fmt.Errorf("%w: patient_id is required", ErrValidation)
	}
	if _, err := s.alloc.RequireAccepting(ctx, req.DoctorID); err != nil {
		return nil, err
	}

	date := s.clk.Today()
	entry, err := s.insertNumbered(ctx, req.DoctorID, date, func(n int) (*Entry, error) {
		return &Entry{
			DoctorID:      req.DoctorID,
			PatientID:     req.PatientID,
			VisitDate:     date,
			QueueNumber:   n,
			Status:        StatusConfirmed, // walk-ins enter the queue directly
			Kind:          KindWalkIn,
			Priority:      s.classifier.Classify(req.Symptoms, req.PriorityFlag, n),
			PriorityFlag:  req.PriorityFlag,
			Symptoms:      req.Symptoms,
			PaymentStatus: PaymentPending,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, realtime.EventEntryCreated, entry)
	return entry, nil
}

// insertNumbered runs the compute-then-insert queue numbering under the
// per-(doctor,date) lock. A unique-constraint conflict (possible when
// multiple server instances share the store) is retried exactly once with a
// recomputed number before surfacing ErrConcurrencyConflict.
func (s *Service) insertNumbered(ctx context.Context, doctorID uuid.UUID, date string, build func(n int) (*Entry, error)) (*Entry, error) {
	unlock := s.locks.lock(doctorID.String() + "|" + date)
	defer unlock()

	for attempt := 0; ; attempt++ {
		max, err := s.repo.MaxQueueNumber(ctx, doctorID, date)
		if err != nil {
			return nil, err
		}
		entry, err := build(NextQueueNumber(max))
		if err != nil {
			return nil, err
		}
		if err := s.repo.Create(ctx, entry); err != nil {
			if errors.Is(err, ErrConcurrencyConflict) && attempt == 0 {
				s.logger.Warn().
					Str("doctor_id", doctorID.String()).
					Str("date", date).
					Msg("queue number conflict, recomputing")
				continue
			}
			return nil, err
		}
		return entry, nil
	}
}

// CallNext promotes the lowest-ranked confirmed entry for today's queue to
// in_progress. When the doctor already has a patient in progress the call is
// a no-op that returns that entry. The promotion is a conditional write that
// re-validates the entry is still confirmed, so concurrent calls cannot
// promote the same entry twice.
func (s *Service) CallNext(ctx context.Context, doctorID uuid.UUID) (*Entry, error) {
	date := s.clk.Today()

	if cur, err := s.repo.InProgress(ctx, doctorID); err != nil {
		return nil, err
	} else if cur != nil {
		return cur, nil
	}

	entries, err := s.repo.FindByDoctorAndDate(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}

	candidates := entries
	for {
		next := SelectNext(candidates)
		if next == nil {
			// A concurrent caller may have just promoted the last candidate.
			if cur, err := s.repo.InProgress(ctx, doctorID); err != nil {
				return nil, err
			} else if cur != nil {
				return cur, nil
			}
			return nil, fmt.Errorf("%w: doctor %s on %s", ErrQueueEmpty, doctorID, date)
		}

		promoted, err := s.repo.TransitionStatus(ctx, next.ID, StatusConfirmed, StatusInProgress, nil, nil)
		if err != nil {
			return nil, err
		}
		if promoted {
			next.Status = StatusInProgress
			s.publish(ctx, realtime.EventEntryUpdated, next)
			return next, nil
		}

		// The entry left confirmed under us. If a concurrent caller promoted
		// it the doctor is busy now; return that entry instead of dispatching
		// a second patient.
		if cur, err := s.repo.InProgress(ctx, doctorID); err != nil {
			return nil, err
		} else if cur != nil {
			return cur, nil
		}

		// Cancelled or marked no-show concurrently; drop it and re-select.
		remaining := make([]*Entry, 0, len(candidates)-1)
		for _, e := range candidates {
			if e.ID != next.ID {
				remaining = append(remaining, e)
			}
		}
		candidates = remaining
	}
}

// CompleteCurrent finishes the doctor's in-progress visit, releasing the
// doctor for the next dispatch. The lookup is not date-bound, so a visit
// left open from a previous day can still be closed here.
func (s *Service) CompleteCurrent(ctx context.Context, doctorID uuid.UUID) (*Entry, error) {
	cur, err := s.repo.InProgress(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, fmt.Errorf("%w: no patient in progress for doctor %s", ErrNotFound, doctorID)
	}

	done, err := s.repo.TransitionStatus(ctx, cur.ID, StatusInProgress, StatusCompleted, nil, nil)
	if err != nil {
		return nil, err
	}
	if !done {
		return nil, fmt.Errorf("%w: entry %s changed status concurrently", ErrConcurrencyConflict, cur.ID)
	}

	cur.Status = StatusCompleted
	s.publish(ctx, realtime.EventEntryUpdated, cur)
	return cur, nil
}

// CheckIn moves a booked entry into the dispatchable queue when the patient
// arrives.
func (s *Service) CheckIn(ctx context.Context, entryID uuid.UUID) (*Entry, error) {
	return s.transition(ctx, entryID, StatusConfirmed, nil)
}

// MarkNoShow records that a confirmed patient never arrived.
func (s *Service) MarkNoShow(ctx context.Context, entryID uuid.UUID) (*Entry, error) {
	return s.transition(ctx, entryID, StatusNoShow, nil)
}

// Cancel terminates an entry, recording the reason and the acting user from
// the request identity.
func (s *Service) Cancel(ctx context.Context, entryID uuid.UUID, reason string) (*Entry, error) {
	var opts *cancelMeta
	if reason != "" || auth.FromContext(ctx) != nil {
		opts = &cancelMeta{reason: reason}
		if id := auth.FromContext(ctx); id != nil {
			opts.actor = id.Subject
		}
	}
	return s.transition(ctx, entryID, StatusCancelled, opts)
}

type cancelMeta struct {
	reason string
	actor  string
}

func (s *Service) transition(ctx context.Context, entryID uuid.UUID, to Status, meta *cancelMeta) (*Entry, error) {
	e, err := s.repo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(e.Status, to); err != nil {
		return nil, err
	}

	var reason, actor *string
	if meta != nil {
		if meta.reason != "" {
			reason = &meta.reason
		}
		if meta.actor != "" {
			actor = &meta.actor
		}
	}

	moved, err := s.repo.TransitionStatus(ctx, e.ID, e.Status, to, reason, actor)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, fmt.Errorf("%w: entry %s changed status concurrently", ErrConcurrencyConflict, e.ID)
	}

	e.Status = to
	e.CancelReason = reason
	e.CancelledBy = actor
	s.publish(ctx, realtime.EventEntryUpdated, e)
	return e, nil
}

// UpdatePaymentStatus records payment progress on an entry.
func (s *Service) UpdatePaymentStatus(ctx context.Context, entryID uuid.UUID, status PaymentStatus) (*Entry, error) {
	if status != PaymentPending && status != PaymentPaid {
		return nil, fmt.Errorf("%w: payment_status must be %q or %q", ErrValidation, PaymentPending, PaymentPaid)
	}
	e, err := s.repo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePayment(ctx, e.ID, status); err != nil {
		return nil, err
	}
	e.PaymentStatus = status
	s.publish(ctx, realtime.EventEntryUpdated, e)
	return e, nil
}

// ListQueue returns the doctor's entries for a date in queue-number order.
// An empty date means today.
func (s *Service) ListQueue(ctx context.Context, doctorID uuid.UUID, date string) ([]*Entry, error) {
	if date == "" {
		date = s.clk.Today()
	} else if _, err := clock.ParseDate(date); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return s.repo.FindByDoctorAndDate(ctx, doctorID, date)
}

// CurrentPatient returns the doctor's in-progress entry, or nil.
func (s *Service) CurrentPatient(ctx context.Context, doctorID uuid.UUID) (*Entry, error) {
	return s.repo.InProgress(ctx, doctorID)
}

func (s *Service) GetEntry(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Entry, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

// publish fans a mutation out to the global channel, the doctor's channel
// and the patient's session channel. Delivery is best-effort: failures are
// logged, never surfaced, and displays recover on their next fetch.
func (s *Service) publish(ctx context.Context, eventType string, e *Entry) {
	data, err := json.Marshal(e)
	if err != nil {
		s.logger.Error().Err(err).Msg("queue: marshal event payload")
		return
	}
	now := s.clk.Now()
	topics := []string{
		realtime.TopicAll,
		realtime.TopicDoctor(e.DoctorID),
		realtime.TopicUser(e.PatientID),
	}
	for _, topic := range topics {
		event := realtime.Event{
			Type:      eventType,
			Topic:     topic,
			DoctorID:  e.DoctorID.String(),
			EntryID:   e.ID.String(),
			Timestamp: now,
			Data:      data,
		}
		if err := s.notifier.Publish(ctx, event); err != nil {
			s.logger.Warn().Err(err).Str("topic", topic).Msg("queue: publish event")
		}
	}
}
