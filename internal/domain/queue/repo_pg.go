package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicq/clinicq/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const entryCols = `id, doctor_id, patient_id, visit_date, scheduled_time, end_time,
	queue_number, status, kind, priority_class, priority_flag, symptoms,
	payment_status, cancel_reason, cancelled_by, created_at, updated_at`

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.DoctorID, &e.PatientID, &e.VisitDate, &e.ScheduledTime, &e.EndTime,
		&e.QueueNumber, &e.Status, &e.Kind, &e.Priority, &e.PriorityFlag, &e.Symptoms,
		&e.PaymentStatus, &e.CancelReason, &e.CancelledBy, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &e, err
}

// Unique indexes backing the queue invariants (see migrations):
//   queue_entry_number_key ON (doctor_id, visit_date, queue_number) WHERE status <> 'cancelled'
//   queue_entry_slot_key   ON (doctor_id, visit_date, scheduled_time) WHERE status <> 'cancelled'
const (
	numberIndexName = "queue_entry_number_key"
	slotIndexName   = "queue_entry_slot_key"
)

func (r *repoPG) Create(ctx context.Context, e *Entry) error {
	e.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO queue_entry (id, doctor_id, patient_id, visit_date, scheduled_time, end_time,
			queue_number, status, kind, priority_class, priority_flag, symptoms, payment_status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		e.ID, e.DoctorID, e.PatientID, e.VisitDate, e.ScheduledTime, e.EndTime,
		e.QueueNumber, e.Status, e.Kind, e.Priority, e.PriorityFlag, e.Symptoms, e.PaymentStatus)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case slotIndexName:
				return fmt.Errorf("%w: %s on %s", ErrSlotConflict, deref(e.ScheduledTime), e.VisitDate)
			case numberIndexName:
				return fmt.Errorf("%w: queue number %d taken", ErrConcurrencyConflict, e.QueueNumber)
			}
		}
		return err
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return scanEntry(r.conn(ctx).QueryRow(ctx,
		`SELECT `+entryCols+` FROM queue_entry WHERE id = $1`, id))
}

func (r *repoPG) FindByDoctorAndDate(ctx context.Context, doctorID uuid.UUID, date string) ([]*Entry, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+entryCols+` FROM queue_entry
		 WHERE doctor_id = $1 AND visit_date = $2
		 ORDER BY queue_number`, doctorID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Entry, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM queue_entry WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+entryCols+` FROM queue_entry
		 WHERE patient_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, rows.Err()
}

func (r *repoPG) MaxQueueNumber(ctx context.Context, doctorID uuid.UUID, date string) (int, error) {
	var max int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COALESCE(MAX(queue_number), 0) FROM queue_entry
		WHERE doctor_id = $1 AND visit_date = $2 AND status <> 'cancelled'`,
		doctorID, date).Scan(&max)
	return max, err
}

func (r *repoPG) OccupiedTimes(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT scheduled_time FROM queue_entry
		WHERE doctor_id = $1 AND visit_date = $2 AND status <> 'cancelled'
			AND scheduled_time IS NOT NULL
		ORDER BY scheduled_time`, doctorID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var times []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

func (r *repoPG) InProgress(ctx context.Context, doctorID uuid.UUID) (*Entry, error) {
	e, err := scanEntry(r.conn(ctx).QueryRow(ctx,
		`SELECT `+entryCols+` FROM queue_entry
		 WHERE doctor_id = $1 AND status = 'in_progress'
		 ORDER BY visit_date, queue_number
		 LIMIT 1`, doctorID))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return e, err
}

func (r *repoPG) TransitionStatus(ctx context.Context, id uuid.UUID, from, to Status, reason, actor *string) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE queue_entry
		SET status = $3,
			cancel_reason = COALESCE($4, cancel_reason),
			cancelled_by = COALESCE($5, cancelled_by),
			updated_at = NOW()
		WHERE id = $1 AND status = $2`,
		id, from, to, reason, actor)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *repoPG) UpdatePayment(ctx context.Context, id uuid.UUID, status PaymentStatus) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE queue_entry SET payment_status = $2, updated_at = NOW() WHERE id = $1`,
		id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
