package doctor

import (
	"context"
	"errors"

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

const avCols = `doctor_id, name, weekdays, start_time, end_time, slot_minutes,
	accepting_patients, created_at, updated_at`

func scanAvailability(row pgx.Row) (*Availability, error) {
	var a Availability
	err := row.Scan(&a.DoctorID, &a.Name, &a.Weekdays, &a.StartTime, &a.EndTime,
		&a.SlotMinutes, &a.Accepting, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &a, err
}

func (r *repoPG) Get(ctx context.Context, doctorID uuid.UUID) (*Availability, error) {
	return scanAvailability(r.conn(ctx).QueryRow(ctx,
		`SELECT `+avCols+` FROM doctor_availability WHERE doctor_id = $1`, doctorID))
}

func (r *repoPG) Upsert(ctx context.Context, av *Availability) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO doctor_availability (doctor_id, name, weekdays, start_time, end_time, slot_minutes, accepting_patients)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (doctor_id) DO UPDATE SET
			name = EXCLUDED.name,
			weekdays = EXCLUDED.weekdays,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			slot_minutes = EXCLUDED.slot_minutes,
			accepting_patients = EXCLUDED.accepting_patients,
			updated_at = NOW()`,
		av.DoctorID, av.Name, av.Weekdays, av.StartTime, av.EndTime, av.SlotMinutes, av.Accepting)
	return err
}

func (r *repoPG) SetAccepting(ctx context.Context, doctorID uuid.UUID, accepting bool) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE doctor_availability SET accepting_patients = $2, updated_at = NOW() WHERE doctor_id = $1`,
		doctorID, accepting)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Availability, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM doctor_availability`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+avCols+` FROM doctor_availability ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Availability
	for rows.Next() {
		a, err := scanAvailability(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}
