package repo

import (
	"context"

	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepo interface {
	Create(ctx context.Context, e dom.Event) (dom.Event, error)
	GetByID(ctx context.Context, id int64) (dom.Event, error)
	List(ctx context.Context) ([]dom.Event, error)
	Update(ctx context.Context, e dom.Event) (dom.Event, error)
	Delete(ctx context.Context, id int64) error
	// Attend and Unattend are idempotent per user and return the resulting count.
	Attend(ctx context.Context, eventID, userID int64) (int, error)
	Unattend(ctx context.Context, eventID, userID int64) (int, error)
	IsAttending(ctx context.Context, eventID, userID int64) (bool, error)
}

type PGEventRepo struct {
	db *pgxpool.Pool
}

func NewPGEventRepo(db *pgxpool.Pool) *PGEventRepo {
	return &PGEventRepo{db: db}
}

const eventColumns = `id, title, description, date, location, latitude, longitude, image_url,
	attendees_count, COALESCE(created_by, 0), created_at, updated_at`

func scanEvent(row pgx.Row) (dom.Event, error) {
	var e dom.Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Location, &e.Latitude, &e.Longitude,
		&e.ImageURL, &e.AttendeesCount, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (r *PGEventRepo) Create(ctx context.Context, e dom.Event) (dom.Event, error) {
	query := `
		INSERT INTO events (title, description, date, location, latitude, longitude, image_url, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8::bigint, 0))
		RETURNING ` + eventColumns
	return scanEvent(r.db.QueryRow(ctx, query, e.Title, e.Description, e.Date, e.Location,
		e.Latitude, e.Longitude, e.ImageURL, e.CreatedBy))
}

func (r *PGEventRepo) GetByID(ctx context.Context, id int64) (dom.Event, error) {
	return scanEvent(r.db.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
}

func (r *PGEventRepo) List(ctx context.Context) ([]dom.Event, error) {
	rows, err := r.db.Query(ctx, `SELECT `+eventColumns+` FROM events ORDER BY date ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *PGEventRepo) Update(ctx context.Context, e dom.Event) (dom.Event, error) {
	query := `
		UPDATE events SET title = $2, description = $3, date = $4, location = $5,
			latitude = $6, longitude = $7, image_url = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + eventColumns
	return scanEvent(r.db.QueryRow(ctx, query, e.ID, e.Title, e.Description, e.Date, e.Location,
		e.Latitude, e.Longitude, e.ImageURL))
}

func (r *PGEventRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PGEventRepo) Attend(ctx context.Context, eventID, userID int64) (int, error) {
	return r.changeAttendance(ctx, eventID, userID,
		`INSERT INTO event_attendees (event_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, 1)
}

func (r *PGEventRepo) Unattend(ctx context.Context, eventID, userID int64) (int, error) {
	return r.changeAttendance(ctx, eventID, userID,
		`DELETE FROM event_attendees WHERE event_id = $1 AND user_id = $2`, -1)
}

// changeAttendance locks the event row, applies stmt and moves the counter by
// delta only when stmt changed a row.
func (r *PGEventRepo) changeAttendance(ctx context.Context, eventID, userID int64, stmt string, delta int) (int, error) {
	var count int
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`SELECT attendees_count FROM events WHERE id = $1 FOR UPDATE`, eventID,
		).Scan(&count); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, stmt, eventID, userID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		return tx.QueryRow(ctx,
			`UPDATE events SET attendees_count = GREATEST(attendees_count + $2, 0) WHERE id = $1
			 RETURNING attendees_count`, eventID, delta,
		).Scan(&count)
	})
	return count, err
}

func (r *PGEventRepo) IsAttending(ctx context.Context, eventID, userID int64) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM event_attendees WHERE event_id = $1 AND user_id = $2)`,
		eventID, userID,
	).Scan(&ok)
	return ok, err
}
