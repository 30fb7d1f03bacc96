package repo

import (
	"context"

	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PlaceRepo interface {
	Create(ctx context.Context, p dom.Place) (dom.Place, error)
	GetByID(ctx context.Context, id int64) (dom.Place, error)
	List(ctx context.Context, onlyActive bool) ([]dom.Place, error)
	Update(ctx context.Context, p dom.Place) (dom.Place, error)
	Delete(ctx context.Context, id int64) error
}

type PGPlaceRepo struct {
	db *pgxpool.Pool
}

func NewPGPlaceRepo(db *pgxpool.Pool) *PGPlaceRepo {
	return &PGPlaceRepo{db: db}
}

const placeColumns = `id, title, description, address, latitude, longitude, is_active, category,
	phone, website, created_at, updated_at`

func scanPlace(row pgx.Row) (dom.Place, error) {
	var (
		p   dom.Place
		cat string
	)
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Address, &p.Latitude, &p.Longitude,
		&p.IsActive, &cat, &p.Phone, &p.Website, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return dom.Place{}, err
	}
	c, err := dom.ParseCategory(cat)
	if err != nil {
		return dom.Place{}, err
	}
	p.Category = c
	return p, nil
}

func (r *PGPlaceRepo) Create(ctx context.Context, p dom.Place) (dom.Place, error) {
	query := `
		INSERT INTO places (title, description, address, latitude, longitude, is_active, category, phone, website)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + placeColumns
	return scanPlace(r.db.QueryRow(ctx, query, p.Title, p.Description, p.Address, p.Latitude, p.Longitude,
		p.IsActive, string(p.Category), p.Phone, p.Website))
}

func (r *PGPlaceRepo) GetByID(ctx context.Context, id int64) (dom.Place, error) {
	return scanPlace(r.db.QueryRow(ctx, `SELECT `+placeColumns+` FROM places WHERE id = $1`, id))
}

func (r *PGPlaceRepo) List(ctx context.Context, onlyActive bool) ([]dom.Place, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+placeColumns+` FROM places WHERE is_active OR NOT $1 ORDER BY title`, onlyActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Place
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *PGPlaceRepo) Update(ctx context.Context, p dom.Place) (dom.Place, error) {
	query := `
		UPDATE places SET title = $2, description = $3, address = $4, latitude = $5, longitude = $6,
			is_active = $7, category = $8, phone = $9, website = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + placeColumns
	return scanPlace(r.db.QueryRow(ctx, query, p.ID, p.Title, p.Description, p.Address, p.Latitude,
		p.Longitude, p.IsActive, string(p.Category), p.Phone, p.Website))
}

func (r *PGPlaceRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM places WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
