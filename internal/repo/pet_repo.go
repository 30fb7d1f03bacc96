package repo

import (
	"context"

	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PetRepo interface {
	Create(ctx context.Context, p dom.Pet) (dom.Pet, error)
	GetByID(ctx context.Context, id int64) (dom.Pet, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]dom.Pet, error)
	Update(ctx context.Context, p dom.Pet) (dom.Pet, error)
	SetAvatar(ctx context.Context, id int64, key string) (dom.Pet, error)
	Delete(ctx context.Context, id int64) error
}

type PGPetRepo struct {
	db *pgxpool.Pool
}

func NewPGPetRepo(db *pgxpool.Pool) *PGPetRepo {
	return &PGPetRepo{db: db}
}

const petColumns = `id, owner_id, name, species, breed, birthdate, bio, avatar_key, created_at, updated_at`

func scanPet(row pgx.Row) (dom.Pet, error) {
	var p dom.Pet
	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Species, &p.Breed, &p.Birthdate,
		&p.Bio, &p.AvatarKey, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *PGPetRepo) Create(ctx context.Context, p dom.Pet) (dom.Pet, error) {
	query := `
		INSERT INTO pets (owner_id, name, species, breed, birthdate, bio)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + petColumns
	return scanPet(r.db.QueryRow(ctx, query, p.OwnerID, p.Name, p.Species, p.Breed, p.Birthdate, p.Bio))
}

func (r *PGPetRepo) GetByID(ctx context.Context, id int64) (dom.Pet, error) {
	return scanPet(r.db.QueryRow(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1`, id))
}

func (r *PGPetRepo) ListByOwner(ctx context.Context, ownerID int64) ([]dom.Pet, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+petColumns+` FROM pets WHERE owner_id = $1 ORDER BY name`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Pet
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *PGPetRepo) Update(ctx context.Context, p dom.Pet) (dom.Pet, error) {
	query := `
		UPDATE pets SET name = $2, species = $3, breed = $4, birthdate = $5, bio = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + petColumns
	return scanPet(r.db.QueryRow(ctx, query, p.ID, p.Name, p.Species, p.Breed, p.Birthdate, p.Bio))
}

func (r *PGPetRepo) SetAvatar(ctx context.Context, id int64, key string) (dom.Pet, error) {
	return scanPet(r.db.QueryRow(ctx,
		`UPDATE pets SET avatar_key = $2, updated_at = NOW() WHERE id = $1 RETURNING `+petColumns, id, key))
}

func (r *PGPetRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
