package repo

import (
	"context"

	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AnalyticsRepo interface {
	LocationStats(ctx context.Context) ([]dom.LocationStat, error)
}

type PGAnalyticsRepo struct {
	db *pgxpool.Pool
}

func NewPGAnalyticsRepo(db *pgxpool.Pool) *PGAnalyticsRepo {
	return &PGAnalyticsRepo{db: db}
}

// LocationStats groups users by their location label; blank labels are
// reported as "unknown".
func (r *PGAnalyticsRepo) LocationStats(ctx context.Context) ([]dom.LocationStat, error) {
	rows, err := r.db.Query(ctx, `
		SELECT COALESCE(NULLIF(TRIM(u.location), ''), 'unknown') AS loc,
			COUNT(DISTINCT u.id), COUNT(p.id)
		FROM users u LEFT JOIN pets p ON p.owner_id = u.id
		GROUP BY loc
		ORDER BY COUNT(DISTINCT u.id) DESC, loc ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.LocationStat
	for rows.Next() {
		var s dom.LocationStat
		if err := rows.Scan(&s.Location, &s.Users, &s.Pets); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
