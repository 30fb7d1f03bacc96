package repo

import (
	"context"

	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FeedQuery pages the feed by id: posts with id < Before (0 = newest), newest first.
type FeedQuery struct {
	ViewerID int64
	Before   int64
	Limit    int
	Hashtag  string
	AuthorID int64
}

type PostRepo interface {
	Create(ctx context.Context, p dom.Post) (dom.Post, error)
	GetByID(ctx context.Context, id, viewerID int64) (dom.Post, error)
	Feed(ctx context.Context, q FeedQuery) ([]dom.Post, error)
	Delete(ctx context.Context, id int64) error
	Like(ctx context.Context, postID, userID int64) (int, error)
	Unlike(ctx context.Context, postID, userID int64) (int, error)
	AddComment(ctx context.Context, c dom.Comment) (dom.Comment, error)
	ListComments(ctx context.Context, postID int64) ([]dom.Comment, error)
}

type PGPostRepo struct {
	db *pgxpool.Pool
}

func NewPGPostRepo(db *pgxpool.Pool) *PGPostRepo {
	return &PGPostRepo{db: db}
}

// $1 is always the viewer id.
const postSelect = `
	SELECT p.id, p.author_id, u.username, p.body, p.image_key, p.created_at,
		COALESCE((SELECT array_agg(h.tag ORDER BY h.tag) FROM post_hashtags h WHERE h.post_id = p.id), '{}'),
		COALESCE((SELECT array_agg(pp.pet_id ORDER BY pp.pet_id) FROM post_pets pp WHERE pp.post_id = p.id), '{}'),
		(SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id),
		(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id),
		EXISTS (SELECT 1 FROM post_likes l WHERE l.post_id = p.id AND l.user_id = $1)
	FROM posts p JOIN users u ON u.id = p.author_id`

func scanPost(row pgx.Row) (dom.Post, error) {
	var p dom.Post
	err := row.Scan(&p.ID, &p.AuthorID, &p.Author, &p.Body, &p.ImageKey, &p.CreatedAt,
		&p.Hashtags, &p.PetIDs, &p.Likes, &p.Comments, &p.LikedByMe)
	return p, err
}

// Create stores the post with its hashtags and tagged pets in one transaction.
func (r *PGPostRepo) Create(ctx context.Context, p dom.Post) (dom.Post, error) {
	var id int64
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`INSERT INTO posts (author_id, body, image_key) VALUES ($1, $2, $3) RETURNING id`,
			p.AuthorID, p.Body, p.ImageKey,
		).Scan(&id); err != nil {
			return err
		}
		for _, tag := range p.Hashtags {
			if _, err := tx.Exec(ctx,
				`INSERT INTO post_hashtags (post_id, tag) VALUES ($1, $2) ON CONFLICT DO NOTHING`, id, tag); err != nil {
				return err
			}
		}
		for _, petID := range p.PetIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO post_pets (post_id, pet_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, id, petID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return dom.Post{}, err
	}
	return r.GetByID(ctx, id, p.AuthorID)
}

func (r *PGPostRepo) GetByID(ctx context.Context, id, viewerID int64) (dom.Post, error) {
	return scanPost(r.db.QueryRow(ctx, postSelect+` WHERE p.id = $2`, viewerID, id))
}

func (r *PGPostRepo) Feed(ctx context.Context, q FeedQuery) ([]dom.Post, error) {
	query := postSelect + `
		WHERE ($2::bigint = 0 OR p.id < $2)
		  AND ($3::text = '' OR EXISTS (SELECT 1 FROM post_hashtags h WHERE h.post_id = p.id AND h.tag = $3))
		  AND ($4::bigint = 0 OR p.author_id = $4)
		  AND NOT u.is_banned
		ORDER BY p.id DESC
		LIMIT $5`
	rows, err := r.db.Query(ctx, query, q.ViewerID, q.Before, q.Hashtag, q.AuthorID, q.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *PGPostRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PGPostRepo) Like(ctx context.Context, postID, userID int64) (int, error) {
	return r.changeLike(ctx, postID, userID,
		`INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`)
}

func (r *PGPostRepo) Unlike(ctx context.Context, postID, userID int64) (int, error) {
	return r.changeLike(ctx, postID, userID,
		`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`)
}

func (r *PGPostRepo) changeLike(ctx context.Context, postID, userID int64, stmt string) (int, error) {
	var count int
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, postID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return pgx.ErrNoRows
		}
		if _, err := tx.Exec(ctx, stmt, postID, userID); err != nil {
			return err
		}
		return tx.QueryRow(ctx, `SELECT COUNT(*) FROM post_likes WHERE post_id = $1`, postID).Scan(&count)
	})
	return count, err
}

func (r *PGPostRepo) AddComment(ctx context.Context, c dom.Comment) (dom.Comment, error) {
	query := `
		WITH ins AS (
			INSERT INTO comments (post_id, author_id, body) VALUES ($1, $2, $3)
			RETURNING id, post_id, author_id, body, created_at
		)
		SELECT ins.id, ins.post_id, ins.author_id, u.username, ins.body, ins.created_at
		FROM ins JOIN users u ON u.id = ins.author_id`
	var out dom.Comment
	err := r.db.QueryRow(ctx, query, c.PostID, c.AuthorID, c.Body).Scan(
		&out.ID, &out.PostID, &out.AuthorID, &out.Author, &out.Body, &out.CreatedAt,
	)
	return out, err
}

func (r *PGPostRepo) ListComments(ctx context.Context, postID int64) ([]dom.Comment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.post_id, c.author_id, u.username, c.body, c.created_at
		FROM comments c JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1 ORDER BY c.created_at ASC, c.id ASC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Comment
	for rows.Next() {
		var c dom.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Author, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
