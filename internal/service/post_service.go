package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/photostore"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/repo"

	"go.uber.org/zap"
)

const (
	DefaultFeedLimit = 20
	MaxFeedLimit     = 100
)

type PostService struct {
	repo     repo.PostRepo
	pets     repo.PetRepo
	photos   photostore.PhotoStore
	maxBytes int64
	logger   *zap.Logger
}

func NewPostService(r repo.PostRepo, pets repo.PetRepo, photos photostore.PhotoStore, maxBytes int64, logger *zap.Logger) *PostService {
	return &PostService{repo: r, pets: pets, photos: photos, maxBytes: maxBytes, logger: logger}
}

type PostInput struct {
	Body   string
	PetIDs []int64
	// Image is optional.
	Image io.Reader
}

// Create stores a post. Hashtags are taken from the body; every tagged pet
// must belong to the author.
func (s *PostService) Create(ctx context.Context, authorID int64, in PostInput) (dom.Post, error) {
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return dom.Post{}, fmt.Errorf("%w: body is required", ErrInvalidInput)
	}
	petIDs := slices.Clone(in.PetIDs)
	slices.Sort(petIDs)
	petIDs = slices.Compact(petIDs)
	if len(petIDs) > 0 {
		owned, err := s.pets.ListByOwner(ctx, authorID)
		if err != nil {
			return dom.Post{}, err
		}
		for _, id := range petIDs {
			if !slices.ContainsFunc(owned, func(p dom.Pet) bool { return p.ID == id }) {
				return dom.Post{}, fmt.Errorf("%w: pet %d is not yours", ErrForbidden, id)
			}
		}
	}

	var imageKey string
	if in.Image != nil {
		key, err := saveImage(ctx, s.photos, "post", in.Image, s.maxBytes)
		if err != nil {
			return dom.Post{}, err
		}
		imageKey = key
	}

	p, err := s.repo.Create(ctx, dom.Post{
		AuthorID: authorID,
		Body:     body,
		ImageKey: imageKey,
		Hashtags: dom.ExtractHashtags(body),
		PetIDs:   petIDs,
	})
	if err != nil {
		s.dropPhoto(ctx, imageKey)
		return dom.Post{}, err
	}
	return p, nil
}

func (s *PostService) Get(ctx context.Context, id, viewerID int64) (dom.Post, error) {
	p, err := s.repo.GetByID(ctx, id, viewerID)
	if err != nil {
		return dom.Post{}, notFound(err)
	}
	return p, nil
}

// Feed returns one page of posts, newest first, and the cursor for the next
// page (0 when this is the last one).
func (s *PostService) Feed(ctx context.Context, q repo.FeedQuery) ([]dom.Post, int64, error) {
	if q.Limit <= 0 {
		q.Limit = DefaultFeedLimit
	}
	q.Limit = min(q.Limit, MaxFeedLimit)
	q.Hashtag = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(q.Hashtag), "#"))
	posts, err := s.repo.Feed(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	var next int64
	if len(posts) == q.Limit {
		next = posts[len(posts)-1].ID
	}
	return posts, next, nil
}

// Delete removes a post. Authors may delete their own posts; admins any.
func (s *PostService) Delete(ctx context.Context, actorID int64, isAdmin bool, id int64) error {
	p, err := s.Get(ctx, id, actorID)
	if err != nil {
		return err
	}
	if p.AuthorID != actorID && !isAdmin {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	s.dropPhoto(ctx, p.ImageKey)
	return nil
}

// Like and Unlike are idempotent and return the resulting like count.
func (s *PostService) Like(ctx context.Context, postID, userID int64) (int, error) {
	n, err := s.repo.Like(ctx, postID, userID)
	return n, notFound(err)
}

func (s *PostService) Unlike(ctx context.Context, postID, userID int64) (int, error) {
	n, err := s.repo.Unlike(ctx, postID, userID)
	return n, notFound(err)
}

func (s *PostService) AddComment(ctx context.Context, postID, authorID int64, body string) (dom.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return dom.Comment{}, fmt.Errorf("%w: body is required", ErrInvalidInput)
	}
	if _, err := s.Get(ctx, postID, authorID); err != nil {
		return dom.Comment{}, err
	}
	return s.repo.AddComment(ctx, dom.Comment{PostID: postID, AuthorID: authorID, Body: body})
}

func (s *PostService) Comments(ctx context.Context, postID int64) ([]dom.Comment, error) {
	if _, err := s.Get(ctx, postID, 0); err != nil {
		return nil, err
	}
	return s.repo.ListComments(ctx, postID)
}

// Image opens the post's image. The caller closes the reader.
func (s *PostService) Image(ctx context.Context, id int64) (io.ReadCloser, string, error) {
	p, err := s.Get(ctx, id, 0)
	if err != nil {
		return nil, "", err
	}
	if p.ImageKey == "" {
		return nil, "", ErrNotFound
	}
	return openPhoto(ctx, s.photos, p.ImageKey)
}

func (s *PostService) dropPhoto(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.photos.Delete(ctx, key); err != nil && !errors.Is(err, photostore.ErrNotFound) {
		s.logger.Warn("delete photo failed", zap.String("key", key), zap.Error(err))
	}
}
