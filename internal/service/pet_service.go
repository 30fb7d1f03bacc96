package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/photostore"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/repo"

	"go.uber.org/zap"
)

type PetService struct {
	repo     repo.PetRepo
	photos   photostore.PhotoStore
	maxBytes int64
	stats    StatsInvalidator
	logger   *zap.Logger
}

// NewPetService returns a new PetService. stats may be nil.
func NewPetService(r repo.PetRepo, photos photostore.PhotoStore, maxBytes int64, stats StatsInvalidator, logger *zap.Logger) *PetService {
	return &PetService{repo: r, photos: photos, maxBytes: maxBytes, stats: stats, logger: logger}
}

type PetInput struct {
	Name      string
	Species   string
	Breed     string
	Birthdate *time.Time
	Bio       string
}

type PetPatch struct {
	Name      *string
	Species   *string
	Breed     *string
	Birthdate *time.Time
	Bio       *string
}

func (s *PetService) Create(ctx context.Context, ownerID int64, in PetInput) (dom.Pet, error) {
	name, species := strings.TrimSpace(in.Name), strings.TrimSpace(in.Species)
	if name == "" || species == "" {
		return dom.Pet{}, fmt.Errorf("%w: name and species are required", ErrInvalidInput)
	}
	if in.Birthdate != nil && in.Birthdate.After(time.Now()) {
		return dom.Pet{}, fmt.Errorf("%w: birthdate is in the future", ErrInvalidInput)
	}
	p, err := s.repo.Create(ctx, dom.Pet{
		OwnerID:   ownerID,
		Name:      name,
		Species:   species,
		Breed:     strings.TrimSpace(in.Breed),
		Birthdate: in.Birthdate,
		Bio:       strings.TrimSpace(in.Bio),
	})
	if err != nil {
		return dom.Pet{}, err
	}
	s.statsChanged(ctx)
	return p, nil
}

func (s *PetService) statsChanged(ctx context.Context) {
	if s.stats != nil {
		s.stats.InvalidateStats(ctx)
	}
}

func (s *PetService) Get(ctx context.Context, id int64) (dom.Pet, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dom.Pet{}, notFound(err)
	}
	return p, nil
}

func (s *PetService) ListByOwner(ctx context.Context, ownerID int64) ([]dom.Pet, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// owned loads the pet and checks that actorID owns it.
func (s *PetService) owned(ctx context.Context, actorID, id int64) (dom.Pet, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return dom.Pet{}, err
	}
	if p.OwnerID != actorID {
		return dom.Pet{}, ErrForbidden
	}
	return p, nil
}

func (s *PetService) Update(ctx context.Context, actorID, id int64, patch PetPatch) (dom.Pet, error) {
	p, err := s.owned(ctx, actorID, id)
	if err != nil {
		return dom.Pet{}, err
	}
	if patch.Name != nil {
		if p.Name = strings.TrimSpace(*patch.Name); p.Name == "" {
			return dom.Pet{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
		}
	}
	if patch.Species != nil {
		if p.Species = strings.TrimSpace(*patch.Species); p.Species == "" {
			return dom.Pet{}, fmt.Errorf("%w: species is required", ErrInvalidInput)
		}
	}
	if patch.Breed != nil {
		p.Breed = strings.TrimSpace(*patch.Breed)
	}
	if patch.Birthdate != nil {
		p.Birthdate = patch.Birthdate
	}
	if patch.Bio != nil {
		p.Bio = strings.TrimSpace(*patch.Bio)
	}
	out, err := s.repo.Update(ctx, p)
	if err != nil {
		return dom.Pet{}, notFound(err)
	}
	return out, nil
}

// Delete removes a pet. Owners may delete their own pets; admins any.
func (s *PetService) Delete(ctx context.Context, actorID int64, isAdmin bool, id int64) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.OwnerID != actorID && !isAdmin {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	s.statsChanged(ctx)
	s.dropPhoto(ctx, p.AvatarKey)
	return nil
}

// SetAvatar stores a new avatar image and replaces the previous one.
func (s *PetService) SetAvatar(ctx context.Context, actorID, id int64, r io.Reader) (dom.Pet, error) {
	p, err := s.owned(ctx, actorID, id)
	if err != nil {
		return dom.Pet{}, err
	}
	key, err := saveImage(ctx, s.photos, "pet", r, s.maxBytes)
	if err != nil {
		return dom.Pet{}, err
	}
	out, err := s.repo.SetAvatar(ctx, id, key)
	if err != nil {
		s.dropPhoto(ctx, key)
		return dom.Pet{}, notFound(err)
	}
	s.dropPhoto(ctx, p.AvatarKey)
	return out, nil
}

// Avatar opens the pet's avatar. The caller closes the reader.
func (s *PetService) Avatar(ctx context.Context, id int64) (io.ReadCloser, string, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if p.AvatarKey == "" {
		return nil, "", ErrNotFound
	}
	return openPhoto(ctx, s.photos, p.AvatarKey)
}

func (s *PetService) dropPhoto(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.photos.Delete(ctx, key); err != nil && !errors.Is(err, photostore.ErrNotFound) {
		s.logger.Warn("delete photo failed", zap.String("key", key), zap.Error(err))
	}
}

// saveImage reads at most maxBytes from r, checks the format by its magic
// bytes and stores it under prefix.
func saveImage(ctx context.Context, store photostore.PhotoStore, prefix string, r io.Reader, maxBytes int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return "", ErrImageTooLarge
	}
	mime, ok := photostore.SniffImage(data)
	if !ok {
		return "", ErrUnsupportedImage
	}
	return store.Save(ctx, prefix, mime, bytes.NewReader(data))
}

func openPhoto(ctx context.Context, store photostore.PhotoStore, key string) (io.ReadCloser, string, error) {
	rc, mime, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, photostore.ErrNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}
	return rc, mime, nil
}
