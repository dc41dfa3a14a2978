package http

import (
	"context"
	"sort"
	"sync"

	"github.com/fabricio2fb/reviewlar/internal/domain"
	"github.com/fabricio2fb/reviewlar/internal/suggest"
	apperrors "github.com/fabricio2fb/reviewlar/pkg/errors"
)

// reviewStore is an in-memory ReviewRepository.
type reviewStore struct {
	mu   sync.Mutex
	byID map[string]domain.Review
}

func newReviewStore(seed ...domain.Review) *reviewStore {
	s := &reviewStore{byID: make(map[string]domain.Review)}
	for _, r := range seed {
		s.byID[r.ID] = r
	}
	return s
}

func (s *reviewStore) List(_ context.Context) ([]domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Review, 0, len(s.byID))
	for _, r := range s.byID {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	return out, nil
}

func (s *reviewStore) GetByID(_ context.Context, id string) (*domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok {
		return nil, apperrors.NotFound("review", id)
	}
	return &r, nil
}

func (s *reviewStore) GetBySlug(_ context.Context, slug string) (*domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.byID {
		if r.Slug == slug {
			return &r, nil
		}
	}
	return nil, apperrors.NotFound("review", slug)
}

func (s *reviewStore) ListByCategory(ctx context.Context, category string) ([]domain.Review, error) {
	all, _ := s.List(ctx)
	out := make([]domain.Review, 0, len(all))
	for _, r := range all {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *reviewStore) Create(_ context.Context, review *domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.byID {
		if r.Slug == review.Slug {
			return apperrors.DuplicateSlug(review.Slug)
		}
	}
	s.byID[review.ID] = *review
	return nil
}

func (s *reviewStore) Update(_ context.Context, review *domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[review.ID]; !ok {
		return apperrors.NotFound("review", review.ID)
	}
	for _, r := range s.byID {
		if r.Slug == review.Slug && r.ID != review.ID {
			return apperrors.DuplicateSlug(review.Slug)
		}
	}
	s.byID[review.ID] = *review
	return nil
}

func (s *reviewStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return apperrors.NotFound("review", id)
	}
	delete(s.byID, id)
	return nil
}

func (s *reviewStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID), nil
}

// categoryStore is an in-memory CategoryRepository.
type categoryStore struct {
	mu   sync.Mutex
	cats []domain.Category
}

func (s *categoryStore) List(_ context.Context) ([]domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Category(nil), s.cats...), nil
}

func (s *categoryStore) GetBySlug(_ context.Context, slug string) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cats {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, apperrors.NotFound("category", slug)
}

func (s *categoryStore) Create(ctx context.Context, c *domain.Category) error {
	added, _ := s.EnsureExists(ctx, c)
	if !added {
		return apperrors.AlreadyExists("category", "slug", c.Slug)
	}
	return nil
}

func (s *categoryStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cats), nil
}

func (s *categoryStore) EnsureExists(_ context.Context, c *domain.Category) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.cats {
		if existing.Slug == c.Slug {
			return false, nil
		}
	}
	s.cats = append(s.cats, *c)
	return true, nil
}

// cannedSuggester answers every request with the same lists.
type cannedSuggester struct{}

func (cannedSuggester) Suggest(_ context.Context, text string) suggest.Suggestions {
	if len(text) < suggest.MinTextLength {
		return suggest.Suggestions{Pros: []string{}, Cons: []string{}}
	}
	return suggest.Suggestions{Pros: []string{"Silenciosa"}, Cons: []string{"Cabo curto"}}
}
