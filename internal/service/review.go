// Package service holds the business logic behind the HTTP handlers.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fabricio2fb/reviewlar/internal/catalog"
	"github.com/fabricio2fb/reviewlar/internal/domain"
	"github.com/fabricio2fb/reviewlar/internal/editor"
	"github.com/fabricio2fb/reviewlar/internal/record"
	"github.com/fabricio2fb/reviewlar/internal/repository"
	"github.com/fabricio2fb/reviewlar/internal/search"
	apperrors "github.com/fabricio2fb/reviewlar/pkg/errors"
)

// ReviewService implements review reads and writes.
type ReviewService struct {
	repo       repository.ReviewRepository
	categories *CategoryService
	search     search.Engine
	events     EventPublisher
	logger     *slog.Logger
	now        func() time.Time
}

// NewReviewService creates a review service.
func NewReviewService(
	repo repository.ReviewRepository,
	categories *CategoryService,
	engine search.Engine,
	events EventPublisher,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		repo:       repo,
		categories: categories,
		search:     engine,
		events:     events,
		logger:     logger,
		now:        time.Now,
	}
}

// ReviewDetail is a review with the other reviews of its category.
type ReviewDetail struct {
	Review  *domain.Review  `json:"review"`
	Related []domain.Review `json:"related"`
}

// List returns the catalog filtered and sorted by st.
func (s *ReviewService) List(ctx context.Context, st catalog.FilterState) ([]domain.Review, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return catalog.Filter(all, st), nil
}

// GetByID returns a review for the editor.
func (s *ReviewService) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get review by id: %w", err)
	}
	return r, nil
}

// GetBySlug returns a published review and its related reviews.
func (s *ReviewService) GetBySlug(ctx context.Context, slug string) (*ReviewDetail, error) {
	r, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get review by slug: %w", err)
	}

	same, err := s.repo.ListByCategory(ctx, r.Category)
	if err != nil {
		return nil, fmt.Errorf("list related reviews: %w", err)
	}
	return &ReviewDetail{Review: r, Related: catalog.Related(same, r)}, nil
}

// Schema returns the schema.org Product data for a review page.
func (s *ReviewService) Schema(ctx context.Context, slug, pageURL string) (*catalog.ProductSchema, error) {
	r, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get review by slug: %w", err)
	}
	schema := catalog.BuildProductSchema(r, pageURL)
	return &schema, nil
}

// ListByCategory returns the reviews of a known category.
func (s *ReviewService) ListByCategory(ctx context.Context, category string) ([]domain.Review, error) {
	if _, err := s.categories.Get(ctx, category); err != nil {
		return nil, err
	}
	reviews, err := s.repo.ListByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list reviews by category: %w", err)
	}
	return reviews, nil
}

// Search finds reviews whose title, summary or category contains q.
func (s *ReviewService) Search(ctx context.Context, q string) ([]domain.Review, error) {
	out, err := s.search.Search(ctx, q)
	if err != nil {
		return nil, apperrors.Unavailable("search", err)
	}
	return out, nil
}

// Compare loads the reviews named by slugs and lines up their specs.
func (s *ReviewService) Compare(ctx context.Context, slugs []string) (*catalog.Comparison, error) {
	unique := make([]string, 0, len(slugs))
	seen := make(map[string]bool, len(slugs))
	for _, sl := range slugs {
		sl = strings.TrimSpace(sl)
		if sl == "" || seen[sl] {
			continue
		}
		seen[sl] = true
		unique = append(unique, sl)
	}
	if len(unique) < catalog.MinCompare || len(unique) > catalog.MaxCompare {
		return nil, apperrors.InvalidInput(fmt.Sprintf("compare needs %d to %d distinct slugs", catalog.MinCompare, catalog.MaxCompare))
	}

	reviews := make([]domain.Review, 0, len(unique))
	for _, sl := range unique {
		r, err := s.repo.GetBySlug(ctx, sl)
		if err != nil {
			return nil, fmt.Errorf("get review %s: %w", sl, err)
		}
		reviews = append(reviews, *r)
	}
	return catalog.Compare(reviews)
}

// Submit validates form and stores it. An empty id creates a review;
// otherwise the review with that id is replaced, keeping its id and
// publishedAt. Nothing is written when validation fails.
func (s *ReviewService) Submit(ctx context.Context, id string, form *editor.Form) (*domain.Review, error) {
	cats, err := s.categories.Set(ctx)
	if err != nil {
		return nil, err
	}
	if err := editor.Validate(form, cats); err != nil {
		return nil, err
	}

	if id == "" {
		review := record.ToReview(form, nil, s.now())
		if err := s.repo.Create(ctx, review); err != nil {
			return nil, fmt.Errorf("create review: %w", err)
		}
		s.publish(ctx, "review.created", review.ID, s.events.ReviewCreated(ctx, review))
		s.logger.InfoContext(ctx, "review created",
			slog.String("review_id", review.ID),
			slog.String("slug", review.Slug),
		)
		return review, nil
	}

	original, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get review by id: %w", err)
	}
	review := record.ToReview(form, original, s.now())
	if err := s.repo.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}
	s.publish(ctx, "review.updated", review.ID, s.events.ReviewUpdated(ctx, review))
	s.logger.InfoContext(ctx, "review updated",
		slog.String("review_id", review.ID),
		slog.String("slug", review.Slug),
	)
	return review, nil
}

// Delete removes a review.
func (s *ReviewService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	s.publish(ctx, "review.deleted", id, s.events.ReviewDeleted(ctx, id))
	s.logger.InfoContext(ctx, "review deleted", slog.String("review_id", id))
	return nil
}

// Count returns the number of reviews.
func (s *ReviewService) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}
	return n, nil
}

// Reindex loads every review into the search engine.
func (s *ReviewService) Reindex(ctx context.Context) (int, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list reviews: %w", err)
	}
	if err := s.search.BulkIndex(ctx, all); err != nil {
		return 0, fmt.Errorf("bulk index reviews: %w", err)
	}
	return len(all), nil
}

func (s *ReviewService) publish(ctx context.Context, event, id string, err error) {
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to publish "+event+" event",
			slog.String("review_id", id),
			slog.String("error", err.Error()),
		)
	}
}
