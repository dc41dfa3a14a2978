package repository

import (
	"context"

	"github.com/fabricio2fb/reviewlar/internal/domain"
)

// ReviewRepository persists reviews. Lists are ordered newest first.
type ReviewRepository interface {
	// List returns every review.
	List(ctx context.Context) ([]domain.Review, error)

	// GetByID retrieves a review by its identifier.
	GetByID(ctx context.Context, id string) (*domain.Review, error)

	// GetBySlug retrieves a review by its URL slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Review, error)

	// ListByCategory returns the reviews of one category.
	ListByCategory(ctx context.Context, category string) ([]domain.Review, error)

	// Create stores a new review. A taken slug yields a DUPLICATE_SLUG error.
	Create(ctx context.Context, review *domain.Review) error

	// Update replaces an existing review.
	Update(ctx context.Context, review *domain.Review) error

	// Delete removes a review permanently.
	Delete(ctx context.Context, id string) error

	// Count returns the number of stored reviews.
	Count(ctx context.Context) (int, error)
}

// CategoryRepository persists categories, keyed by slug.
type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	Create(ctx context.Context, category *domain.Category) error
	Count(ctx context.Context) (int, error)

	// EnsureExists inserts the category unless its slug is already taken and
	// reports whether a row was added.
	EnsureExists(ctx context.Context, category *domain.Category) (bool, error)
}
