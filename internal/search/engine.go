// Package search defines the review search engine used by the public search
// endpoint. Engines are kept in sync through review events.
package search

import (
	"context"

	"github.com/fabricio2fb/reviewlar/internal/domain"
)

// Engine indexes reviews and finds those whose title, summary or category
// contains a query, ignoring case. Results are newest first.
type Engine interface {
	// Index adds or replaces a review.
	Index(ctx context.Context, review *domain.Review) error

	// BulkIndex adds or replaces many reviews at once.
	BulkIndex(ctx context.Context, reviews []domain.Review) error

	// Delete removes a review. Unknown ids are not an error.
	Delete(ctx context.Context, id string) error

	// Search returns matching reviews. An empty query matches nothing.
	Search(ctx context.Context, query string) ([]domain.Review, error)
}
