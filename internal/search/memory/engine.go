// Package memory is an in-process search engine for single-instance
// deployments and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fabricio2fb/reviewlar/internal/catalog"
	"github.com/fabricio2fb/reviewlar/internal/domain"
)

// Engine keeps reviews in a map guarded by a RWMutex.
type Engine struct {
	mu      sync.RWMutex
	reviews map[string]domain.Review
}

// New creates an empty engine.
func New() *Engine {
	return &Engine{reviews: make(map[string]domain.Review)}
}

// Index adds or replaces a review.
func (e *Engine) Index(_ context.Context, review *domain.Review) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.reviews[review.ID] = *review
	return nil
}

// BulkIndex adds or replaces reviews.
func (e *Engine) BulkIndex(_ context.Context, reviews []domain.Review) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, r := range reviews {
		e.reviews[r.ID] = r
	}
	return nil
}

// Delete removes a review by id.
func (e *Engine) Delete(_ context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.reviews, id)
	return nil
}

// Search returns reviews matching query, newest first.
func (e *Engine) Search(_ context.Context, query string) ([]domain.Review, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	matched := make([]domain.Review, 0)
	for _, r := range e.reviews {
		if catalog.Matches(&r, query) {
			matched = append(matched, r)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].PublishedAt.Equal(matched[j].PublishedAt) {
			return matched[i].PublishedAt.After(matched[j].PublishedAt)
		}
		return matched[i].ID < matched[j].ID
	})
	return matched, nil
}

// Len returns the number of indexed reviews.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.reviews)
}
