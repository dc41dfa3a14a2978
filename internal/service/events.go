package service

import (
	"context"

	"github.com/fabricio2fb/reviewlar/internal/domain"
)

// EventPublisher announces review changes. Publishing failures are logged by
// the caller and never undo a saved change.
type EventPublisher interface {
	ReviewCreated(ctx context.Context, review *domain.Review) error
	ReviewUpdated(ctx context.Context, review *domain.Review) error
	ReviewDeleted(ctx context.Context, id string) error
}
