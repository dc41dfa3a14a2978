package event

import (
	"context"
	"log/slog"

	"github.com/fabricio2fb/reviewlar/internal/domain"
)

// Inline applies review changes straight to the index, for deployments
// without Kafka. Index failures are logged, never returned: the review is
// already saved.
type Inline struct {
	index  Indexer
	logger *slog.Logger
}

// NewInline creates an in-process publisher.
func NewInline(index Indexer, logger *slog.Logger) *Inline {
	return &Inline{index: index, logger: logger}
}

func (i *Inline) ReviewCreated(ctx context.Context, review *domain.Review) error {
	i.apply(ctx, review.ID, i.index.Index(ctx, review))
	return nil
}

func (i *Inline) ReviewUpdated(ctx context.Context, review *domain.Review) error {
	i.apply(ctx, review.ID, i.index.Index(ctx, review))
	return nil
}

func (i *Inline) ReviewDeleted(ctx context.Context, id string) error {
	i.apply(ctx, id, i.index.Delete(ctx, id))
	return nil
}

func (i *Inline) apply(ctx context.Context, id string, err error) {
	if err != nil {
		i.logger.ErrorContext(ctx, "failed to update search index",
			slog.String("review_id", id),
			slog.String("error", err.Error()),
		)
	}
}
