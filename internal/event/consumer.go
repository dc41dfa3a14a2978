package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fabricio2fb/reviewlar/internal/domain"
	pkgkafka "github.com/fabricio2fb/reviewlar/pkg/kafka"
)

// Indexer is the part of a search engine the consumer drives.
type Indexer interface {
	Index(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id string) error
}

// Consumer keeps the search index in step with review events.
type Consumer struct {
	index  Indexer
	logger *slog.Logger
}

// NewConsumer creates a consumer that writes to index.
func NewConsumer(index Indexer, logger *slog.Logger) *Consumer {
	return &Consumer{index: index, logger: logger}
}

// Handle applies one event. Unknown event types are logged and skipped.
func (c *Consumer) Handle(ctx context.Context, event *pkgkafka.Event) error {
	switch event.EventType {
	case TopicReviewCreated, TopicReviewUpdated:
		var review domain.Review
		if err := event.UnmarshalData(&review); err != nil {
			return fmt.Errorf("unmarshal %s data: %w", event.EventType, err)
		}
		if review.ID == "" {
			return fmt.Errorf("%s event %s has no review id", event.EventType, event.EventID)
		}
		if err := c.index.Index(ctx, &review); err != nil {
			return fmt.Errorf("index review from %s: %w", event.EventType, err)
		}
		c.logger.InfoContext(ctx, "indexed review from event",
			slog.String("event_type", event.EventType),
			slog.String("review_id", review.ID),
		)
		return nil

	case TopicReviewDeleted:
		var data ReviewDeletedData
		if err := event.UnmarshalData(&data); err != nil {
			return fmt.Errorf("unmarshal %s data: %w", event.EventType, err)
		}
		if err := c.index.Delete(ctx, data.ID); err != nil {
			return fmt.Errorf("remove review from index: %w", err)
		}
		c.logger.InfoContext(ctx, "removed review from index",
			slog.String("review_id", data.ID),
		)
		return nil

	default:
		c.logger.WarnContext(ctx, "unknown event type received",
			slog.String("event_type", event.EventType),
			slog.String("event_id", event.EventID),
		)
		return nil
	}
}
