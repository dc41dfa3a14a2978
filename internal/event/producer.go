// Package event publishes review lifecycle events and applies them to the
// search index.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fabricio2fb/reviewlar/internal/domain"
	pkgkafka "github.com/fabricio2fb/reviewlar/pkg/kafka"
	"github.com/fabricio2fb/reviewlar/pkg/logger"
)

// Topics for review events. The topic doubles as the event type.
var (
	TopicReviewCreated = pkgkafka.Topic("review", "created")
	TopicReviewUpdated = pkgkafka.Topic("review", "updated")
	TopicReviewDeleted = pkgkafka.Topic("review", "deleted")
)

// Topics lists every review topic, for consumer subscriptions.
var Topics = []string{TopicReviewCreated, TopicReviewUpdated, TopicReviewDeleted}

// AggregateTypeReview is stamped on every review event.
const AggregateTypeReview = "review"

// ReviewDeletedData is the payload of a review.deleted event. Created and
// updated events carry the full domain.Review.
type ReviewDeletedData struct {
	ID string `json:"id"`
}

type publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
	Source() string
}

// Producer publishes review events to Kafka.
type Producer struct {
	kafka  publisher
	logger *slog.Logger
}

// NewProducer creates a review event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{kafka: kafka, logger: logger}
}

// ReviewCreated publishes a review.created event.
func (p *Producer) ReviewCreated(ctx context.Context, review *domain.Review) error {
	return p.publish(ctx, TopicReviewCreated, review.ID, review)
}

// ReviewUpdated publishes a review.updated event.
func (p *Producer) ReviewUpdated(ctx context.Context, review *domain.Review) error {
	return p.publish(ctx, TopicReviewUpdated, review.ID, review)
}

// ReviewDeleted publishes a review.deleted event.
func (p *Producer) ReviewDeleted(ctx context.Context, id string) error {
	return p.publish(ctx, TopicReviewDeleted, id, ReviewDeletedData{ID: id})
}

func (p *Producer) publish(ctx context.Context, topic, id string, data any) error {
	evt, err := pkgkafka.NewEvent(topic, id, AggregateTypeReview, p.kafka.Source(), data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		evt.WithCorrelationID(cid)
	}

	if err := p.kafka.Publish(ctx, topic, evt); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "review event published",
		slog.String("topic", topic),
		slog.String("review_id", id),
		slog.String("event_id", evt.EventID),
	)
	return nil
}
