package kafka

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// maxHandlerRetries bounds attempts per message before it is parked.
const maxHandlerRetries = 3

// Handler processes one event.
type Handler func(ctx context.Context, event *Event) error

// messageReader is the part of *kafka.Reader the consumer needs.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ConsumerConfig holds Kafka consumer configuration.
type ConsumerConfig struct {
	Brokers []string
	GroupID string
	Topics  []string
}

// Consumer reads a consumer group's topics and feeds each event to a Handler.
// Messages are committed once handled, dead-lettered, or found unreadable.
type Consumer struct {
	reader     messageReader
	group      string
	handler    Handler
	deadLetter *DeadLetter
	backoff    time.Duration
	logger     *slog.Logger
	closeOnce  sync.Once
}

// NewConsumer subscribes to cfg.Topics as cfg.GroupID. dl may be nil, in
// which case exhausted messages are only logged and skipped.
func NewConsumer(cfg ConsumerConfig, handler Handler, dl *DeadLetter, logger *slog.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		GroupTopics: cfg.Topics,
		MinBytes:    1,
		MaxBytes:    10e6,
	})
	return newConsumer(r, cfg.GroupID, handler, dl, logger)
}

func newConsumer(r messageReader, group string, handler Handler, dl *DeadLetter, logger *slog.Logger) *Consumer {
	return &Consumer{
		reader:     r,
		group:      group,
		handler:    handler,
		deadLetter: dl,
		backoff:    100 * time.Millisecond,
		logger:     logger,
	}
}

// Start blocks consuming until ctx is canceled.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("consumer started", slog.String("group", c.group))

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				c.logger.Info("consumer stopping", slog.String("group", c.group))
				return nil
			}
			c.logger.Error("failed to fetch message", slog.String("error", err.Error()))
			continue
		}
		c.process(ctx, msg)
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (c *Consumer) process(ctx context.Context, msg kafka.Message) {
	event, err := UnmarshalEvent(msg.Value)
	if err != nil {
		consumerProcessed.WithLabelValues(msg.Topic, "malformed").Inc()
		c.logger.Error("dropping malformed event",
			slog.String("topic", msg.Topic),
			slog.Int64("offset", msg.Offset),
			slog.String("error", err.Error()),
		)
		c.commit(ctx, msg)
		return
	}

	start := time.Now()
	lastErr := c.handleWithRetry(ctx, event)
	consumerDuration.WithLabelValues(msg.Topic).Observe(time.Since(start).Seconds())
	if ctx.Err() != nil {
		return
	}

	if lastErr != nil {
		consumerProcessed.WithLabelValues(msg.Topic, "failed").Inc()
		c.logger.Error("handler failed after all retries",
			slog.String("event_type", event.EventType),
			slog.String("aggregate_id", event.AggregateID),
			slog.Int64("offset", msg.Offset),
			slog.String("error", lastErr.Error()),
		)
		if c.deadLetter != nil {
			if err := c.deadLetter.Publish(ctx, msg, lastErr, c.group); err != nil {
				c.logger.Error("dead-letter publish failed", slog.String("error", err.Error()))
			}
		}
	} else {
		consumerProcessed.WithLabelValues(msg.Topic, "ok").Inc()
	}
	c.commit(ctx, msg)
}

func (c *Consumer) handleWithRetry(ctx context.Context, event *Event) error {
	var lastErr error
	for attempt := 1; attempt <= maxHandlerRetries; attempt++ {
		if lastErr = c.handler(ctx, event); lastErr == nil {
			return nil
		}
		c.logger.Warn("handler failed, will retry",
			slog.String("event_type", event.EventType),
			slog.Int("attempt", attempt),
			slog.String("error", lastErr.Error()),
		)
		if attempt == maxHandlerRetries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * c.backoff):
		}
	}
	return lastErr
}

func (c *Consumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.logger.Error("failed to commit message",
			slog.String("topic", msg.Topic),
			slog.Int64("offset", msg.Offset),
			slog.String("error", err.Error()),
		)
	}
}

// Close closes the reader. Safe to call more than once.
func (c *Consumer) Close() error {
	var err error
	c.closeOnce.Do(func() { err = c.reader.Close() })
	return err
}
