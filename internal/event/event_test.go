package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fabricio2fb/reviewlar/internal/domain"
	pkgkafka "github.com/fabricio2fb/reviewlar/pkg/kafka"
	"github.com/fabricio2fb/reviewlar/pkg/logger"
)

// --- mocks ---

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, topic string, event *pkgkafka.Event) error {
	return m.Called(ctx, topic, event).Error(0)
}

func (m *mockPublisher) Source() string { return "reviewlar" }

type mockIndexer struct {
	mock.Mock
}

func (m *mockIndexer) Index(ctx context.Context, review *domain.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *mockIndexer) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func sampleReview() *domain.Review {
	return &domain.Review{
		ID:          "rev-1",
		Slug:        "cafeteira-nespresso",
		Title:       "Cafeteira Nespresso",
		Category:    "cafeteira",
		Rating:      4.5,
		PublishedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

// --- producer ---

func TestProducer_ReviewCreated(t *testing.T) {
	pub := new(mockPublisher)
	p := &Producer{kafka: pub, logger: logger.Discard()}
	ctx := logger.WithCorrelationID(context.Background(), "corr-7")

	pub.On("Publish", ctx, "reviewlar.review.created", mock.MatchedBy(func(e *pkgkafka.Event) bool {
		var r domain.Review
		return e.EventType == "reviewlar.review.created" &&
			e.AggregateID == "rev-1" &&
			e.AggregateType == "review" &&
			e.Source == "reviewlar" &&
			e.CorrelationID == "corr-7" &&
			json.Unmarshal(e.Data, &r) == nil && r.Slug == "cafeteira-nespresso"
	})).Return(nil)

	require.NoError(t, p.ReviewCreated(ctx, sampleReview()))
	pub.AssertExpectations(t)
}

func TestProducer_ReviewDeleted(t *testing.T) {
	pub := new(mockPublisher)
	p := &Producer{kafka: pub, logger: logger.Discard()}

	pub.On("Publish", mock.Anything, TopicReviewDeleted, mock.MatchedBy(func(e *pkgkafka.Event) bool {
		return string(e.Data) == `{"id":"rev-1"}`
	})).Return(nil)

	require.NoError(t, p.ReviewDeleted(context.Background(), "rev-1"))
	pub.AssertExpectations(t)
}

func TestProducer_PublishError(t *testing.T) {
	pub := new(mockPublisher)
	p := &Producer{kafka: pub, logger: logger.Discard()}
	pub.On("Publish", mock.Anything, TopicReviewUpdated, mock.Anything).Return(errors.New("broker down"))

	err := p.ReviewUpdated(context.Background(), sampleReview())
	assert.ErrorContains(t, err, "broker down")
}

// --- consumer ---

func newTestEvent(t *testing.T, eventType string, data any) *pkgkafka.Event {
	t.Helper()
	evt, err := pkgkafka.NewEvent(eventType, "rev-1", AggregateTypeReview, "test", data)
	require.NoError(t, err)
	return evt
}

func TestConsumer_IndexesCreatedAndUpdated(t *testing.T) {
	for _, topic := range []string{TopicReviewCreated, TopicReviewUpdated} {
		t.Run(topic, func(t *testing.T) {
			idx := new(mockIndexer)
			idx.On("Index", mock.Anything, mock.MatchedBy(func(r *domain.Review) bool {
				return r.ID == "rev-1" && r.Rating == 4.5
			})).Return(nil)

			c := NewConsumer(idx, logger.Discard())
			require.NoError(t, c.Handle(context.Background(), newTestEvent(t, topic, sampleReview())))
			idx.AssertExpectations(t)
		})
	}
}

func TestConsumer_Deleted(t *testing.T) {
	idx := new(mockIndexer)
	idx.On("Delete", mock.Anything, "rev-1").Return(nil)

	c := NewConsumer(idx, logger.Discard())
	require.NoError(t, c.Handle(context.Background(), newTestEvent(t, TopicReviewDeleted, ReviewDeletedData{ID: "rev-1"})))
	idx.AssertExpectations(t)
}

func TestConsumer_BadPayload(t *testing.T) {
	c := NewConsumer(new(mockIndexer), logger.Discard())

	evt := newTestEvent(t, TopicReviewCreated, "not an object")
	assert.ErrorContains(t, c.Handle(context.Background(), evt), "unmarshal")

	evt = newTestEvent(t, TopicReviewUpdated, map[string]string{"title": "sem id"})
	assert.ErrorContains(t, c.Handle(context.Background(), evt), "no review id")
}

func TestConsumer_IndexFailureIsReturned(t *testing.T) {
	idx := new(mockIndexer)
	idx.On("Index", mock.Anything, mock.Anything).Return(errors.New("es down"))

	err := NewConsumer(idx, logger.Discard()).Handle(context.Background(), newTestEvent(t, TopicReviewCreated, sampleReview()))
	assert.ErrorContains(t, err, "es down")
}

func TestConsumer_UnknownTypeIgnored(t *testing.T) {
	idx := new(mockIndexer)
	c := NewConsumer(idx, logger.Discard())

	require.NoError(t, c.Handle(context.Background(), newTestEvent(t, "reviewlar.review.archived", struct{}{})))
	idx.AssertNotCalled(t, "Index", mock.Anything, mock.Anything)
}

// --- inline ---

func TestInline_SwallowsIndexErrors(t *testing.T) {
	idx := new(mockIndexer)
	idx.On("Index", mock.Anything, mock.Anything).Return(errors.New("es down"))
	idx.On("Delete", mock.Anything, "rev-1").Return(nil)

	in := NewInline(idx, logger.Discard())
	assert.NoError(t, in.ReviewCreated(context.Background(), sampleReview()))
	assert.NoError(t, in.ReviewUpdated(context.Background(), sampleReview()))
	assert.NoError(t, in.ReviewDeleted(context.Background(), "rev-1"))
	idx.AssertNumberOfCalls(t, "Index", 2)
}
