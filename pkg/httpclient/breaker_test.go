package httpclient

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"

	"github.com/fabricio2fb/reviewlar/pkg/logger"
)

func TestNewBreaker_TripsAndRecovers(t *testing.T) {
	cfg := BreakerConfig{
		Name:         "test-trip",
		MaxRequests:  1,
		Timeout:      20 * time.Millisecond,
		FailureRatio: 0.5,
		MinRequests:  2,
	}
	cb := NewBreaker[string](cfg, logger.Discard(), nil)
	fail := func() (string, error) { return "", errors.New("boom") }

	_, _ = cb.Execute(fail)
	assert.Equal(t, gobreaker.StateClosed, cb.State())
	_, _ = cb.Execute(fail)
	assert.Equal(t, gobreaker.StateOpen, cb.State())

	_, err := cb.Execute(func() (string, error) { return "ok", nil })
	assert.ErrorIs(t, err, ErrOpen)

	time.Sleep(30 * time.Millisecond)
	got, err := cb.Execute(func() (string, error) { return "ok", nil })
	assert.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestNewBreaker_IsSuccessfulExcludesErrors(t *testing.T) {
	benign := errors.New("input too short")
	cfg := DefaultBreakerConfig("test-benign")
	cfg.MinRequests = 1
	cb := NewBreaker[int](cfg, logger.Discard(), func(err error) bool {
		return err == nil || errors.Is(err, benign)
	})

	for i := 0; i < 5; i++ {
		_, _ = cb.Execute(func() (int, error) { return 0, benign })
	}
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestStateValue(t *testing.T) {
	assert.Equal(t, float64(0), stateValue(gobreaker.StateClosed))
	assert.Equal(t, float64(1), stateValue(gobreaker.StateHalfOpen))
	assert.Equal(t, float64(2), stateValue(gobreaker.StateOpen))
}
