// Package suggest proposes pros and cons for a review text. Failures never
// reach the caller: they degrade to an empty suggestion set.
package suggest

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/sony/gobreaker/v2"

	"github.com/fabricio2fb/reviewlar/pkg/httpclient"
)

const (
	// MinContentLength is the editor-side gate: content must be longer than
	// this before a debounced suggestion is requested.
	MinContentLength = 100
	// MinTextLength is the service-side gate on trimmed text.
	MinTextLength = 50

	failureMessage = "Failed to get suggestions."
)

// Suggestions holds proposed pros and cons. Error is set only when the
// backend failed.
type Suggestions struct {
	Pros  []string `json:"pros"`
	Cons  []string `json:"cons"`
	Error string   `json:"error,omitempty"`
}

func empty() Suggestions {
	return Suggestions{Pros: []string{}, Cons: []string{}}
}

// Backend produces suggestions for a review text.
type Backend interface {
	Suggest(ctx context.Context, text string) (Suggestions, error)
}

// Service guards a Backend with length gates and a circuit breaker.
type Service struct {
	backend Backend
	breaker *gobreaker.CircuitBreaker[Suggestions]
	logger  *slog.Logger
}

// NewService wraps backend. Cancelled requests do not count against the
// breaker.
func NewService(backend Backend, breaker httpclient.BreakerConfig, logger *slog.Logger) *Service {
	return &Service{
		backend: backend,
		breaker: httpclient.NewBreaker[Suggestions](breaker, logger, func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		}),
		logger: logger,
	}
}

// Eligible reports whether editor content is long enough to ask for
// suggestions.
func Eligible(content string) bool {
	return utf8.RuneCountInString(content) > MinContentLength
}

// Suggest returns suggestions for text. It never fails; problems are logged,
// counted and reported through Suggestions.Error.
func (s *Service) Suggest(ctx context.Context, text string) Suggestions {
	if !Eligible(text) || utf8.RuneCountInString(strings.TrimSpace(text)) < MinTextLength {
		suggestionsTotal.WithLabelValues("skipped").Inc()
		return empty()
	}

	out, err := s.breaker.Execute(func() (Suggestions, error) {
		return s.backend.Suggest(ctx, text)
	})
	if err != nil {
		outcome := "error"
		if errors.Is(err, httpclient.ErrOpen) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			outcome = "open"
		}
		suggestionsTotal.WithLabelValues(outcome).Inc()
		s.logger.WarnContext(ctx, "suggestion backend failed",
			slog.String("outcome", outcome),
			slog.String("error", err.Error()),
		)
		res := empty()
		res.Error = failureMessage
		return res
	}

	suggestionsTotal.WithLabelValues("ok").Inc()
	return clean(out)
}

// clean trims entries and drops blanks so callers can append them directly.
func clean(s Suggestions) Suggestions {
	out := empty()
	for _, p := range s.Pros {
		if p = strings.TrimSpace(p); p != "" {
			out.Pros = append(out.Pros, p)
		}
	}
	for _, c := range s.Cons {
		if c = strings.TrimSpace(c); c != "" {
			out.Cons = append(out.Cons, c)
		}
	}
	return out
}
