// Package draft keeps in-progress editor forms in Redis between requests.
package draft

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/fabricio2fb/reviewlar/internal/editor"
	apperrors "github.com/fabricio2fb/reviewlar/pkg/errors"
)

const keyPrefix = "reviewlar:draft:"

// Draft is one operator's unsaved edit. ReviewID is empty while creating a
// new review.
type Draft struct {
	ID        string       `json:"id"`
	ReviewID  string       `json:"reviewId,omitempty"`
	OwnerID   string       `json:"ownerId"`
	Form      *editor.Form `json:"form"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// New starts a draft for owner around form.
func New(ownerID, reviewID string, form *editor.Form, now time.Time) *Draft {
	return &Draft{
		ID:        uuid.NewString(),
		ReviewID:  reviewID,
		OwnerID:   ownerID,
		Form:      form,
		UpdatedAt: now.UTC(),
	}
}

// Suggestions are the latest AI pros/cons proposals for a draft.
type Suggestions struct {
	Pros      []string  `json:"pros"`
	Cons      []string  `json:"cons"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// releaseScript deletes the lock only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Store persists drafts. Every save renews the TTL.
type Store struct {
	client  *redis.Client
	ttl     time.Duration
	lockTTL time.Duration
}

// NewStore creates a Redis draft store. Drafts untouched for ttl expire;
// submit locks expire after lockTTL if never released.
func NewStore(client *redis.Client, ttl, lockTTL time.Duration) *Store {
	return &Store{client: client, ttl: ttl, lockTTL: lockTTL}
}

func draftKey(id string) string       { return keyPrefix + id }
func suggestionsKey(id string) string { return keyPrefix + id + ":suggestions" }
func lockKey(id string) string        { return keyPrefix + id + ":lock" }

// Get loads a draft.
func (s *Store) Get(ctx context.Context, id string) (*Draft, error) {
	data, err := s.client.Get(ctx, draftKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("draft", id)
		}
		return nil, fmt.Errorf("redis get draft: %w", err)
	}

	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("unmarshal draft: %w", err)
	}
	if d.Form == nil {
		d.Form = editor.NewForm()
	}
	return &d, nil
}

// Save writes the draft and renews its TTL.
func (s *Store) Save(ctx context.Context, d *Draft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := s.client.Set(ctx, draftKey(d.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set draft: %w", err)
	}
	return nil
}

// Delete removes a draft and its suggestions.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, draftKey(id), suggestionsKey(id)).Err(); err != nil {
		return fmt.Errorf("redis del draft: %w", err)
	}
	return nil
}

// SaveSuggestions stores suggestions beside the draft, so a late result never
// overwrites form edits.
func (s *Store) SaveSuggestions(ctx context.Context, id string, sg *Suggestions) error {
	data, err := json.Marshal(sg)
	if err != nil {
		return fmt.Errorf("marshal suggestions: %w", err)
	}
	if err := s.client.Set(ctx, suggestionsKey(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set suggestions: %w", err)
	}
	return nil
}

// GetSuggestions returns the stored suggestions, or an empty set when none
// have arrived yet.
func (s *Store) GetSuggestions(ctx context.Context, id string) (*Suggestions, error) {
	data, err := s.client.Get(ctx, suggestionsKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &Suggestions{Pros: []string{}, Cons: []string{}}, nil
		}
		return nil, fmt.Errorf("redis get suggestions: %w", err)
	}

	var sg Suggestions
	if err := json.Unmarshal(data, &sg); err != nil {
		return nil, fmt.Errorf("unmarshal suggestions: %w", err)
	}
	return &sg, nil
}

// Lock takes the submit lock for a draft. A second caller gets a 409
// SUBMIT_IN_PROGRESS until the first releases it or the lock expires.
func (s *Store) Lock(ctx context.Context, id string) (func(context.Context) error, error) {
	token, err := newToken()
	if err != nil {
		return nil, fmt.Errorf("generate lock token: %w", err)
	}

	ok, err := s.client.SetNX(ctx, lockKey(id), token, s.lockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lock draft: %w", err)
	}
	if !ok {
		return nil, submitInProgress(id)
	}

	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, s.client, []string{lockKey(id)}, token).Err(); err != nil {
			return fmt.Errorf("redis unlock draft: %w", err)
		}
		return nil
	}
	return release, nil
}

// CheckUnlocked returns SUBMIT_IN_PROGRESS while a submit holds the lock.
func (s *Store) CheckUnlocked(ctx context.Context, id string) error {
	n, err := s.client.Exists(ctx, lockKey(id)).Result()
	if err != nil {
		return fmt.Errorf("redis check draft lock: %w", err)
	}
	if n > 0 {
		return submitInProgress(id)
	}
	return nil
}

func submitInProgress(id string) error {
	return apperrors.Conflict("SUBMIT_IN_PROGRESS", fmt.Sprintf("draft %s is already being submitted", id))
}

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
