package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fabricio2fb/reviewlar/internal/domain"
	"github.com/fabricio2fb/reviewlar/internal/draft"
	"github.com/fabricio2fb/reviewlar/internal/editor"
	"github.com/fabricio2fb/reviewlar/internal/importer"
	"github.com/fabricio2fb/reviewlar/internal/record"
	"github.com/fabricio2fb/reviewlar/internal/suggest"
	apperrors "github.com/fabricio2fb/reviewlar/pkg/errors"
	"github.com/fabricio2fb/reviewlar/pkg/validator"
)

// DraftStore persists editor drafts.
type DraftStore interface {
	Get(ctx context.Context, id string) (*draft.Draft, error)
	Save(ctx context.Context, d *draft.Draft) error
	Delete(ctx context.Context, id string) error
	SaveSuggestions(ctx context.Context, id string, s *draft.Suggestions) error
	GetSuggestions(ctx context.Context, id string) (*draft.Suggestions, error)
	Lock(ctx context.Context, id string) (func(context.Context) error, error)
	CheckUnlocked(ctx context.Context, id string) error
}

// Suggester proposes pros and cons. It never fails.
type Suggester interface {
	Suggest(ctx context.Context, text string) suggest.Suggestions
}

// ValidationResult is the outcome of a live validation pass.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Fields map[string]string `json:"fields,omitempty"`
}

// DraftService drives the review editor: field edits, group edits, JSON
// imports, suggestions and submit.
type DraftService struct {
	store     DraftStore
	reviews   *ReviewService
	suggester Suggester
	debouncer *suggest.Debouncer
	logger    *slog.Logger
	now       func() time.Time
}

// NewDraftService creates the editor service. Content edits ask for
// suggestions once the text has been quiet for delay.
func NewDraftService(store DraftStore, reviews *ReviewService, suggester Suggester, delay time.Duration, logger *slog.Logger) *DraftService {
	s := &DraftService{
		store:     store,
		reviews:   reviews,
		suggester: suggester,
		logger:    logger,
		now:       time.Now,
	}
	s.debouncer = suggest.NewDebouncer(delay, s.runSuggestion)
	return s
}

// Close stops pending suggestion requests.
func (s *DraftService) Close() {
	s.debouncer.Close()
}

// Create starts a draft for ownerID. With a reviewID the form is
// loaded from that review; otherwise it starts empty.
func (s *DraftService) Create(ctx context.Context, ownerID, reviewID string) (*draft.Draft, error) {
	form := editor.NewForm()
	if reviewID != "" {
		r, err := s.reviews.GetByID(ctx, reviewID)
		if err != nil {
			return nil, err
		}
		form = record.ToForm(r)
	}

	d := draft.New(ownerID, reviewID, form, s.now())
	if err := s.store.Save(ctx, d); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}

	s.logger.InfoContext(ctx, "draft created",
		slog.String("draft_id", d.ID),
		slog.String("review_id", reviewID),
	)
	return d, nil
}

// Get returns a draft owned by ownerID.
func (s *DraftService) Get(ctx context.Context, ownerID, id string) (*draft.Draft, error) {
	d, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}
	if d.OwnerID != ownerID {
		return nil, apperrors.Forbidden("draft belongs to another user")
	}
	return d, nil
}

// Delete discards a draft and any pending suggestion request.
func (s *DraftService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}
	s.debouncer.Cancel(id)
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

// SetField overwrites one scalar field.
func (s *DraftService) SetField(ctx context.Context, ownerID, id, field string, raw json.RawMessage) (*draft.Draft, error) {
	return s.edit(ctx, ownerID, id, func(f *editor.Form) error {
		return f.SetField(field, raw)
	})
}

// AppendItem adds an item to the end of a group.
func (s *DraftService) AppendItem(ctx context.Context, ownerID, id, group string, raw json.RawMessage) (*draft.Draft, error) {
	return s.edit(ctx, ownerID, id, func(f *editor.Form) error {
		return f.Append(group, raw)
	})
}

// RemoveItem removes the item at index from a group.
func (s *DraftService) RemoveItem(ctx context.Context, ownerID, id, group string, index int) (*draft.Draft, error) {
	return s.edit(ctx, ownerID, id, func(f *editor.Form) error {
		return f.RemoveAt(group, index)
	})
}

// Import applies a JSON import to the draft. A rejected import leaves the
// stored draft untouched.
func (s *DraftService) Import(ctx context.Context, ownerID, id string, kind importer.Kind, payload []byte) (*importer.Result, *draft.Draft, error) {
	var res *importer.Result
	d, err := s.edit(ctx, ownerID, id, func(f *editor.Form) error {
		var err error
		res, err = importer.Apply(f, kind, payload)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return res, d, nil
}

// edit loads a draft, applies fn and saves the result. Edits are refused
// while a submit is running. Content changes restart the suggestion timer;
// content too short for suggestions drops any pending request.
func (s *DraftService) edit(ctx context.Context, ownerID, id string, fn func(*editor.Form) error) (*draft.Draft, error) {
	d, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.CheckUnlocked(ctx, id); err != nil {
		return nil, err
	}
	before := d.Form.Content

	if err := fn(d.Form); err != nil {
		return nil, err
	}
	d.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, d); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}

	if d.Form.Content != before {
		if suggest.Eligible(d.Form.Content) {
			s.debouncer.Trigger(d.ID, d.Form.Content)
		} else {
			s.debouncer.Cancel(d.ID)
		}
	}
	return d, nil
}

// Validate runs every form rule without saving anything.
func (s *DraftService) Validate(ctx context.Context, ownerID, id string) (*ValidationResult, error) {
	d, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	cats, err := s.reviews.categories.Set(ctx)
	if err != nil {
		return nil, err
	}

	if err := editor.Validate(d.Form, cats); err != nil {
		var verr *validator.ValidationError
		if errors.As(err, &verr) {
			return &ValidationResult{Valid: false, Fields: verr.Fields()}, nil
		}
		return nil, err
	}
	return &ValidationResult{Valid: true}, nil
}

// Submit saves the draft as a review. Only one submit per draft runs at a
// time. On success the draft is removed; on failure it is kept as it was.
func (s *DraftService) Submit(ctx context.Context, ownerID, id string) (*domain.Review, error) {
	release, err := s.store.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.logger.WarnContext(ctx, "failed to release submit lock",
				slog.String("draft_id", id),
				slog.String("error", err.Error()),
			)
		}
	}()

	d, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	review, err := s.reviews.Submit(ctx, d.ReviewID, d.Form)
	if err != nil {
		return nil, err
	}

	s.debouncer.Cancel(id)
	if err := s.store.Delete(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "failed to delete submitted draft",
			slog.String("draft_id", id),
			slog.String("error", err.Error()),
		)
	}
	return review, nil
}

// Suggestions returns the latest suggestions computed for a draft.
func (s *DraftService) Suggestions(ctx context.Context, ownerID, id string) (*draft.Suggestions, error) {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return nil, err
	}
	sg, err := s.store.GetSuggestions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get suggestions: %w", err)
	}
	return sg, nil
}

// SuggestNow asks for suggestions immediately, outside any draft.
func (s *DraftService) SuggestNow(ctx context.Context, text string) suggest.Suggestions {
	return s.suggester.Suggest(ctx, text)
}

func (s *DraftService) runSuggestion(ctx context.Context, id, text string) {
	res := s.suggester.Suggest(ctx, text)
	if ctx.Err() != nil {
		return
	}

	sg := &draft.Suggestions{Pros: res.Pros, Cons: res.Cons, Error: res.Error, UpdatedAt: s.now().UTC()}
	if err := s.store.SaveSuggestions(ctx, id, sg); err != nil {
		s.logger.WarnContext(ctx, "failed to store suggestions",
			slog.String("draft_id", id),
			slog.String("error", err.Error()),
		)
	}
}
