package editor

import (
	"errors"
	"fmt"

	"github.com/fabricio2fb/reviewlar/internal/domain"
	"github.com/fabricio2fb/reviewlar/pkg/slug"
	"github.com/fabricio2fb/reviewlar/pkg/validator"
)

// Validate checks every field of f and reports all violations together as a
// *validator.ValidationError. It returns nil when the form can be submitted.
func Validate(f *Form, categories domain.CategorySet) error {
	verr := validator.NewValidationError()
	if err := validator.Validate(f); err != nil {
		if !errors.As(err, &verr) {
			return fmt.Errorf("validate form: %w", err)
		}
	}

	// The slug is derived from the title, so a title without letters or
	// digits would produce an unreachable review.
	if slug.Generate(f.Title) == "" {
		verr.Add("title", "must contain at least one letter or digit")
	}
	if f.Category != "" && !categories.Has(f.Category) {
		verr.Add("category", "must be a known category")
	}

	if verr.Empty() {
		return nil
	}
	return verr
}
