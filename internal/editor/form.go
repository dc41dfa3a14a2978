package editor

import (
	"encoding/json"
	"fmt"

	"github.com/fabricio2fb/reviewlar/internal/domain"
	apperrors "github.com/fabricio2fb/reviewlar/pkg/errors"
)

// Group names as they appear in URLs and JSON.
const (
	GroupPros           = "pros"
	GroupCons           = "cons"
	GroupImages         = "images"
	GroupTechnicalSpecs = "technicalSpecs"
	GroupScores         = "scores"
	GroupFAQ            = "faq"
	GroupOffers         = "offers"
)

var (
	ErrUnknownGroup  = fmt.Errorf("%w: unknown group", apperrors.ErrInvalidInput)
	ErrUnknownField  = fmt.Errorf("%w: unknown field", apperrors.ErrInvalidInput)
	ErrMalformedItem = fmt.Errorf("%w: malformed item", apperrors.ErrInvalidInput)
)

// Value is a single string entry (pros, cons).
type Value struct {
	Value string `json:"value"`
}

// Image is a gallery entry.
type Image struct {
	Value string `json:"value" validate:"required,url"`
}

// Spec is one technical specification row.
type Spec struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Score is one rating criterion, scored 0 to 10.
type Score struct {
	Key   string  `json:"key"`
	Value float64 `json:"value" validate:"gte=0,lte=10"`
}

// FAQ is a question and answer pair.
type FAQ struct {
	Question string `json:"question" validate:"min=5"`
	Answer   string `json:"answer" validate:"min=10"`
}

// Offer is a purchase option being edited. ID is whatever the last save
// assigned and carries no meaning while editing.
type Offer struct {
	ID           string  `json:"id,omitempty"`
	Store        string  `json:"store" validate:"required"`
	Price        float64 `json:"price" validate:"gte=0"`
	OfferURL     string  `json:"offerUrl" validate:"required,url"`
	StoreLogoURL string  `json:"storeLogoUrl" validate:"required,url"`
}

// Form is the editable shape of a review: scalar fields plus seven
// independent ordered groups.
type Form struct {
	Title            string             `json:"title" validate:"min=5,max=1000"`
	Category         string             `json:"category" validate:"required"`
	Rating           float64            `json:"rating" validate:"gte=0,lte=5"`
	Image            string             `json:"image" validate:"required,url"`
	ImageAspectRatio domain.AspectRatio `json:"imageAspectRatio" validate:"omitempty,oneof=square video portrait"`
	Summary          string             `json:"summary" validate:"min=20,max=1000"`
	Content          string             `json:"content" validate:"min=100"`
	PriceRange       string             `json:"priceRange"`
	MetaDescription  string             `json:"metaDescription" validate:"max=160"`
	Keywords         []string           `json:"keywords"`

	Pros           List[Value] `json:"pros"`
	Cons           List[Value] `json:"cons"`
	Images         List[Image] `json:"images" validate:"dive"`
	TechnicalSpecs List[Spec]  `json:"technicalSpecs"`
	Scores         List[Score] `json:"scores" validate:"dive"`
	FAQ            List[FAQ]   `json:"faq" validate:"dive"`
	Offers         List[Offer] `json:"offers" validate:"dive"`
}

// NewForm returns the empty form a new review starts from.
func NewForm() *Form {
	return &Form{
		ImageAspectRatio: domain.AspectSquare,
		Keywords:         []string{},
		Pros:             List[Value]{},
		Cons:             List[Value]{},
		Images:           List[Image]{},
		TechnicalSpecs:   List[Spec]{},
		Scores:           List[Score]{},
		FAQ:              List[FAQ]{},
		Offers:           List[Offer]{},
	}
}

// Clone returns a deep copy. Imports stage their changes on a clone.
func (f *Form) Clone() *Form {
	c := *f
	c.Keywords = append([]string{}, f.Keywords...)
	c.Pros = f.Pros.clone()
	c.Cons = f.Cons.clone()
	c.Images = f.Images.clone()
	c.TechnicalSpecs = f.TechnicalSpecs.clone()
	c.Scores = f.Scores.clone()
	c.FAQ = f.FAQ.clone()
	c.Offers = f.Offers.clone()
	return &c
}

// GroupLen returns the number of items in the named group.
func (f *Form) GroupLen(group string) (int, error) {
	switch group {
	case GroupPros:
		return f.Pros.Len(), nil
	case GroupCons:
		return f.Cons.Len(), nil
	case GroupImages:
		return f.Images.Len(), nil
	case GroupTechnicalSpecs:
		return f.TechnicalSpecs.Len(), nil
	case GroupScores:
		return f.Scores.Len(), nil
	case GroupFAQ:
		return f.FAQ.Len(), nil
	case GroupOffers:
		return f.Offers.Len(), nil
	}
	return 0, fmt.Errorf("group %q: %w", group, ErrUnknownGroup)
}

// Append decodes raw as one item of group and adds it to the end.
func (f *Form) Append(group string, raw json.RawMessage) error {
	switch group {
	case GroupPros:
		return appendRaw(&f.Pros, raw)
	case GroupCons:
		return appendRaw(&f.Cons, raw)
	case GroupImages:
		return appendRaw(&f.Images, raw)
	case GroupTechnicalSpecs:
		return appendRaw(&f.TechnicalSpecs, raw)
	case GroupScores:
		return appendRaw(&f.Scores, raw)
	case GroupFAQ:
		return appendRaw(&f.FAQ, raw)
	case GroupOffers:
		return appendRaw(&f.Offers, raw)
	}
	return fmt.Errorf("group %q: %w", group, ErrUnknownGroup)
}

// RemoveAt deletes the item at index from group.
func (f *Form) RemoveAt(group string, index int) error {
	switch group {
	case GroupPros:
		return f.Pros.RemoveAt(index)
	case GroupCons:
		return f.Cons.RemoveAt(index)
	case GroupImages:
		return f.Images.RemoveAt(index)
	case GroupTechnicalSpecs:
		return f.TechnicalSpecs.RemoveAt(index)
	case GroupScores:
		return f.Scores.RemoveAt(index)
	case GroupFAQ:
		return f.FAQ.RemoveAt(index)
	case GroupOffers:
		return f.Offers.RemoveAt(index)
	}
	return fmt.Errorf("group %q: %w", group, ErrUnknownGroup)
}

// SetField overwrites one scalar field with the JSON value in raw.
func (f *Form) SetField(name string, raw json.RawMessage) error {
	switch name {
	case "title":
		return setRaw(&f.Title, raw)
	case "category":
		return setRaw(&f.Category, raw)
	case "rating":
		return setRaw(&f.Rating, raw)
	case "image":
		return setRaw(&f.Image, raw)
	case "imageAspectRatio":
		return setRaw(&f.ImageAspectRatio, raw)
	case "summary":
		return setRaw(&f.Summary, raw)
	case "content":
		return setRaw(&f.Content, raw)
	case "priceRange":
		return setRaw(&f.PriceRange, raw)
	case "metaDescription":
		return setRaw(&f.MetaDescription, raw)
	case "keywords":
		return setRaw(&f.Keywords, raw)
	}
	return fmt.Errorf("field %q: %w", name, ErrUnknownField)
}

func appendRaw[T any](l *List[T], raw json.RawMessage) error {
	var item T
	if err := json.Unmarshal(raw, &item); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedItem, err)
	}
	l.Append(item)
	return nil
}

// setRaw decodes into a temporary so a bad value leaves dst untouched.
func setRaw[T any](dst *T, raw json.RawMessage) error {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedItem, err)
	}
	*dst = v
	return nil
}
