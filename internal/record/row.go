package record

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fabricio2fb/reviewlar/internal/domain"
)

// Columns is the reviews table column list in the order Values and Targets
// use.
var Columns = []string{
	"id", "slug", "title", "category", "rating", "image", "images",
	"image_aspect_ratio", "summary", "content", "pros", "cons",
	"technical_specs", "scores", "price_range", "faq", "keywords",
	"meta_description", "offers", "published_at",
}

// Row is a review as stored. JSON columns hold encoded documents.
type Row struct {
	ID               string          `json:"id"`
	Slug             string          `json:"slug"`
	Title            string          `json:"title"`
	Category         string          `json:"category"`
	Rating           float64         `json:"rating"`
	Image            string          `json:"image"`
	Images           []string        `json:"images"`
	ImageAspectRatio string          `json:"image_aspect_ratio"`
	Summary          string          `json:"summary"`
	Content          string          `json:"content"`
	Pros             []string        `json:"pros"`
	Cons             []string        `json:"cons"`
	TechnicalSpecs   json.RawMessage `json:"technical_specs"`
	Scores           json.RawMessage `json:"scores"`
	PriceRange       string          `json:"price_range"`
	FAQ              json.RawMessage `json:"faq"`
	Keywords         []string        `json:"keywords"`
	MetaDescription  string          `json:"meta_description"`
	Offers           json.RawMessage `json:"offers"`
	PublishedAt      time.Time       `json:"published_at"`
}

// Values returns the column values in Columns order.
func (r *Row) Values() []any {
	return []any{
		r.ID, r.Slug, r.Title, r.Category, r.Rating, r.Image, r.Images,
		r.ImageAspectRatio, r.Summary, r.Content, r.Pros, r.Cons,
		[]byte(r.TechnicalSpecs), []byte(r.Scores), r.PriceRange, []byte(r.FAQ), r.Keywords,
		r.MetaDescription, []byte(r.Offers), r.PublishedAt,
	}
}

// Targets returns scan destinations in Columns order.
func (r *Row) Targets() []any {
	return []any{
		&r.ID, &r.Slug, &r.Title, &r.Category, &r.Rating, &r.Image, &r.Images,
		&r.ImageAspectRatio, &r.Summary, &r.Content, &r.Pros, &r.Cons,
		(*[]byte)(&r.TechnicalSpecs), (*[]byte)(&r.Scores), &r.PriceRange, (*[]byte)(&r.FAQ), &r.Keywords,
		&r.MetaDescription, (*[]byte)(&r.Offers), &r.PublishedAt,
	}
}

// ToRow encodes a review for storage.
func ToRow(r *domain.Review) (*Row, error) {
	specs, err := marshalOr(r.TechnicalSpecs, map[string]string{})
	if err != nil {
		return nil, fmt.Errorf("marshal technical specs: %w", err)
	}
	scores, err := marshalOr(r.Scores, map[string]float64{})
	if err != nil {
		return nil, fmt.Errorf("marshal scores: %w", err)
	}
	faq, err := marshalOr(r.FAQ, []domain.FAQ{})
	if err != nil {
		return nil, fmt.Errorf("marshal faq: %w", err)
	}
	offers, err := marshalOr(r.Offers, []domain.Offer{})
	if err != nil {
		return nil, fmt.Errorf("marshal offers: %w", err)
	}

	return &Row{
		ID:               r.ID,
		Slug:             r.Slug,
		Title:            r.Title,
		Category:         r.Category,
		Rating:           r.Rating,
		Image:            r.Image,
		Images:           orEmpty(r.Images),
		ImageAspectRatio: string(r.ImageAspectRatio.Normalize()),
		Summary:          r.Summary,
		Content:          r.Content,
		Pros:             orEmpty(r.Pros),
		Cons:             orEmpty(r.Cons),
		TechnicalSpecs:   specs,
		Scores:           scores,
		PriceRange:       r.PriceRange,
		FAQ:              faq,
		Keywords:         orEmpty(r.Keywords),
		MetaDescription:  r.MetaDescription,
		Offers:           offers,
		PublishedAt:      r.PublishedAt,
	}, nil
}

// FromRow decodes a stored row. Null JSON columns become empty values.
func FromRow(row *Row) (*domain.Review, error) {
	r := &domain.Review{
		ID:               row.ID,
		Slug:             row.Slug,
		Title:            row.Title,
		Category:         row.Category,
		Rating:           row.Rating,
		Image:            row.Image,
		Images:           orEmpty(row.Images),
		ImageAspectRatio: domain.AspectRatio(row.ImageAspectRatio).Normalize(),
		Summary:          row.Summary,
		Content:          row.Content,
		Pros:             orEmpty(row.Pros),
		Cons:             orEmpty(row.Cons),
		TechnicalSpecs:   map[string]string{},
		Scores:           map[string]float64{},
		PriceRange:       row.PriceRange,
		FAQ:              []domain.FAQ{},
		Keywords:         orEmpty(row.Keywords),
		MetaDescription:  row.MetaDescription,
		Offers:           []domain.Offer{},
		PublishedAt:      row.PublishedAt,
	}

	if err := unmarshalIfSet(row.TechnicalSpecs, &r.TechnicalSpecs); err != nil {
		return nil, fmt.Errorf("unmarshal technical specs: %w", err)
	}
	if err := unmarshalIfSet(row.Scores, &r.Scores); err != nil {
		return nil, fmt.Errorf("unmarshal scores: %w", err)
	}
	if err := unmarshalIfSet(row.FAQ, &r.FAQ); err != nil {
		return nil, fmt.Errorf("unmarshal faq: %w", err)
	}
	if err := unmarshalIfSet(row.Offers, &r.Offers); err != nil {
		return nil, fmt.Errorf("unmarshal offers: %w", err)
	}
	return r, nil
}

func marshalOr[T any](v T, empty T) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(data) == "null" {
		return json.Marshal(empty)
	}
	return data, nil
}

func unmarshalIfSet[T any](data json.RawMessage, dst *T) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	return json.Unmarshal(data, dst)
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
