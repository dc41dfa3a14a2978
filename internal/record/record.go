// Package record converts between the editor form, the domain review and
// the persisted row.
package record

import (
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/fabricio2fb/reviewlar/internal/domain"
	"github.com/fabricio2fb/reviewlar/internal/editor"
	"github.com/fabricio2fb/reviewlar/pkg/slug"
)

// ToForm loads a review into the editor. Map entries come out sorted by key.
func ToForm(r *domain.Review) *editor.Form {
	f := editor.NewForm()
	f.Title = r.Title
	f.Category = r.Category
	f.Rating = r.Rating
	f.Image = r.Image
	f.ImageAspectRatio = r.ImageAspectRatio.Normalize()
	f.Summary = r.Summary
	f.Content = r.Content
	f.PriceRange = r.PriceRange
	f.MetaDescription = r.MetaDescription
	f.Keywords = append(f.Keywords, r.Keywords...)

	for _, p := range r.Pros {
		f.Pros.Append(editor.Value{Value: p})
	}
	for _, c := range r.Cons {
		f.Cons.Append(editor.Value{Value: c})
	}
	for _, img := range r.Images {
		f.Images.Append(editor.Image{Value: img})
	}
	for _, k := range sortedKeys(r.TechnicalSpecs) {
		f.TechnicalSpecs.Append(editor.Spec{Key: k, Value: r.TechnicalSpecs[k]})
	}
	for _, k := range sortedKeys(r.Scores) {
		f.Scores.Append(editor.Score{Key: k, Value: r.Scores[k]})
	}
	for _, q := range r.FAQ {
		f.FAQ.Append(editor.FAQ{Question: q.Question, Answer: q.Answer})
	}
	for _, o := range r.Offers {
		f.Offers.Append(editor.Offer{
			ID:           o.ID,
			Store:        o.Store,
			Price:        o.Price,
			OfferURL:     o.OfferURL,
			StoreLogoURL: o.StoreLogoURL,
		})
	}
	return f
}

// ToReview builds the review to persist from a submitted form. With a nil
// original a new id is generated and publishedAt is stamped with now;
// otherwise both are carried over from original.
func ToReview(f *editor.Form, original *domain.Review, now time.Time) *domain.Review {
	r := &domain.Review{
		Slug:             slug.Generate(f.Title),
		Title:            f.Title,
		Category:         f.Category,
		Rating:           f.Rating,
		Image:            f.Image,
		ImageAspectRatio: f.ImageAspectRatio.Normalize(),
		Summary:          f.Summary,
		Content:          f.Content,
		PriceRange:       f.PriceRange,
		MetaDescription:  f.MetaDescription,
		Pros:             unwrap(f.Pros, func(v editor.Value) string { return v.Value }),
		Cons:             unwrap(f.Cons, func(v editor.Value) string { return v.Value }),
		Images:           unwrap(f.Images, func(v editor.Image) string { return v.Value }),
		Keywords:         nonEmpty(f.Keywords),
		TechnicalSpecs:   make(map[string]string, f.TechnicalSpecs.Len()),
		Scores:           make(map[string]float64, f.Scores.Len()),
		FAQ:              make([]domain.FAQ, 0, f.FAQ.Len()),
		Offers:           make([]domain.Offer, 0, f.Offers.Len()),
	}
	if r.MetaDescription == "" {
		r.MetaDescription = f.Summary
	}

	for _, s := range f.TechnicalSpecs {
		if s.Key == "" || s.Value == "" {
			continue
		}
		r.TechnicalSpecs[s.Key] = s.Value
	}
	for _, s := range f.Scores {
		if s.Key == "" {
			continue
		}
		r.Scores[s.Key] = s.Value
	}
	for _, q := range f.FAQ {
		if q.Question == "" && q.Answer == "" {
			continue
		}
		r.FAQ = append(r.FAQ, domain.FAQ{Question: q.Question, Answer: q.Answer})
	}
	for i, o := range f.Offers {
		r.Offers = append(r.Offers, domain.Offer{
			ID:           strconv.Itoa(i + 1),
			Store:        o.Store,
			Price:        o.Price,
			OfferURL:     o.OfferURL,
			StoreLogoURL: o.StoreLogoURL,
		})
	}

	if original != nil {
		r.ID = original.ID
		r.PublishedAt = original.PublishedAt
	} else {
		r.ID = uuid.NewString()
		r.PublishedAt = now.UTC()
	}
	return r
}

func unwrap[T any](items editor.List[T], value func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if v := value(it); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
