// Package catalog holds the read-side rules for browsing reviews: filtering,
// search matching, comparison and structured data.
package catalog

import (
	"fmt"
	"net/url"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/fabricio2fb/reviewlar/internal/domain"
	apperrors "github.com/fabricio2fb/reviewlar/pkg/errors"
)

// SortKey orders a filtered list.
type SortKey string

const (
	SortRatingDesc SortKey = "rating-desc"
	SortRecent     SortKey = "recent"
)

// FilterState is what the catalog page sends when any filter changes.
type FilterState struct {
	Categories []string `json:"categories"`
	MinRating  *float64 `json:"minRating"`
	SortBy     SortKey  `json:"sortBy"`
}

// Filter keeps reviews in one of st.Categories (any, when empty) rated at
// least st.MinRating, then sorts them stably by st.SortBy. The input slice
// is not modified.
func Filter(reviews []domain.Review, st FilterState) []domain.Review {
	out := make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		if len(st.Categories) > 0 && !slices.Contains(st.Categories, r.Category) {
			continue
		}
		if st.MinRating != nil && r.Rating < *st.MinRating {
			continue
		}
		out = append(out, r)
	}

	switch st.SortBy {
	case SortRecent:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].PublishedAt.After(out[j].PublishedAt)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Rating > out[j].Rating
		})
	}
	return out
}

// ParseFilterState reads category (repeatable or comma separated),
// minRating and sortBy from a query string.
func ParseFilterState(q url.Values) (FilterState, error) {
	st := FilterState{SortBy: SortRatingDesc}

	for _, v := range q["category"] {
		for _, c := range strings.Split(v, ",") {
			if c = strings.TrimSpace(c); c != "" && !slices.Contains(st.Categories, c) {
				st.Categories = append(st.Categories, c)
			}
		}
	}

	if v := q.Get("minRating"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return FilterState{}, apperrors.InvalidInput(fmt.Sprintf("minRating %q is not a number", v))
		}
		st.MinRating = &f
	}

	switch v := SortKey(q.Get("sortBy")); v {
	case "":
	case SortRatingDesc, SortRecent:
		st.SortBy = v
	default:
		return FilterState{}, apperrors.InvalidInput(fmt.Sprintf("sortBy must be %s or %s", SortRatingDesc, SortRecent))
	}
	return st, nil
}

// Matches reports whether query occurs in the title, summary or category,
// ignoring case. An empty query matches nothing.
func Matches(r *domain.Review, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return false
	}
	return strings.Contains(strings.ToLower(r.Title), q) ||
		strings.Contains(strings.ToLower(r.Summary), q) ||
		strings.Contains(strings.ToLower(r.Category), q)
}

// Related returns the other reviews of r's category, in input order.
func Related(all []domain.Review, r *domain.Review) []domain.Review {
	out := make([]domain.Review, 0)
	for _, other := range all {
		if other.Category == r.Category && other.ID != r.ID {
			out = append(out, other)
		}
	}
	return out
}
