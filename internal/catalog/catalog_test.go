package catalog

import (
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabricio2fb/reviewlar/internal/domain"
	apperrors "github.com/fabricio2fb/reviewlar/pkg/errors"
)

func day(d int) time.Time {
	return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC)
}

func ptr(f float64) *float64 { return &f }

func fixtures() []domain.Review {
	return []domain.Review{
		{ID: "1", Title: "Geladeira Consul", Category: "geladeira", Rating: 4.0, PublishedAt: day(3)},
		{ID: "2", Title: "Fogão Atlas", Category: "fogao", Rating: 3.0, PublishedAt: day(5)},
		{ID: "3", Title: "Geladeira Brastemp", Category: "geladeira", Rating: 4.5, PublishedAt: day(1), Summary: "Frost free silenciosa"},
		{ID: "4", Title: "Air Fryer Mondial", Category: "air-fryer", Rating: 4.0, PublishedAt: day(4)},
	}
}

func ids(rs []domain.Review) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func TestFilter_Example(t *testing.T) {
	reviews := []domain.Review{
		{Category: "geladeira", Rating: 4.5},
		{Category: "fogao", Rating: 3.0},
	}

	got := Filter(reviews, FilterState{Categories: []string{"geladeira"}, MinRating: ptr(4), SortBy: SortRatingDesc})

	assert.Equal(t, []domain.Review{{Category: "geladeira", Rating: 4.5}}, got)
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name string
		st   FilterState
		want []string
	}{
		{"no filter sorts by rating and keeps ties stable", FilterState{}, []string{"3", "1", "4", "2"}},
		{"recent", FilterState{SortBy: SortRecent}, []string{"2", "4", "1", "3"}},
		{"categories", FilterState{Categories: []string{"geladeira", "air-fryer"}, SortBy: SortRecent}, []string{"4", "1", "3"}},
		{"min rating inclusive", FilterState{MinRating: ptr(4.0)}, []string{"3", "1", "4"}},
		{"nothing matches", FilterState{Categories: []string{"televisao"}}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := fixtures()
			assert.Equal(t, tt.want, ids(Filter(in, tt.st)))
			assert.Equal(t, fixtures(), in, "input untouched")
		})
	}
}

func TestParseFilterState(t *testing.T) {
	st, err := ParseFilterState(url.Values{
		"category":  {"geladeira,fogao", "air-fryer", "fogao"},
		"minRating": {"3.5"},
		"sortBy":    {"recent"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"geladeira", "fogao", "air-fryer"}, st.Categories)
	assert.Equal(t, 3.5, *st.MinRating)
	assert.Equal(t, SortRecent, st.SortBy)

	st, err = ParseFilterState(url.Values{})
	require.NoError(t, err)
	assert.Nil(t, st.MinRating)
	assert.Equal(t, SortRatingDesc, st.SortBy)
}

func TestParseFilterState_Invalid(t *testing.T) {
	_, err := ParseFilterState(url.Values{"minRating": {"quatro"}})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = ParseFilterState(url.Values{"sortBy": {"price"}})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestMatches(t *testing.T) {
	r := &fixtures()[2]

	assert.True(t, Matches(r, "BRASTEMP"))
	assert.True(t, Matches(r, "silenciosa"))
	assert.True(t, Matches(r, "gela"))
	assert.False(t, Matches(r, "fogão"))
	assert.False(t, Matches(r, "   "))
}

func TestRelated(t *testing.T) {
	all := fixtures()
	assert.Equal(t, []string{"1"}, ids(Related(all, &all[2])))
	assert.Empty(t, Related(all, &all[1]))
}

func TestCompare(t *testing.T) {
	a := domain.Review{ID: "a", TechnicalSpecs: map[string]string{"Cor": "Branca", "Capacidade": "375L"}}
	b := domain.Review{ID: "b", TechnicalSpecs: map[string]string{"Cor": "Inox", "Voltagem": "220V"}}

	c, err := Compare([]domain.Review{a, b, a})
	require.NoError(t, err)

	assert.Len(t, c.Reviews, 2)
	assert.Equal(t, []string{"Capacidade", "Cor", "Voltagem"}, c.Keys)
	assert.Equal(t, []ComparisonRow{
		{Key: "Capacidade", Values: []string{"375L", "-"}},
		{Key: "Cor", Values: []string{"Branca", "Inox"}},
		{Key: "Voltagem", Values: []string{"-", "220V"}},
	}, c.Rows)
}

func TestCompare_Bounds(t *testing.T) {
	one := []domain.Review{{ID: "a"}, {ID: "a"}}
	_, err := Compare(one)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	five := []domain.Review{{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"}, {ID: "5"}}
	_, err = Compare(five)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = Compare(five[:4])
	assert.NoError(t, err)
}

func TestBuildProductSchema(t *testing.T) {
	r := &domain.Review{
		ID:             "id-1",
		Title:          "Cafeteira Nespresso",
		Image:          "https://img.example/n.jpg",
		Summary:        "Café rápido.",
		Rating:         4.26,
		TechnicalSpecs: map[string]string{"Marca": "Nespresso"},
		Offers:         []domain.Offer{{Price: 599.9}, {Price: 549}},
	}

	data, err := json.Marshal(BuildProductSchema(r, "https://reviewlar.example/review/cafeteira"))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"@context": "https://schema.org/",
		"@type": "Product",
		"name": "Cafeteira Nespresso",
		"image": "https://img.example/n.jpg",
		"description": "Café rápido.",
		"brand": {"@type": "Brand", "name": "Nespresso"},
		"sku": "id-1",
		"offers": {
			"@type": "Offer",
			"url": "https://reviewlar.example/review/cafeteira",
			"priceCurrency": "BRL",
			"price": "549.00",
			"availability": "https://schema.org/InStock"
		},
		"aggregateRating": {"@type": "AggregateRating", "ratingValue": "4.3", "reviewCount": 1}
	}`, string(data))
}

func TestBuildProductSchema_WithoutOffersOrBrand(t *testing.T) {
	s := BuildProductSchema(&domain.Review{Rating: 5}, "u")
	assert.Nil(t, s.Offers)
	assert.Nil(t, s.Brand)
	assert.Equal(t, "5.0", s.AggregateRating.RatingValue)

	_, ok := LowestPrice(&domain.Review{})
	assert.False(t, ok)
}
