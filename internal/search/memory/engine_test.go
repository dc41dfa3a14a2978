package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabricio2fb/reviewlar/internal/domain"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func review(id, title, summary, category string, age int) domain.Review {
	return domain.Review{
		ID:          id,
		Title:       title,
		Summary:     summary,
		Category:    category,
		PublishedAt: base.Add(-time.Duration(age) * time.Hour),
	}
}

func seeded(t *testing.T) *Engine {
	t.Helper()
	e := New()
	require.NoError(t, e.BulkIndex(context.Background(), []domain.Review{
		review("1", "Air Fryer Mondial", "Frita sem óleo", "air-fryer", 3),
		review("2", "Geladeira Brastemp", "Frost free com bom espaço", "geladeira", 1),
		review("3", "Cafeteira Nespresso", "Café forte e rápido", "cafeteira", 2),
	}))
	return e
}

func ids(reviews []domain.Review) []string {
	out := make([]string, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, r.ID)
	}
	return out
}

func TestEngine_SearchFields(t *testing.T) {
	e := seeded(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"title case-insensitive", "AIR fryer", []string{"1"}},
		{"summary", "frost", []string{"2"}},
		{"category slug", "cafeteira", []string{"3"}},
		{"newest first", "a", []string{"2", "3", "1"}},
		{"no match", "televisão", []string{}},
		{"empty query", "   ", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Search(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestEngine_IndexReplacesAndDelete(t *testing.T) {
	e := seeded(t)
	ctx := context.Background()

	updated := review("1", "Fritadeira Elétrica", "Sem óleo", "air-fryer", 3)
	require.NoError(t, e.Index(ctx, &updated))

	got, err := e.Search(ctx, "mondial")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 3, e.Len())

	require.NoError(t, e.Delete(ctx, "1"))
	require.NoError(t, e.Delete(ctx, "missing"))
	assert.Equal(t, 2, e.Len())
}
