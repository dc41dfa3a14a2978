package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabricio2fb/reviewlar/internal/domain"
	apperrors "github.com/fabricio2fb/reviewlar/pkg/errors"
)

func TestCategoryRepository_List(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewCategoryRepository(mock)

	mock.ExpectQuery("SELECT slug, name FROM categories ORDER BY name").
		WillReturnRows(pgxmock.NewRows([]string{"slug", "name"}).
			AddRow("air-fryer", "Air Fryer").
			AddRow("fogao", "Fogão"))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Category{{Slug: "air-fryer", Name: "Air Fryer"}, {Slug: "fogao", Name: "Fogão"}}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_GetBySlug_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewCategoryRepository(mock)

	mock.ExpectQuery("SELECT slug, name FROM categories WHERE slug").
		WithArgs("aspirador").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetBySlug(context.Background(), "aspirador")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_Create_Duplicate(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewCategoryRepository(mock)

	mock.ExpectExec("INSERT INTO categories").
		WithArgs("fogao", "Fogão").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "categories_pkey"})

	err := repo.Create(context.Background(), &domain.Category{Slug: "fogao", Name: "Fogão"})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_EnsureExists(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewCategoryRepository(mock)

	mock.ExpectExec("INSERT INTO categories .+ ON CONFLICT \\(slug\\) DO NOTHING").
		WithArgs("cafeteira", "Cafeteira").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO categories .+ ON CONFLICT \\(slug\\) DO NOTHING").
		WithArgs("cafeteira", "Cafeteira").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	c := &domain.Category{Slug: "cafeteira", Name: "Cafeteira"}
	added, err := repo.EnsureExists(context.Background(), c)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.EnsureExists(context.Background(), c)
	require.NoError(t, err)
	assert.False(t, added)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_Count(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewCategoryRepository(mock)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM categories").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(8))

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
