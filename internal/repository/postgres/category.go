package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fabricio2fb/reviewlar/internal/domain"
	"github.com/fabricio2fb/reviewlar/pkg/database"
	apperrors "github.com/fabricio2fb/reviewlar/pkg/errors"
)

// CategoryRepository implements repository.CategoryRepository using PostgreSQL.
type CategoryRepository struct {
	pool database.DBTX
}

// NewCategoryRepository creates a new PostgreSQL-backed category repository.
func NewCategoryRepository(pool database.DBTX) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// List returns all categories ordered by name.
func (r *CategoryRepository) List(ctx context.Context) (_ []domain.Category, err error) {
	query := `SELECT slug, name FROM categories ORDER BY name`

	ctx, end := database.TraceQuery(ctx, "ListCategories", query)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err = rows.Scan(&c.Slug, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category rows: %w", err)
	}
	return categories, nil
}

// GetBySlug retrieves a category by slug.
func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (_ *domain.Category, err error) {
	query := `SELECT slug, name FROM categories WHERE slug = $1`

	ctx, end := database.TraceQuery(ctx, "GetCategoryBySlug", query)
	defer func() { end(err) }()

	var c domain.Category
	if err = r.pool.QueryRow(ctx, query, slug).Scan(&c.Slug, &c.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("category", slug)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// Create inserts a new category.
func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) (err error) {
	query := `INSERT INTO categories (slug, name) VALUES ($1, $2)`

	ctx, end := database.TraceQuery(ctx, "CreateCategory", query)
	defer func() { end(err) }()

	if _, err = r.pool.Exec(ctx, query, c.Slug, c.Name); err != nil {
		if database.IsUniqueViolation(err, "") {
			return apperrors.AlreadyExists("category", "slug", c.Slug)
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// EnsureExists inserts c unless its slug is taken.
func (r *CategoryRepository) EnsureExists(ctx context.Context, c *domain.Category) (_ bool, err error) {
	query := `INSERT INTO categories (slug, name) VALUES ($1, $2) ON CONFLICT (slug) DO NOTHING`

	ctx, end := database.TraceQuery(ctx, "EnsureCategory", query)
	defer func() { end(err) }()

	ct, err := r.pool.Exec(ctx, query, c.Slug, c.Name)
	if err != nil {
		return false, fmt.Errorf("ensure category: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

// Count returns the number of categories.
func (r *CategoryRepository) Count(ctx context.Context) (n int, err error) {
	query := `SELECT count(*) FROM categories`

	ctx, end := database.TraceQuery(ctx, "CountCategories", query)
	defer func() { end(err) }()

	if err = r.pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}
