package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/fabricio2fb/reviewlar/internal/domain"
	"github.com/fabricio2fb/reviewlar/internal/record"
	"github.com/fabricio2fb/reviewlar/pkg/database"
	apperrors "github.com/fabricio2fb/reviewlar/pkg/errors"
)

const reviewSlugConstraint = "reviews_slug_key"

var reviewColumns = strings.Join(record.Columns, ", ")

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// List returns every review, newest first.
func (r *ReviewRepository) List(ctx context.Context) (_ []domain.Review, err error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews ORDER BY published_at DESC`, reviewColumns)

	ctx, end := database.TraceQuery(ctx, "ListReviews", query)
	defer func() { end(err) }()

	return r.queryReviews(ctx, query)
}

// ListByCategory returns the reviews of one category, newest first.
func (r *ReviewRepository) ListByCategory(ctx context.Context, category string) (_ []domain.Review, err error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews WHERE category = $1 ORDER BY published_at DESC`, reviewColumns)

	ctx, end := database.TraceQuery(ctx, "ListReviewsByCategory", query)
	defer func() { end(err) }()

	return r.queryReviews(ctx, query, category)
}

// GetByID retrieves a review by its identifier.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (_ *domain.Review, err error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews WHERE id = $1`, reviewColumns)

	ctx, end := database.TraceQuery(ctx, "GetReviewByID", query)
	defer func() { end(err) }()

	return r.scanReview(ctx, query, id)
}

// GetBySlug retrieves a review by its URL slug.
func (r *ReviewRepository) GetBySlug(ctx context.Context, slug string) (_ *domain.Review, err error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews WHERE slug = $1`, reviewColumns)

	ctx, end := database.TraceQuery(ctx, "GetReviewBySlug", query)
	defer func() { end(err) }()

	return r.scanReview(ctx, query, slug)
}

// Create inserts a new review.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) (err error) {
	row, err := record.ToRow(review)
	if err != nil {
		return fmt.Errorf("encode review: %w", err)
	}

	placeholders := make([]string, len(record.Columns))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf(`INSERT INTO reviews (%s) VALUES (%s)`, reviewColumns, strings.Join(placeholders, ", "))

	ctx, end := database.TraceQuery(ctx, "CreateReview", query)
	defer func() { end(err) }()

	if _, err = r.pool.Exec(ctx, query, row.Values()...); err != nil {
		return mapWriteError(err, review)
	}
	return nil
}

// Update replaces every column of an existing review except id and
// published_at.
func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) (err error) {
	row, err := record.ToRow(review)
	if err != nil {
		return fmt.Errorf("encode review: %w", err)
	}

	values := row.Values()
	var (
		sets []string
		args []any
	)
	for i, col := range record.Columns {
		if col == "id" || col == "published_at" {
			continue
		}
		args = append(args, values[i])
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	args = append(args, row.ID)
	query := fmt.Sprintf(`UPDATE reviews SET %s, updated_at = now() WHERE id = $%d`, strings.Join(sets, ", "), len(args))

	ctx, end := database.TraceQuery(ctx, "UpdateReview", query)
	defer func() { end(err) }()

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, review)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("review", review.ID)
	}
	return nil
}

// Delete removes a review permanently.
func (r *ReviewRepository) Delete(ctx context.Context, id string) (err error) {
	query := `DELETE FROM reviews WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "DeleteReview", query)
	defer func() { end(err) }()

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("review", id)
	}
	return nil
}

// Count returns the number of stored reviews.
func (r *ReviewRepository) Count(ctx context.Context) (n int, err error) {
	query := `SELECT count(*) FROM reviews`

	ctx, end := database.TraceQuery(ctx, "CountReviews", query)
	defer func() { end(err) }()

	if err = r.pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}
	return n, nil
}

func (r *ReviewRepository) queryReviews(ctx context.Context, query string, args ...any) ([]domain.Review, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		var row record.Row
		if err := rows.Scan(row.Targets()...); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		review, err := record.FromRow(&row)
		if err != nil {
			return nil, fmt.Errorf("decode review %s: %w", row.ID, err)
		}
		reviews = append(reviews, *review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}
	return reviews, nil
}

func (r *ReviewRepository) scanReview(ctx context.Context, query string, arg string) (*domain.Review, error) {
	var row record.Row
	if err := r.pool.QueryRow(ctx, query, arg).Scan(row.Targets()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("review", arg)
		}
		return nil, fmt.Errorf("get review: %w", err)
	}

	review, err := record.FromRow(&row)
	if err != nil {
		return nil, fmt.Errorf("decode review %s: %w", row.ID, err)
	}
	return review, nil
}

func mapWriteError(err error, review *domain.Review) error {
	switch {
	case database.IsUniqueViolation(err, reviewSlugConstraint):
		return apperrors.DuplicateSlug(review.Slug)
	case database.IsUniqueViolation(err, ""):
		return apperrors.AlreadyExists("review", "id", review.ID)
	case database.IsForeignKeyViolation(err):
		return apperrors.InvalidInput(fmt.Sprintf("category %q does not exist", review.Category))
	}
	return fmt.Errorf("write review: %w", err)
}
