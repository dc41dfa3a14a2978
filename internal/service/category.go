package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fabricio2fb/reviewlar/internal/domain"
	"github.com/fabricio2fb/reviewlar/internal/repository"
	apperrors "github.com/fabricio2fb/reviewlar/pkg/errors"
	"github.com/fabricio2fb/reviewlar/pkg/slug"
)

// CategoryService manages review categories.
type CategoryService struct {
	repo   repository.CategoryRepository
	logger *slog.Logger
}

// NewCategoryService creates a category service.
func NewCategoryService(repo repository.CategoryRepository, logger *slog.Logger) *CategoryService {
	return &CategoryService{repo: repo, logger: logger}
}

// CreateCategoryInput holds the parameters for creating a category. Slug is
// derived from Name when empty.
type CreateCategoryInput struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// List returns every category ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	cats, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// Get returns one category.
func (s *CategoryService) Get(ctx context.Context, slug string) (*domain.Category, error) {
	c, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// Set returns the known category slugs, for form validation.
func (s *CategoryService) Set(ctx context.Context) (domain.CategorySet, error) {
	cats, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return domain.NewCategorySet(cats), nil
}

// Create adds a category.
func (s *CategoryService) Create(ctx context.Context, input *CreateCategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.InvalidInput("category name is required")
	}
	source := input.Slug
	if strings.TrimSpace(source) == "" {
		source = name
	}
	c := &domain.Category{Name: name, Slug: slug.Generate(source)}
	if c.Slug == "" {
		return nil, apperrors.InvalidInput("category slug must contain letters or digits")
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.logger.InfoContext(ctx, "category created", slog.String("slug", c.Slug))
	return c, nil
}

// Seed inserts the default categories that are missing and returns how many
// were added. Running it again adds nothing.
func (s *CategoryService) Seed(ctx context.Context) (int, error) {
	added := 0
	for _, c := range domain.DefaultCategories() {
		ok, err := s.repo.EnsureExists(ctx, &c)
		if err != nil {
			return added, fmt.Errorf("seed category %s: %w", c.Slug, err)
		}
		if ok {
			added++
		}
	}
	if added > 0 {
		s.logger.InfoContext(ctx, "default categories seeded", slog.Int("added", added))
	}
	return added, nil
}
