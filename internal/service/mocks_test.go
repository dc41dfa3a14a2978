package service

import (
	"context"
	"strings"

	"github.com/stretchr/testify/mock"

	"github.com/fabricio2fb/reviewlar/internal/domain"
	"github.com/fabricio2fb/reviewlar/internal/editor"
	"github.com/fabricio2fb/reviewlar/internal/search/memory"
	"github.com/fabricio2fb/reviewlar/pkg/logger"
)

// --- Mock repositories ---

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) List(ctx context.Context) ([]domain.Review, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepo) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepo) GetBySlug(ctx context.Context, slug string) (*domain.Review, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepo) ListByCategory(ctx context.Context, category string) ([]domain.Review, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepo) Create(ctx context.Context, review *domain.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *mockReviewRepo) Update(ctx context.Context, review *domain.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *mockReviewRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockReviewRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type mockCategoryRepo struct {
	mock.Mock
}

func (m *mockCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *mockCategoryRepo) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *mockCategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCategoryRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockCategoryRepo) EnsureExists(ctx context.Context, c *domain.Category) (bool, error) {
	args := m.Called(ctx, c)
	return args.Bool(0), args.Error(1)
}

// --- Mock events ---

type mockEvents struct {
	mock.Mock
}

func (m *mockEvents) ReviewCreated(ctx context.Context, r *domain.Review) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockEvents) ReviewUpdated(ctx context.Context, r *domain.Review) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockEvents) ReviewDeleted(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// --- Helpers ---

type fixture struct {
	reviews    *mockReviewRepo
	categories *mockCategoryRepo
	events     *mockEvents
	engine     *memory.Engine
	svc        *ReviewService
}

func newFixture() *fixture {
	f := &fixture{
		reviews:    new(mockReviewRepo),
		categories: new(mockCategoryRepo),
		events:     new(mockEvents),
		engine:     memory.New(),
	}
	cats := NewCategoryService(f.categories, logger.Discard())
	f.svc = NewReviewService(f.reviews, cats, f.engine, f.events, logger.Discard())
	return f
}

func (f *fixture) knownCategories() {
	f.categories.On("List", mock.Anything).Return(domain.DefaultCategories(), nil)
}

func validForm() *editor.Form {
	f := editor.NewForm()
	f.Title = "Air Fryer Mondial 4L"
	f.Category = "air-fryer"
	f.Rating = 4.5
	f.Image = "https://img.example/airfryer.jpg"
	f.Summary = "Boa capacidade e preço justo para o dia a dia."
	f.Content = strings.Repeat("Conteúdo detalhado do review. ", 5)
	f.Offers.Append(editor.Offer{Store: "Amazon", Price: 399, OfferURL: "https://amzn.example/x", StoreLogoURL: "https://amzn.example/logo.png"})
	return f
}
