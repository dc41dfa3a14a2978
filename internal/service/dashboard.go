package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fabricio2fb/reviewlar/internal/repository"
	"github.com/fabricio2fb/reviewlar/pkg/middleware"
	"github.com/fabricio2fb/reviewlar/pkg/pagination"
)

// Theme is the dashboard color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme reads the dashboard-theme cookie value. Anything but "dark" is
// light.
func ParseTheme(v string) Theme {
	if Theme(v) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// ViewContext carries the per-request presentation state of an admin page.
type ViewContext struct {
	Theme   Theme
	Session *middleware.Session
}

// DashboardRow is one line of the dashboard review table.
type DashboardRow struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Rating      float64   `json:"rating"`
	PublishedAt time.Time `json:"publishedAt"`
}

// Dashboard is the admin overview.
type Dashboard struct {
	User          string                          `json:"user"`
	Theme         Theme                           `json:"theme"`
	ReviewCount   int                             `json:"reviewCount"`
	CategoryCount int                             `json:"categoryCount"`
	Reviews       pagination.Result[DashboardRow] `json:"reviews"`
}

// DashboardService builds the admin overview.
type DashboardService struct {
	reviews    repository.ReviewRepository
	categories repository.CategoryRepository
}

// NewDashboardService creates a dashboard service.
func NewDashboardService(reviews repository.ReviewRepository, categories repository.CategoryRepository) *DashboardService {
	return &DashboardService{reviews: reviews, categories: categories}
}

// Overview returns counts and one page of the review table, narrowed to rows
// whose title or category contains q.
func (s *DashboardService) Overview(ctx context.Context, view ViewContext, q string, page pagination.Params) (*Dashboard, error) {
	if page.Page < 1 || page.PerPage < 1 {
		page = pagination.Default()
	}

	reviewCount, err := s.reviews.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}
	categoryCount, err := s.categories.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}
	all, err := s.reviews.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	needle := strings.ToLower(strings.TrimSpace(q))
	rows := make([]DashboardRow, 0, len(all))
	for _, r := range all {
		if needle != "" &&
			!strings.Contains(strings.ToLower(r.Title), needle) &&
			!strings.Contains(strings.ToLower(r.Category), needle) {
			continue
		}
		rows = append(rows, DashboardRow{
			ID:          r.ID,
			Slug:        r.Slug,
			Title:       r.Title,
			Category:    r.Category,
			Rating:      r.Rating,
			PublishedAt: r.PublishedAt,
		})
	}

	d := &Dashboard{
		Theme:         view.Theme,
		ReviewCount:   reviewCount,
		CategoryCount: categoryCount,
		Reviews:       pagination.Slice(rows, page),
	}
	if view.Session != nil {
		d.User = view.Session.Email
	}
	if d.Theme == "" {
		d.Theme = ThemeLight
	}
	return d, nil
}
