package editor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabricio2fb/reviewlar/internal/domain"
	"github.com/fabricio2fb/reviewlar/pkg/validator"
)

var categories = domain.NewCategorySet(domain.DefaultCategories())

func validForm() *Form {
	f := NewForm()
	f.Title = "Air Fryer Mondial 4L"
	f.Category = "air-fryer"
	f.Rating = 4.5
	f.Image = "https://img.example/airfryer.jpg"
	f.Summary = "Boa capacidade e preço justo para o dia a dia."
	f.Content = strings.Repeat("Conteúdo detalhado do review. ", 5)
	f.Offers.Append(Offer{Store: "Amazon", Price: 399, OfferURL: "https://amzn.example/x", StoreLogoURL: "https://amzn.example/logo.png"})
	return f
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)
	var verr *validator.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Fields()
}

func TestValidate_ValidForm(t *testing.T) {
	assert.NoError(t, Validate(validForm(), categories))
}

func TestValidate_Boundaries(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *Form)
		field  string
		ok     bool
	}{
		{"rating 5.0 passes", func(f *Form) { f.Rating = 5.0 }, "rating", true},
		{"rating 5.01 fails", func(f *Form) { f.Rating = 5.01 }, "rating", false},
		{"rating below zero fails", func(f *Form) { f.Rating = -0.1 }, "rating", false},
		{"summary 20 chars passes", func(f *Form) { f.Summary = strings.Repeat("a", 20) }, "summary", true},
		{"summary 19 chars fails", func(f *Form) { f.Summary = strings.Repeat("a", 19) }, "summary", false},
		{"meta 160 chars passes", func(f *Form) { f.MetaDescription = strings.Repeat("m", 160) }, "metaDescription", true},
		{"meta 161 chars fails", func(f *Form) { f.MetaDescription = strings.Repeat("m", 161) }, "metaDescription", false},
		{"title 5 chars passes", func(f *Form) { f.Title = "Fogão" }, "title", true},
		{"title 4 chars fails", func(f *Form) { f.Title = "TV 4" }, "title", false},
		{"content 99 chars fails", func(f *Form) { f.Content = strings.Repeat("c", 99) }, "content", false},
		{"unknown aspect ratio fails", func(f *Form) { f.ImageAspectRatio = "wide" }, "imageAspectRatio", false},
		{"empty aspect ratio passes", func(f *Form) { f.ImageAspectRatio = "" }, "imageAspectRatio", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(f)
			err := Validate(f, categories)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.Contains(t, fieldErrors(t, err), tt.field)
		})
	}
}

func TestValidate_ReportsEveryFieldAtOnce(t *testing.T) {
	f := validForm()
	f.Title = "TV"
	f.Image = "not a url"
	f.FAQ.Append(FAQ{Question: "Por?", Answer: "Sim"})
	f.Scores.Append(Score{Key: "Design", Value: 11})
	f.Images.Append(Image{Value: "ftp//broken"})
	f.Offers.Append(Offer{Store: "", Price: -1, OfferURL: "x", StoreLogoURL: "https://ok.example/l.png"})

	fields := fieldErrors(t, Validate(f, categories))

	for _, key := range []string{
		"title", "image", "faq[0].question", "faq[0].answer", "scores[0].value",
		"images[0].value", "offers[1].store", "offers[1].price", "offers[1].offerUrl",
	} {
		assert.Contains(t, fields, key)
	}
	assert.NotContains(t, fields, "offers[0].store")
	assert.NotContains(t, fields, "offers[1].storeLogoUrl")
}

func TestValidate_TitleMustYieldSlug(t *testing.T) {
	f := validForm()
	f.Title = "!!!!!"

	err := Validate(f, categories)

	var verr *validator.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "must contain at least one letter or digit", verr.Fields()["title"])
	assert.Len(t, verr.Fields(), 1)
}

func TestValidate_Category(t *testing.T) {
	f := validForm()
	f.Category = ""
	assert.Equal(t, "is required", fieldErrors(t, Validate(f, categories))["category"])

	f.Category = "aspirador"
	assert.Equal(t, "must be a known category", fieldErrors(t, Validate(f, categories))["category"])
}
