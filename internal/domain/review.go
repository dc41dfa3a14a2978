package domain

import "time"

// AspectRatio is how the primary image is framed on the review page.
type AspectRatio string

const (
	AspectSquare   AspectRatio = "square"
	AspectVideo    AspectRatio = "video"
	AspectPortrait AspectRatio = "portrait"
)

// Normalize maps unknown or empty values to square.
func (a AspectRatio) Normalize() AspectRatio {
	switch a {
	case AspectSquare, AspectVideo, AspectPortrait:
		return a
	default:
		return AspectSquare
	}
}

// Review is the published record of a product review.
type Review struct {
	ID               string             `json:"id"`
	Slug             string             `json:"slug"`
	Title            string             `json:"title"`
	Category         string             `json:"category"`
	Rating           float64            `json:"rating"`
	Image            string             `json:"image"`
	Images           []string           `json:"images"`
	ImageAspectRatio AspectRatio        `json:"imageAspectRatio"`
	Summary          string             `json:"summary"`
	Content          string             `json:"content"`
	Pros             []string           `json:"pros"`
	Cons             []string           `json:"cons"`
	TechnicalSpecs   map[string]string  `json:"technicalSpecs"`
	Scores           map[string]float64 `json:"scores"`
	PriceRange       string             `json:"priceRange"`
	FAQ              []FAQ              `json:"faq"`
	Keywords         []string           `json:"keywords"`
	MetaDescription  string             `json:"metaDescription"`
	Offers           []Offer            `json:"offers"`
	PublishedAt      time.Time          `json:"publishedAt"`
}

// Offer is one place to buy the reviewed product. ID is positional and
// reassigned on every save.
type Offer struct {
	ID           string  `json:"id"`
	Store        string  `json:"store"`
	Price        float64 `json:"price"`
	OfferURL     string  `json:"offerUrl"`
	StoreLogoURL string  `json:"storeLogoUrl"`
}

// FAQ is a question and answer shown under the review.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// LowestOffer returns the cheapest offer, or false when there are none.
func (r *Review) LowestOffer() (Offer, bool) {
	if len(r.Offers) == 0 {
		return Offer{}, false
	}
	best := r.Offers[0]
	for _, o := range r.Offers[1:] {
		if o.Price < best.Price {
			best = o
		}
	}
	return best, true
}
