package catalog

import (
	"strconv"

	"github.com/fabricio2fb/reviewlar/internal/domain"
)

const brandSpecKey = "Marca"

// ProductSchema is schema.org Product structured data for a review page.
type ProductSchema struct {
	Context         string          `json:"@context"`
	Type            string          `json:"@type"`
	Name            string          `json:"name"`
	Image           string          `json:"image"`
	Description     string          `json:"description"`
	Brand           *SchemaBrand    `json:"brand,omitempty"`
	SKU             string          `json:"sku,omitempty"`
	Offers          *SchemaOffer    `json:"offers,omitempty"`
	AggregateRating SchemaAggregate `json:"aggregateRating"`
}

type SchemaBrand struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type SchemaOffer struct {
	Type          string `json:"@type"`
	URL           string `json:"url"`
	PriceCurrency string `json:"priceCurrency"`
	Price         string `json:"price"`
	Availability  string `json:"availability"`
}

type SchemaAggregate struct {
	Type        string `json:"@type"`
	RatingValue string `json:"ratingValue"`
	ReviewCount int    `json:"reviewCount"`
}

// LowestPrice returns the cheapest offer price, or false without offers.
func LowestPrice(r *domain.Review) (float64, bool) {
	o, ok := r.LowestOffer()
	return o.Price, ok
}

// BuildProductSchema describes r for search engines. pageURL is the public
// address of the review page. The offer block is left out when there is no
// positive price.
func BuildProductSchema(r *domain.Review, pageURL string) ProductSchema {
	s := ProductSchema{
		Context:     "https://schema.org/",
		Type:        "Product",
		Name:        r.Title,
		Image:       r.Image,
		Description: r.Summary,
		SKU:         r.ID,
		AggregateRating: SchemaAggregate{
			Type:        "AggregateRating",
			RatingValue: strconv.FormatFloat(r.Rating, 'f', 1, 64),
			ReviewCount: 1,
		},
	}
	if brand := r.TechnicalSpecs[brandSpecKey]; brand != "" {
		s.Brand = &SchemaBrand{Type: "Brand", Name: brand}
	}
	if price, ok := LowestPrice(r); ok && price > 0 {
		s.Offers = &SchemaOffer{
			Type:          "Offer",
			URL:           pageURL,
			PriceCurrency: "BRL",
			Price:         strconv.FormatFloat(price, 'f', 2, 64),
			Availability:  "https://schema.org/InStock",
		}
	}
	return s
}
