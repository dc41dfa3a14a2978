// Command seed submits a handful of sample reviews through the admin API of
// a running server. Reviews whose slug already exists are skipped.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/fabricio2fb/reviewlar/pkg/errors"
	"github.com/fabricio2fb/reviewlar/pkg/httpclient"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type offer struct {
	Store        string  `json:"store"`
	Price        float64 `json:"price"`
	OfferURL     string  `json:"offerUrl"`
	StoreLogoURL string  `json:"storeLogoUrl"`
}

type spec struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type value struct {
	Value string `json:"value"`
}

type reviewForm struct {
	Title          string  `json:"title"`
	Category       string  `json:"category"`
	Rating         float64 `json:"rating"`
	Image          string  `json:"image"`
	Summary        string  `json:"summary"`
	Content        string  `json:"content"`
	PriceRange     string  `json:"priceRange"`
	Pros           []value `json:"pros"`
	Cons           []value `json:"cons"`
	TechnicalSpecs []spec  `json:"technicalSpecs"`
	Offers         []offer `json:"offers"`
}

type created struct {
	Data struct {
		ID   string `json:"id"`
		Slug string `json:"slug"`
	} `json:"data"`
}

func sampleReviews() []reviewForm {
	body := func(product string) string {
		return strings.Repeat("Testamos o "+product+" por três semanas na rotina de uma família de quatro pessoas. ", 3)
	}
	return []reviewForm{
		{
			Title:      "Geladeira Brastemp Frost Free 375L",
			Category:   "geladeira",
			Rating:     4.6,
			Image:      "https://images.reviewlar.com.br/geladeira-brastemp.jpg",
			Summary:    "Espaçosa, silenciosa e com bom consumo de energia para o tamanho.",
			Content:    body("geladeira Brastemp"),
			PriceRange: "R$ 3.000 - R$ 3.500",
			Pros:       []value{{"Silenciosa"}, {"Selo Procel A"}},
			Cons:       []value{{"Gavetas frágeis"}},
			TechnicalSpecs: []spec{
				{Key: "Marca", Value: "Brastemp"},
				{Key: "Capacidade", Value: "375L"},
				{Key: "Voltagem", Value: "127V"},
			},
			Offers: []offer{{
				Store: "Amazon", Price: 3199.90,
				OfferURL:     "https://www.amazon.com.br/dp/B0EXAMPLE1",
				StoreLogoURL: "https://images.reviewlar.com.br/logos/amazon.png",
			}},
		},
		{
			Title:      "Air Fryer Mondial Family 4L",
			Category:   "air-fryer",
			Rating:     4.2,
			Image:      "https://images.reviewlar.com.br/airfryer-mondial.jpg",
			Summary:    "Boa capacidade e preço justo para quem está começando.",
			Content:    body("air fryer Mondial"),
			PriceRange: "R$ 300 - R$ 400",
			Pros:       []value{{"Preço"}, {"Fácil de limpar"}},
			Cons:       []value{{"Cesto pequeno para família grande"}},
			TechnicalSpecs: []spec{
				{Key: "Marca", Value: "Mondial"},
				{Key: "Capacidade", Value: "4L"},
			},
			Offers: []offer{{
				Store: "Magalu", Price: 349.90,
				OfferURL:     "https://www.magazineluiza.com.br/p/EXAMPLE2",
				StoreLogoURL: "https://images.reviewlar.com.br/logos/magalu.png",
			}},
		},
		{
			Title:      "Cafeteira Nespresso Essenza Mini",
			Category:   "cafeteira",
			Rating:     4.4,
			Image:      "https://images.reviewlar.com.br/nespresso-essenza.jpg",
			Summary:    "Compacta e rápida, ideal para quem toma espresso todos os dias.",
			Content:    body("cafeteira Nespresso"),
			PriceRange: "R$ 400 - R$ 500",
			Pros:       []value{{"Compacta"}, {"Aquece em 25 segundos"}},
			Cons:       []value{{"Cápsulas caras"}},
			TechnicalSpecs: []spec{
				{Key: "Marca", Value: "Nespresso"},
				{Key: "Pressão", Value: "19 bar"},
			},
			Offers: []offer{{
				Store: "Amazon", Price: 449,
				OfferURL:     "https://www.amazon.com.br/dp/B0EXAMPLE3",
				StoreLogoURL: "https://images.reviewlar.com.br/logos/amazon.png",
			}},
		},
	}
}

func main() {
	log.SetFlags(log.Ltime | log.Lmsgprefix)
	log.SetPrefix("[seed] ")

	apiURL := strings.TrimRight(getEnv("REVIEWLAR_API_URL", "http://localhost:8080"), "/")
	secret := os.Getenv("REVIEWLAR_JWT_SECRET")
	if secret == "" {
		log.Fatal("REVIEWLAR_JWT_SECRET is required")
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "seed",
		"email": "seed@reviewlar.com.br",
		"aud":   getEnv("REVIEWLAR_JWT_AUDIENCE", "authenticated"),
		"exp":   time.Now().Add(10 * time.Minute).Unix(),
	}).SignedString([]byte(secret))
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := httpclient.New(httpclient.DefaultConfig(), http.Header{"Authorization": {"Bearer " + token}})

	var added, skipped int
	for _, form := range sampleReviews() {
		var out created
		err := client.PostJSON(ctx, apiURL+"/api/v1/admin/reviews", form, &out)
		switch {
		case err == nil:
			added++
			log.Printf("  Review: %s (id=%s)", out.Data.Slug, out.Data.ID)
		case errors.Is(err, apperrors.ErrConflict):
			skipped++
			log.Printf("  Skipped %q: already exists", form.Title)
		default:
			log.Fatalf("submit %q: %v", form.Title, err)
		}
	}
	log.Printf("Done: %d added, %d skipped.", added, skipped)
}
