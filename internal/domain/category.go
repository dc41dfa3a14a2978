package domain

// Category groups reviews. Slug is the key reviews reference.
type Category struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// DefaultCategories are seeded on first start.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Geladeira", Slug: "geladeira"},
		{Name: "Fogão", Slug: "fogao"},
		{Name: "Micro-ondas", Slug: "micro-ondas"},
		{Name: "Máquina de Lavar", Slug: "maquina-de-lavar"},
		{Name: "Air Fryer", Slug: "air-fryer"},
		{Name: "Cafeteira", Slug: "cafeteira"},
		{Name: "Liquidificador", Slug: "liquidificador"},
		{Name: "Televisão", Slug: "televisao"},
	}
}

// CategorySet answers membership questions about category slugs.
type CategorySet map[string]Category

// NewCategorySet indexes cats by slug.
func NewCategorySet(cats []Category) CategorySet {
	set := make(CategorySet, len(cats))
	for _, c := range cats {
		set[c.Slug] = c
	}
	return set
}

// Has reports whether slug names a known category.
func (s CategorySet) Has(slug string) bool {
	_, ok := s[slug]
	return ok
}
