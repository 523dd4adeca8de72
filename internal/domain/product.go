package domain

// Product is a catalog entry.
type Product struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Price      float64  `json:"price"`
	Category   string   `json:"category"`
	Image      string   `json:"image"`
	Sizes      []string `json:"sizes"`
	Collection *string  `json:"collection"`
}

// ProductFilter narrows a catalog listing. Empty fields do not filter.
type ProductFilter struct {
	Search     string `json:"search,omitempty"`
	Collection string `json:"collection,omitempty"`
	Category   string `json:"category,omitempty"`
}
