package service

import "strings"

// DefaultCatalog is the launch catalog. Local images are resolved against
// imageBaseURL, e.g. "http://127.0.0.1:8000/uploads".
func DefaultCatalog(imageBaseURL string) []ProductInput {
	base := strings.TrimRight(imageBaseURL, "/")
	local := func(name string) string {
		if base == "" {
			return "uploads/" + name
		}
		return base + "/" + name
	}
	apparel := []string{"S", "M", "L", "XL"}
	waist := []string{"30", "32", "34", "36"}

	return []ProductInput{
		{Name: "KOVA The Aspen Puffer - Green", Price: 5999, Category: "Jackets", Image: local("green-aspen.jpg"), Sizes: apparel, Collection: "Winter"},
		{Name: "KOVA The Aspen Puffer - Blue", Price: 5999, Category: "Jackets", Image: local("blue-aspen.jpeg"), Sizes: apparel, Collection: "Winter"},
		{Name: "KOVA The Aspen Puffer - Black", Price: 5999, Category: "Jackets", Image: local("black-aspen.jpg"), Sizes: apparel, Collection: "Winter"},
		{Name: "KOVA Merino Mock Neck - Green", Price: 2499, Category: "Sweater", Image: local("merino-green.jpg"), Sizes: apparel, Collection: "Winter"},
		{Name: "KOVA Merino Mock Neck - Blue", Price: 2499, Category: "Sweater", Image: local("merino-blue.jpg"), Sizes: apparel, Collection: "Winter"},
		{Name: "KOVA Merino Mock Neck - Beige", Price: 2499, Category: "Sweater", Image: local("merino-beige.jpg"), Sizes: apparel, Collection: "Winter"},
		{Name: "KOVA Glacier Cargo Pant - Green", Price: 3999, Category: "Pants", Image: local("green-cargo.jpg"), Sizes: waist, Collection: "Winter"},
		{Name: "KOVA Glacier Cargo Pant - Blue", Price: 3999, Category: "Pants", Image: local("cargo-blue.jpg"), Sizes: waist, Collection: "Winter"},
		{Name: "KOVA Glacier Cargo Pant - Black", Price: 3999, Category: "Pants", Image: local("black-cargo.jpg"), Sizes: waist, Collection: "Winter"},
		{
			Name:       "Oversized Street Tee - Black",
			Price:      1499,
			Category:   "T-Shirts",
			Image:      "https://images.unsplash.com/photo-1583743814966-8936f5b7be1a?q=80&w=1000&auto=format&fit=crop",
			Sizes:      []string{"S", "M", "L", "XL", "XXL"},
			Collection: "Essentials",
		},
		{
			Name:       "Heavyweight Cotton Tee - White",
			Price:      1499,
			Category:   "T-Shirts",
			Image:      "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?q=80&w=1000",
			Sizes:      apparel,
			Collection: "Essentials",
		},
		{
			Name:       "Urban Bomber Jacket",
			Price:      4999,
			Category:   "Jackets",
			Image:      "https://images.unsplash.com/photo-1591047139829-d91aecb6caea?q=80&w=1000",
			Sizes:      []string{"M", "L", "XL"},
			Collection: "Essentials",
		},
	}
}
