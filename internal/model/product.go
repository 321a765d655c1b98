package model

import "time"

// Product represents an item in the storefront catalogue.
type Product struct {
	ID          string  `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description string  `json:"description" db:"description"`
	Price       float64 `json:"price" db:"price"`
	Category    string  `json:"category" db:"category"`
	Stock       int     `json:"stock" db:"stock"`
	Image       string  `json:"image" db:"image"`

	// RelatedProducts lists curated product IDs shown alongside this one.
	RelatedProducts []string  `json:"relatedProducts" db:"related_products"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}

// FeaturedProduct is a catalogue product with its live rating over approved reviews.
type FeaturedProduct struct {
	Product
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"reviewCount"`
}

// FeaturedProducts is the storefront landing selection.
type FeaturedProducts struct {
	Products []FeaturedProduct `json:"products"`
}
