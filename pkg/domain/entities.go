// Package domain defines the catalog entities, mutation payloads, and
// remote-store contracts shared by the engine and its collaborators.
package domain

import "time"

// EntityType identifies the kind of record held in a collection.
type EntityType string

// Supported entity type identifiers used in notifications and storage buckets.
const (
	// EntityCategory identifies a catalog category record.
	EntityCategory EntityType = "category"
	// EntityProduct identifies a product record.
	EntityProduct EntityType = "product"
	// EntityOrder identifies a customer order record.
	EntityOrder EntityType = "order"
	// EntityUser identifies a staff/customer account record.
	EntityUser EntityType = "user"
)

// OrderStatus enumerates the order workflow states surfaced by the admin console.
type OrderStatus string

// Canonical order statuses.
const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	return s == OrderStatusPending || s == OrderStatusCompleted
}

// Record is implemented by every entity held in a collection.
type Record interface {
	RecordID() string
}

// Base contains common fields for all catalog records.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecordID returns the record's unique identifier.
func (b Base) RecordID() string { return b.ID }

// Category represents one catalog category.
type Category struct {
	Base
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	IsActive  bool   `json:"is_active"`
	SortOrder int    `json:"sort_order"`
}

// Product represents one catalog product, including its variant dimensions
// and per-option price overrides.
type Product struct {
	Base
	Name                string             `json:"name"`
	Slug                string             `json:"slug"`
	Description         string             `json:"description"`
	Price               float64            `json:"price"`
	ComparePrice        float64            `json:"compare_price"`
	FreeShipping        bool               `json:"free_shipping"`
	FreeGift            bool               `json:"free_gift"`
	SKU                 string             `json:"sku"`
	CategoryID          string             `json:"category_id"`
	Brand               string             `json:"brand"`
	MainImageURL        string             `json:"main_img_url"`
	ImageURLs           []string           `json:"image_urls"`
	VariantType1Name    string             `json:"variant_type1_name"`
	VariantType1Options []string           `json:"variant_type1_options"`
	VariantType2Name    string             `json:"variant_type2_name"`
	VariantType2Options []string           `json:"variant_type2_options"`
	VariantPrices       map[string]float64 `json:"variant_prices"`
	IsActive            bool               `json:"is_active"`
	IsNew               bool               `json:"is_new"`
	StockQuantity       int                `json:"stock_quantity"`
}

// VariantPrice returns the effective price for the given option label,
// falling back to the product's base price when no override exists.
func (p Product) VariantPrice(label string) float64 {
	if price, ok := p.VariantPrices[label]; ok {
		return price
	}
	return p.Price
}

// Order represents one customer order as shown in the sales view.
type Order struct {
	Base
	Email  string      `json:"email"`
	Total  float64     `json:"total"`
	Status OrderStatus `json:"status"`
}

// User represents one account record managed from the users view.
type User struct {
	Base
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	IsActive bool   `json:"is_active"`
}
