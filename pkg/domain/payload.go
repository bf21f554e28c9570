package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// IdempotencyKey identifies a single create attempt. Remote stores use it to
// de-duplicate resubmissions of a failed create.
type IdempotencyKey string

// NewIdempotencyKey returns a fresh key for one create attempt.
func NewIdempotencyKey() IdempotencyKey {
	return IdempotencyKey(uuid.NewString())
}

// CategoryPayload carries the writable fields of a category mutation.
type CategoryPayload struct {
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	IsActive  bool   `json:"is_active"`
	SortOrder int    `json:"sort_order"`
}

// Validate reports the first missing or malformed field.
func (p CategoryPayload) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("category name is required")
	}
	if strings.TrimSpace(p.Slug) == "" {
		return errors.New("category slug is required")
	}
	return nil
}

// ProductPayload carries the writable fields of a product mutation. Variant
// fields arrive pre-flattened from the edit session.
type ProductPayload struct {
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

// Validate reports the first missing or malformed field.
func (p ProductPayload) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("product name is required")
	}
	if strings.TrimSpace(p.Slug) == "" {
		return errors.New("product slug is required")
	}
	if strings.TrimSpace(p.SKU) == "" {
		return errors.New("product sku is required")
	}
	if strings.TrimSpace(p.CategoryID) == "" {
		return errors.New("product category is required")
	}
	if p.Price < 0 {
		return fmt.Errorf("product price must not be negative, got %v", p.Price)
	}
	if p.StockQuantity < 0 {
		return fmt.Errorf("product stock must not be negative, got %d", p.StockQuantity)
	}
	return nil
}
