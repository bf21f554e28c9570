package core

import (
	"strings"

	"catalogcore/pkg/domain"
)

// StatusFilter is the three-valued active-flag predicate.
type StatusFilter string

// Status predicate values.
const (
	StatusAll      StatusFilter = "all"
	StatusActive   StatusFilter = "active"
	StatusInactive StatusFilter = "inactive"
)

func (f StatusFilter) matches(active bool) bool {
	switch f {
	case StatusActive:
		return active
	case StatusInactive:
		return !active
	default:
		return true
	}
}

// StockFilter buckets products by stock quantity.
type StockFilter string

// Stock predicate values. StockLow only takes effect when the filter carries
// an explicit threshold; no default threshold is defined.
const (
	StockAll StockFilter = "all"
	StockIn  StockFilter = "in_stock"
	StockOut StockFilter = "out_of_stock"
	StockLow StockFilter = "low_stock"
)

// textMatch reports whether any field contains the query, case-insensitive.
// An empty query matches everything.
func textMatch(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// CategoryFilter holds the independent predicates of the category view. All
// active predicates combine conjunctively.
type CategoryFilter struct {
	Query  string
	Status StatusFilter
}

// Matches reports whether the category satisfies every active predicate.
// Text search covers name and slug.
func (f CategoryFilter) Matches(c domain.Category) bool {
	return textMatch(f.Query, c.Name, c.Slug) && f.Status.matches(c.IsActive)
}

// ActiveCount returns the number of predicates not at their default.
func (f CategoryFilter) ActiveCount() int {
	n := 0
	if strings.TrimSpace(f.Query) != "" {
		n++
	}
	if f.Status != "" && f.Status != StatusAll {
		n++
	}
	return n
}

// Reset returns the filter with every predicate back at its default.
func (f CategoryFilter) Reset() CategoryFilter {
	return CategoryFilter{Status: StatusAll}
}

// ProductFilter holds the independent predicates of the product view.
type ProductFilter struct {
	Query      string
	Status     StatusFilter
	CategoryID string
	Stock      StockFilter
	// LowStockThreshold activates the low-stock bucket. Zero leaves the
	// bucket matching everything, since no threshold is defined for it.
	LowStockThreshold int
}

// Matches reports whether the product satisfies every active predicate.
// Text search covers name, SKU, and brand.
func (f ProductFilter) Matches(p domain.Product) bool {
	if !textMatch(f.Query, p.Name, p.SKU, p.Brand) {
		return false
	}
	if !f.Status.matches(p.IsActive) {
		return false
	}
	if f.CategoryID != "" && p.CategoryID != f.CategoryID {
		return false
	}
	switch f.Stock {
	case StockIn:
		return p.StockQuantity > 0
	case StockOut:
		return p.StockQuantity == 0
	case StockLow:
		if f.LowStockThreshold > 0 {
			return p.StockQuantity > 0 && p.StockQuantity <= f.LowStockThreshold
		}
		return true
	default:
		return true
	}
}

// ActiveCount returns the number of predicates not at their default.
func (f ProductFilter) ActiveCount() int {
	n := 0
	if strings.TrimSpace(f.Query) != "" {
		n++
	}
	if f.Status != "" && f.Status != StatusAll {
		n++
	}
	if f.CategoryID != "" {
		n++
	}
	if f.Stock != "" && f.Stock != StockAll {
		n++
	}
	return n
}

// Reset returns the filter with every predicate back at its default. The
// low-stock threshold is configuration, not a predicate, and survives.
func (f ProductFilter) Reset() ProductFilter {
	return ProductFilter{Status: StatusAll, Stock: StockAll, LowStockThreshold: f.LowStockThreshold}
}

// OrderFilter holds the independent predicates of the sales view.
type OrderFilter struct {
	Query  string
	Status domain.OrderStatus // empty means all
}

// Matches reports whether the order satisfies every active predicate. Text
// search covers customer email and order id.
func (f OrderFilter) Matches(o domain.Order) bool {
	if !textMatch(f.Query, o.Email, o.ID) {
		return false
	}
	return f.Status == "" || o.Status == f.Status
}

// ActiveCount returns the number of predicates not at their default.
func (f OrderFilter) ActiveCount() int {
	n := 0
	if strings.TrimSpace(f.Query) != "" {
		n++
	}
	if f.Status != "" {
		n++
	}
	return n
}

// Reset returns the filter with every predicate back at its default.
func (f OrderFilter) Reset() OrderFilter { return OrderFilter{} }

// FilterCategories returns the subsequence of items matching f, preserving
// order. The pass is pure: identical inputs yield identical output.
func FilterCategories(items []domain.Category, f CategoryFilter) []domain.Category {
	out := make([]domain.Category, 0, len(items))
	for _, it := range items {
		if f.Matches(it) {
			out = append(out, it)
		}
	}
	return out
}

// FilterProducts returns the subsequence of items matching f, preserving order.
func FilterProducts(items []domain.Product, f ProductFilter) []domain.Product {
	out := make([]domain.Product, 0, len(items))
	for _, it := range items {
		if f.Matches(it) {
			out = append(out, it)
		}
	}
	return out
}

// FilterOrders returns the subsequence of items matching f, preserving order.
func FilterOrders(items []domain.Order, f OrderFilter) []domain.Order {
	out := make([]domain.Order, 0, len(items))
	for _, it := range items {
		if f.Matches(it) {
			out = append(out, it)
		}
	}
	return out
}
