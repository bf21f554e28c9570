package core

import (
	"strings"

	"catalogcore/pkg/domain"
)

// VariantDimension is one named axis of product options.
type VariantDimension struct {
	Name    string
	Options []string
}

// VariantMatrix stages up to two independent option dimensions and a sparse
// price override per option label while a product is being edited. It is
// private to one edit session and merged into the product payload only at
// submit time.
//
// Labels are not required to be unique; pricing for duplicate labels is
// ambiguous because the override map is keyed by label. Removing or renaming
// an option deliberately leaves its override in the map, matching the
// behavior of the stored product records.
type VariantMatrix struct {
	dims      [2]VariantDimension
	overrides map[string]float64
	basePrice float64
}

// NewVariantMatrix returns a matrix pricing unlabeled options at basePrice.
func NewVariantMatrix(basePrice float64) *VariantMatrix {
	return &VariantMatrix{overrides: make(map[string]float64), basePrice: basePrice}
}

// VariantMatrixFromProduct stages an existing product's variant fields for
// editing.
func VariantMatrixFromProduct(p domain.Product) *VariantMatrix {
	m := NewVariantMatrix(p.Price)
	m.dims[0] = VariantDimension{Name: p.VariantType1Name, Options: append([]string(nil), p.VariantType1Options...)}
	m.dims[1] = VariantDimension{Name: p.VariantType2Name, Options: append([]string(nil), p.VariantType2Options...)}
	for label, price := range p.VariantPrices {
		m.overrides[label] = price
	}
	return m
}

// SetBasePrice updates the fallback price.
func (m *VariantMatrix) SetBasePrice(price float64) { m.basePrice = price }

// SetDimensionName names one of the two dimensions. Out-of-range indexes are
// ignored.
func (m *VariantMatrix) SetDimensionName(dim int, name string) {
	if dim < 0 || dim >= len(m.dims) {
		return
	}
	m.dims[dim].Name = name
}

// AddOption appends an empty option slot to the dimension.
func (m *VariantMatrix) AddOption(dim int) {
	if dim < 0 || dim >= len(m.dims) {
		return
	}
	m.dims[dim].Options = append(m.dims[dim].Options, "")
}

// SetOption replaces the option label at the given position.
func (m *VariantMatrix) SetOption(dim, index int, label string) {
	if dim < 0 || dim >= len(m.dims) {
		return
	}
	opts := m.dims[dim].Options
	if index < 0 || index >= len(opts) {
		return
	}
	opts[index] = label
}

// RemoveOption deletes the option slot at the given position. Removal is
// positional, so duplicate labels behave independently, and any price
// override for the removed label is retained.
func (m *VariantMatrix) RemoveOption(dim, index int) {
	if dim < 0 || dim >= len(m.dims) {
		return
	}
	opts := m.dims[dim].Options
	if index < 0 || index >= len(opts) {
		return
	}
	m.dims[dim].Options = append(opts[:index], opts[index+1:]...)
}

// Options returns a copy of the dimension's option labels.
func (m *VariantMatrix) Options(dim int) []string {
	if dim < 0 || dim >= len(m.dims) {
		return nil
	}
	return append([]string(nil), m.dims[dim].Options...)
}

// DimensionName returns the dimension's name.
func (m *VariantMatrix) DimensionName(dim int) string {
	if dim < 0 || dim >= len(m.dims) {
		return ""
	}
	return m.dims[dim].Name
}

// SetPrice overrides the price for an option label.
func (m *VariantMatrix) SetPrice(label string, price float64) {
	m.overrides[label] = price
}

// PriceFor returns the effective price for a label: its override when one
// exists, the base price otherwise.
func (m *VariantMatrix) PriceFor(label string) float64 {
	if price, ok := m.overrides[label]; ok {
		return price
	}
	return m.basePrice
}

// FlattenedVariants is the matrix collapsed into entity payload fields.
type FlattenedVariants struct {
	Type1Name    string
	Type1Options []string
	Type2Name    string
	Type2Options []string
	Prices       map[string]float64
}

// Flatten collapses the matrix for submission. Blank and whitespace-only
// labels are dropped from the option lists; the price map is copied as-is,
// including overrides whose label no longer appears in either list.
func (m *VariantMatrix) Flatten() FlattenedVariants {
	prices := make(map[string]float64, len(m.overrides))
	for label, price := range m.overrides {
		prices[label] = price
	}
	return FlattenedVariants{
		Type1Name:    m.dims[0].Name,
		Type1Options: pruneBlank(m.dims[0].Options),
		Type2Name:    m.dims[1].Name,
		Type2Options: pruneBlank(m.dims[1].Options),
		Prices:       prices,
	}
}

func pruneBlank(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}
