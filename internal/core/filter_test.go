package core

import (
	"reflect"
	"testing"

	"catalogcore/pkg/domain"
)

func testProducts() []domain.Product {
	return []domain.Product{
		{Base: domain.Base{ID: "p1"}, Name: "Trail Shoe", SKU: "SHOE-1", Brand: "Acme", CategoryID: "c1", IsActive: true, StockQuantity: 12},
		{Base: domain.Base{ID: "p2"}, Name: "Road Shoe", SKU: "SHOE-2", Brand: "Bolt", CategoryID: "c1", IsActive: false, StockQuantity: 0},
		{Base: domain.Base{ID: "p3"}, Name: "Wool Sock", SKU: "SOCK-1", Brand: "Acme", CategoryID: "c2", IsActive: true, StockQuantity: 3},
	}
}

func TestZeroFiltersMatchEverything(t *testing.T) {
	products := testProducts()
	if got := FilterProducts(products, ProductFilter{}); len(got) != len(products) {
		t.Fatalf("zero product filter kept %d of %d", len(got), len(products))
	}
	categories := []domain.Category{{Base: domain.Base{ID: "c1"}, Name: "Shoes", Slug: "shoes"}}
	if got := FilterCategories(categories, CategoryFilter{}); len(got) != 1 {
		t.Fatalf("zero category filter kept %d of 1", len(got))
	}
	orders := []domain.Order{{Base: domain.Base{ID: "o1"}, Email: "a@b.c", Status: domain.OrderStatusPending}}
	if got := FilterOrders(orders, OrderFilter{}); len(got) != 1 {
		t.Fatalf("zero order filter kept %d of 1", len(got))
	}
}

func TestProductFilterConjunctive(t *testing.T) {
	f := ProductFilter{Query: "shoe", Status: StatusActive, CategoryID: "c1"}
	got := FilterProducts(testProducts(), f)
	if len(got) != 1 || got[0].ID != "p1" {
		t.Fatalf("expected only p1, got %+v", got)
	}
}

func TestProductFilterTextSearchCoversNameSKUBrand(t *testing.T) {
	products := testProducts()
	for query, want := range map[string][]string{
		"trail":  {"p1"},
		"sock-1": {"p3"},
		"bolt":   {"p2"},
		"SHOE":   {"p1", "p2"},
	} {
		var ids []string
		for _, p := range FilterProducts(products, ProductFilter{Query: query}) {
			ids = append(ids, p.ID)
		}
		if !reflect.DeepEqual(ids, want) {
			t.Fatalf("query %q matched %v, want %v", query, ids, want)
		}
	}
}

func TestProductFilterStockBuckets(t *testing.T) {
	products := testProducts()
	if got := FilterProducts(products, ProductFilter{Stock: StockIn}); len(got) != 2 {
		t.Fatalf("in_stock kept %d, want 2", len(got))
	}
	out := FilterProducts(products, ProductFilter{Stock: StockOut})
	if len(out) != 1 || out[0].ID != "p2" {
		t.Fatalf("out_of_stock = %+v, want p2 only", out)
	}
	low := FilterProducts(products, ProductFilter{Stock: StockLow, LowStockThreshold: 5})
	if len(low) != 1 || low[0].ID != "p3" {
		t.Fatalf("low_stock with threshold 5 = %+v, want p3 only", low)
	}
	// without a configured threshold the low-stock bucket has no defined
	// boundary and matches everything
	if got := FilterProducts(products, ProductFilter{Stock: StockLow}); len(got) != len(products) {
		t.Fatalf("low_stock without threshold kept %d, want %d", len(got), len(products))
	}
}

func TestFilterPassIsPureAndIdempotent(t *testing.T) {
	products := testProducts()
	f := ProductFilter{Query: "shoe", Status: StatusActive}
	first := FilterProducts(products, f)
	second := FilterProducts(products, f)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs produced different output: %+v vs %+v", first, second)
	}
	again := FilterProducts(first, f)
	if !reflect.DeepEqual(first, again) {
		t.Fatalf("filtering its own output changed it: %+v vs %+v", first, again)
	}
	if !reflect.DeepEqual(products, testProducts()) {
		t.Fatal("filter mutated its input")
	}
}

func TestCategoryFilterMatchesSlug(t *testing.T) {
	categories := []domain.Category{
		{Base: domain.Base{ID: "c1"}, Name: "Shoes", Slug: "footwear", IsActive: true},
		{Base: domain.Base{ID: "c2"}, Name: "Socks", Slug: "socks", IsActive: false},
	}
	got := FilterCategories(categories, CategoryFilter{Query: "footwear"})
	if len(got) != 1 || got[0].ID != "c1" {
		t.Fatalf("slug search = %+v, want c1", got)
	}
	got = FilterCategories(categories, CategoryFilter{Status: StatusInactive})
	if len(got) != 1 || got[0].ID != "c2" {
		t.Fatalf("inactive facet = %+v, want c2", got)
	}
}

func TestOrderFilterMatchesEmailAndID(t *testing.T) {
	orders := []domain.Order{
		{Base: domain.Base{ID: "ord-100"}, Email: "alice@example.com", Status: domain.OrderStatusPending},
		{Base: domain.Base{ID: "ord-200"}, Email: "bob@example.com", Status: domain.OrderStatusCompleted},
	}
	if got := FilterOrders(orders, OrderFilter{Query: "alice"}); len(got) != 1 || got[0].ID != "ord-100" {
		t.Fatalf("email search = %+v", got)
	}
	if got := FilterOrders(orders, OrderFilter{Query: "ord-200"}); len(got) != 1 || got[0].ID != "ord-200" {
		t.Fatalf("id search = %+v", got)
	}
	if got := FilterOrders(orders, OrderFilter{Status: domain.OrderStatusCompleted}); len(got) != 1 || got[0].ID != "ord-200" {
		t.Fatalf("status facet = %+v", got)
	}
}

func TestActiveCountAndReset(t *testing.T) {
	f := ProductFilter{Query: "shoe", Status: StatusActive, CategoryID: "c1", Stock: StockLow, LowStockThreshold: 5}
	if got := f.ActiveCount(); got != 4 {
		t.Fatalf("ActiveCount = %d, want 4", got)
	}
	reset := f.Reset()
	if got := reset.ActiveCount(); got != 0 {
		t.Fatalf("ActiveCount after Reset = %d, want 0", got)
	}
	if reset.LowStockThreshold != 5 {
		t.Fatalf("Reset dropped the low-stock threshold: %+v", reset)
	}
	cf := CategoryFilter{Query: "x", Status: StatusInactive}
	if got := cf.ActiveCount(); got != 2 {
		t.Fatalf("category ActiveCount = %d, want 2", got)
	}
	if got := cf.Reset().ActiveCount(); got != 0 {
		t.Fatalf("category ActiveCount after Reset = %d, want 0", got)
	}
	of := OrderFilter{Query: "x", Status: domain.OrderStatusPending}
	if got := of.ActiveCount(); got != 2 {
		t.Fatalf("order ActiveCount = %d, want 2", got)
	}
	if got := of.Reset().ActiveCount(); got != 0 {
		t.Fatalf("order ActiveCount after Reset = %d, want 0", got)
	}
}
