package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"catalogcore/pkg/domain"
)

func mustCreateCategory(t *testing.T, s *Store, name, slug string) domain.Category {
	t.Helper()
	c, err := s.Categories().Create(context.Background(), domain.CategoryPayload{Name: name, Slug: slug, IsActive: true}, domain.NewIdempotencyKey())
	if err != nil {
		t.Fatalf("create category %s: %v", name, err)
	}
	return c
}

func TestCategoryCRUD(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	c := mustCreateCategory(t, s, "Shoes", "shoes")

	updated, err := s.Categories().Update(ctx, c.ID, domain.CategoryPayload{Name: "Footwear", Slug: "footwear", IsActive: false, SortOrder: 3})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Footwear" || updated.IsActive || updated.SortOrder != 3 {
		t.Fatalf("updated = %+v", updated)
	}
	if err := s.Categories().SetActive(ctx, c.ID, true); err != nil {
		t.Fatalf("set active: %v", err)
	}
	items, err := s.Categories().List(ctx, "name")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || !items[0].IsActive {
		t.Fatalf("list = %+v", items)
	}
	if err := s.Categories().Delete(ctx, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Categories().Update(ctx, c.ID, domain.CategoryPayload{Name: "X", Slug: "x"}); err == nil {
		t.Fatal("expected error updating deleted category")
	}
}

func TestIdempotentCreateReturnsOriginal(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	key := domain.NewIdempotencyKey()
	payload := domain.CategoryPayload{Name: "Shoes", Slug: "shoes"}

	first, err := s.Categories().Create(ctx, payload, key)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	second, err := s.Categories().Create(ctx, payload, key)
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("retried create produced a new entity: %s vs %s", first.ID, second.ID)
	}
	items, _ := s.Categories().List(ctx, "")
	if len(items) != 1 {
		t.Fatalf("list = %d entities, want 1", len(items))
	}
}

func TestCategoryDeleteBlockedByProducts(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	cat := mustCreateCategory(t, s, "Shoes", "shoes")
	if _, err := s.Products().Create(ctx, domain.ProductPayload{
		Name: "Trail Shoe", Slug: "trail-shoe", SKU: "SHOE-1", CategoryID: cat.ID, Price: 10,
	}, domain.NewIdempotencyKey()); err != nil {
		t.Fatalf("create product: %v", err)
	}

	err := s.Categories().Delete(ctx, cat.ID)
	if !domain.IsForeignKeyViolation(err) {
		t.Fatalf("err = %v, want foreign-key violation", err)
	}
	var re domain.RemoteError
	if !errors.As(err, &re) || re.Code != domain.CodeForeignKeyViolation {
		t.Fatalf("err = %v, want code %s", err, domain.CodeForeignKeyViolation)
	}
}

func TestProductCreateRequiresExistingCategory(t *testing.T) {
	s := NewStore()
	_, err := s.Products().Create(context.Background(), domain.ProductPayload{
		Name: "Orphan", Slug: "orphan", SKU: "X-1", CategoryID: "ghost", Price: 5,
	}, domain.NewIdempotencyKey())
	if !domain.IsForeignKeyViolation(err) {
		t.Fatalf("err = %v, want foreign-key violation", err)
	}
}

func TestListOrderings(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	step := 0
	s.SetNowFunc(func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Minute)
	})

	mustCreateCategory(t, s, "Bravo", "bravo")
	mustCreateCategory(t, s, "Alpha", "alpha")

	byName, _ := s.Categories().List(ctx, "name")
	if byName[0].Name != "Alpha" {
		t.Fatalf("name ordering = %+v", byName)
	}
	newest, _ := s.Categories().List(ctx, "")
	if newest[0].Name != "Alpha" {
		t.Fatalf("default ordering must be newest first, got %+v", newest)
	}

	s.SeedOrder(domain.Order{Email: "a@b.c", Total: 30, Status: domain.OrderStatusPending})
	s.SeedOrder(domain.Order{Email: "b@b.c", Total: 10, Status: domain.OrderStatusCompleted})
	byTotal, _ := s.Orders().List(ctx, "total")
	if byTotal[0].Total != 10 {
		t.Fatalf("total ordering = %+v", byTotal)
	}
}

func TestOrderUpdateStatusValidation(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	s.SeedOrder(domain.Order{Base: domain.Base{ID: "o1"}, Email: "a@b.c", Status: domain.OrderStatusPending})

	if err := s.Orders().UpdateStatus(ctx, "o1", "shipped"); err == nil {
		t.Fatal("expected rejection of unknown status")
	}
	if err := s.Orders().UpdateStatus(ctx, "o1", domain.OrderStatusCompleted); err != nil {
		t.Fatalf("update status: %v", err)
	}
	orders, _ := s.Orders().List(ctx, "")
	if orders[0].Status != domain.OrderStatusCompleted {
		t.Fatalf("orders = %+v", orders)
	}
}

func TestUserLifecycle(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	s.SeedUser(domain.User{Base: domain.Base{ID: "u1"}, Email: "a@b.c", IsActive: true})

	if err := s.Users().SetActive(ctx, "u1", false); err != nil {
		t.Fatalf("set active: %v", err)
	}
	users, _ := s.Users().List(ctx, "email")
	if len(users) != 1 || users[0].IsActive {
		t.Fatalf("users = %+v", users)
	}
	if err := s.Users().Delete(ctx, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Users().Delete(ctx, "u1"); err == nil {
		t.Fatal("expected error deleting missing user")
	}
}
