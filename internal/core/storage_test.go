package core

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"catalogcore/pkg/domain"
)

func TestOpenRemoteCatalogMemoryDriver(t *testing.T) {
	t.Setenv("CATALOGCORE_STORAGE_DRIVER", "memory")
	catalog, err := OpenRemoteCatalog()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if catalog.Categories == nil || catalog.Products == nil || catalog.Orders == nil || catalog.Users == nil {
		t.Fatalf("incomplete catalog: %+v", catalog)
	}
}

func TestOpenRemoteCatalogSQLiteDriver(t *testing.T) {
	t.Setenv("CATALOGCORE_STORAGE_DRIVER", "sqlite")
	t.Setenv("CATALOGCORE_SQLITE_PATH", filepath.Join(t.TempDir(), "catalog.db"))
	catalog, err := OpenRemoteCatalog()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := catalog.Categories.List(context.Background(), ""); err != nil {
		t.Fatalf("list on fresh sqlite store: %v", err)
	}
}

func TestOpenRemoteCatalogUnknownDriver(t *testing.T) {
	t.Setenv("CATALOGCORE_STORAGE_DRIVER", "tape")
	if _, err := OpenRemoteCatalog(); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestConsoleEndToEndAgainstMemoryStore(t *testing.T) {
	t.Setenv("CATALOGCORE_STORAGE_DRIVER", "memory")
	catalog, err := OpenRemoteCatalog()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	notifier := NewLogNotifier(nil)
	console := NewConsole(catalog, NewExpvarMetricsRecorder(""), notifier)
	ctx := context.Background()

	cat, err := console.Categories.Create(ctx, domain.CategoryPayload{Name: "Shoes", Slug: "shoes", IsActive: true})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	prod, err := console.Products.Create(ctx, domain.ProductPayload{
		Name: "Trail Shoe", Slug: "trail-shoe", SKU: "SHOE-001", CategoryID: cat.ID, Price: 79.90, IsActive: true,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	// category delete must be refused while the product references it
	err = console.Categories.Delete(ctx, cat.ID)
	var deps domain.DependentsError
	if !errors.As(err, &deps) || deps.Count != 1 {
		t.Fatalf("delete err = %v, want DependentsError with count 1", err)
	}

	if err := console.Products.Delete(ctx, prod.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}
	if err := console.Categories.Delete(ctx, cat.ID); err != nil {
		t.Fatalf("delete category after dependents removed: %v", err)
	}
	if console.Categories.Collection().Len() != 0 {
		t.Fatal("expected empty category collection")
	}
}
