package core

import (
	"context"
	"fmt"
	"time"

	"catalogcore/pkg/domain"
)

// CategoryController owns the category collection and executes its
// mutations against the remote store. Creates and updates reconcile the
// server's canonical representation into the collection after the call
// succeeds; status toggles write optimistically and roll back on failure;
// deletes are refused locally while dependent products exist.
type CategoryController struct {
	collection *Collection[domain.Category]
	remote     domain.CategoryStore
	products   domain.ProductStore
	gate       *mutationGate
	metrics    MetricsRecorder
	notifier   Notifier
}

// NewCategoryController constructs a controller over an empty collection.
// The products store is consulted for the delete dependency check. Nil
// metrics or notifier default to no-ops.
func NewCategoryController(remote domain.CategoryStore, products domain.ProductStore, metrics MetricsRecorder, notifier Notifier) *CategoryController {
	if metrics == nil {
		metrics = NopMetricsRecorder{}
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &CategoryController{
		collection: NewCollection[domain.Category](),
		remote:     remote,
		products:   products,
		gate:       newMutationGate(),
		metrics:    metrics,
		notifier:   notifier,
	}
}

// Collection exposes the underlying collection to the presentation layer
// and the filter engine.
func (c *CategoryController) Collection() *Collection[domain.Category] { return c.collection }

// Pending reports whether a mutation for id is awaiting its remote call.
func (c *CategoryController) Pending(id string) bool { return c.gate.pending(id) }

// Load seeds the collection from the remote store. Used once per page load.
func (c *CategoryController) Load(ctx context.Context, orderBy string) error {
	items, err := c.remote.List(ctx, orderBy)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	c.collection.ReplaceAll(items)
	return nil
}

// Create validates the payload and issues the remote create. Nothing is
// inserted optimistically: on failure the collection is untouched and the
// edit session stays open for a retry.
func (c *CategoryController) Create(ctx context.Context, payload domain.CategoryPayload) (domain.Category, error) {
	start := time.Now()
	if err := payload.Validate(); err != nil {
		return domain.Category{}, err
	}
	m, err := c.gate.begin("", MutationCreate)
	if err != nil {
		return domain.Category{}, err
	}
	c.gate.await(m)
	created, err := c.remote.Create(ctx, payload, domain.NewIdempotencyKey())
	if err != nil {
		c.gate.settle("", m, false)
		c.fail(ctx, "create", "Failed to save category", start)
		return domain.Category{}, err
	}
	c.collection.Upsert(created)
	c.gate.settle("", m, true)
	c.ok(ctx, "create", "Category created successfully", start)
	return created, nil
}

// Update issues the remote update and upserts the server's canonical
// representation on success. No optimistic write precedes the call.
func (c *CategoryController) Update(ctx context.Context, id string, payload domain.CategoryPayload) (domain.Category, error) {
	start := time.Now()
	if err := payload.Validate(); err != nil {
		return domain.Category{}, err
	}
	if _, ok := c.collection.Get(id); !ok {
		return domain.Category{}, domain.ErrNotFound{Entity: domain.EntityCategory, ID: id}
	}
	m, err := c.gate.begin(id, MutationUpdate)
	if err != nil {
		return domain.Category{}, err
	}
	c.gate.await(m)
	updated, err := c.remote.Update(ctx, id, payload)
	if err != nil {
		c.gate.settle(id, m, false)
		c.fail(ctx, "update", "Failed to save category", start)
		return domain.Category{}, err
	}
	c.collection.Upsert(updated)
	c.gate.settle(id, m, true)
	c.ok(ctx, "update", "Category updated successfully", start)
	return updated, nil
}

// ToggleActive flips the category's active flag in the collection before the
// remote call returns, restoring the pre-mutation snapshot if it fails.
func (c *CategoryController) ToggleActive(ctx context.Context, id string) (domain.Category, error) {
	start := time.Now()
	current, ok := c.collection.Get(id)
	if !ok {
		return domain.Category{}, domain.ErrNotFound{Entity: domain.EntityCategory, ID: id}
	}
	m, err := c.gate.begin(id, MutationToggle)
	if err != nil {
		return domain.Category{}, err
	}
	snapshot := current
	updated := current
	updated.IsActive = !current.IsActive
	c.collection.Upsert(updated)
	c.gate.await(m)
	if err := c.remote.SetActive(ctx, id, updated.IsActive); err != nil {
		c.collection.Upsert(snapshot)
		c.gate.settle(id, m, false)
		c.fail(ctx, "toggle", "Failed to update category status", start)
		return snapshot, err
	}
	c.gate.settle(id, m, true)
	c.ok(ctx, "toggle", fmt.Sprintf("Category %s successfully", activation(updated.IsActive)), start)
	return updated, nil
}

// Delete removes the category after checking for dependent products. While
// dependents exist the remote delete endpoint is never contacted and the
// blocking count is reported. A server-side referential rejection that the
// pre-check missed surfaces as the same dependents message.
func (c *CategoryController) Delete(ctx context.Context, id string) error {
	start := time.Now()
	if _, ok := c.collection.Get(id); !ok {
		return domain.ErrNotFound{Entity: domain.EntityCategory, ID: id}
	}
	m, err := c.gate.begin(id, MutationDelete)
	if err != nil {
		return err
	}
	c.gate.await(m)
	deps, err := c.products.ListByCategory(ctx, id)
	if err != nil {
		c.gate.settle(id, m, false)
		c.fail(ctx, "delete", "Failed to delete category", start)
		return fmt.Errorf("dependency check: %w", err)
	}
	if n := len(deps); n > 0 {
		c.gate.settle(id, m, false)
		derr := domain.DependentsError{Entity: domain.EntityCategory, ID: id, Count: n}
		c.notifier.Notify(Notification{
			Level:      NotifyError,
			Entity:     domain.EntityCategory,
			Operation:  "delete",
			Message:    fmt.Sprintf("Cannot delete category: %d products still reference it", n),
			Dependents: n,
		})
		c.metrics.Observe(ctx, "category.delete", false, time.Since(start))
		return derr
	}
	if err := c.remote.Delete(ctx, id); err != nil {
		c.gate.settle(id, m, false)
		if domain.IsForeignKeyViolation(err) {
			c.fail(ctx, "delete", "Cannot delete category: products still reference it", start)
		} else {
			c.fail(ctx, "delete", "Failed to delete category", start)
		}
		return err
	}
	c.collection.Remove(id)
	c.gate.settle(id, m, true)
	c.ok(ctx, "delete", "Category deleted successfully", start)
	return nil
}

func (c *CategoryController) ok(ctx context.Context, op, msg string, start time.Time) {
	c.notifier.Notify(Notification{Level: NotifySuccess, Entity: domain.EntityCategory, Operation: op, Message: msg})
	c.metrics.Observe(ctx, "category."+op, true, time.Since(start))
}

func (c *CategoryController) fail(ctx context.Context, op, msg string, start time.Time) {
	c.notifier.Notify(Notification{Level: NotifyError, Entity: domain.EntityCategory, Operation: op, Message: msg})
	c.metrics.Observe(ctx, "category."+op, false, time.Since(start))
}

func activation(active bool) string {
	if active {
		return "activated"
	}
	return "deactivated"
}
