package core

import (
	"context"
	"fmt"
	"time"

	"catalogcore/pkg/domain"
)

// ProductController owns the product collection and executes its mutations
// against the remote store. Semantics mirror CategoryController; product
// deletes have no local dependency pre-check.
type ProductController struct {
	collection *Collection[domain.Product]
	remote     domain.ProductStore
	gate       *mutationGate
	metrics    MetricsRecorder
	notifier   Notifier
}

// NewProductController constructs a controller over an empty collection.
func NewProductController(remote domain.ProductStore, metrics MetricsRecorder, notifier Notifier) *ProductController {
	if metrics == nil {
		metrics = NopMetricsRecorder{}
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &ProductController{
		collection: NewCollection[domain.Product](),
		remote:     remote,
		gate:       newMutationGate(),
		metrics:    metrics,
		notifier:   notifier,
	}
}

// Collection exposes the underlying collection.
func (c *ProductController) Collection() *Collection[domain.Product] { return c.collection }

// Pending reports whether a mutation for id is awaiting its remote call.
func (c *ProductController) Pending(id string) bool { return c.gate.pending(id) }

// Load seeds the collection from the remote store.
func (c *ProductController) Load(ctx context.Context, orderBy string) error {
	items, err := c.remote.List(ctx, orderBy)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}
	c.collection.ReplaceAll(items)
	return nil
}

// Create validates the payload and issues the remote create; the server
// entity is prepended on success and the collection is untouched on failure.
func (c *ProductController) Create(ctx context.Context, payload domain.ProductPayload) (domain.Product, error) {
	start := time.Now()
	if err := payload.Validate(); err != nil {
		return domain.Product{}, err
	}
	m, err := c.gate.begin("", MutationCreate)
	if err != nil {
		return domain.Product{}, err
	}
	c.gate.await(m)
	created, err := c.remote.Create(ctx, payload, domain.NewIdempotencyKey())
	if err != nil {
		c.gate.settle("", m, false)
		c.fail(ctx, "create", "Failed to save product", start)
		return domain.Product{}, err
	}
	c.collection.Upsert(created)
	c.gate.settle("", m, true)
	c.ok(ctx, "create", "Product created successfully", start)
	return created, nil
}

// Update issues the remote update and upserts the server's canonical
// representation on success.
func (c *ProductController) Update(ctx context.Context, id string, payload domain.ProductPayload) (domain.Product, error) {
	start := time.Now()
	if err := payload.Validate(); err != nil {
		return domain.Product{}, err
	}
	if _, ok := c.collection.Get(id); !ok {
		return domain.Product{}, domain.ErrNotFound{Entity: domain.EntityProduct, ID: id}
	}
	m, err := c.gate.begin(id, MutationUpdate)
	if err != nil {
		return domain.Product{}, err
	}
	c.gate.await(m)
	updated, err := c.remote.Update(ctx, id, payload)
	if err != nil {
		c.gate.settle(id, m, false)
		c.fail(ctx, "update", "Failed to save product", start)
		return domain.Product{}, err
	}
	c.collection.Upsert(updated)
	c.gate.settle(id, m, true)
	c.ok(ctx, "update", "Product updated successfully", start)
	return updated, nil
}

// ToggleActive flips the product's active flag optimistically, restoring the
// snapshot when the remote call fails.
func (c *ProductController) ToggleActive(ctx context.Context, id string) (domain.Product, error) {
	start := time.Now()
	current, ok := c.collection.Get(id)
	if !ok {
		return domain.Product{}, domain.ErrNotFound{Entity: domain.EntityProduct, ID: id}
	}
	m, err := c.gate.begin(id, MutationToggle)
	if err != nil {
		return domain.Product{}, err
	}
	snapshot := current
	updated := current
	updated.IsActive = !current.IsActive
	c.collection.Upsert(updated)
	c.gate.await(m)
	if err := c.remote.SetActive(ctx, id, updated.IsActive); err != nil {
		c.collection.Upsert(snapshot)
		c.gate.settle(id, m, false)
		c.fail(ctx, "toggle", "Failed to update product status", start)
		return snapshot, err
	}
	c.gate.settle(id, m, true)
	c.ok(ctx, "toggle", fmt.Sprintf("Product %s successfully", activation(updated.IsActive)), start)
	return updated, nil
}

// Delete issues the remote delete and removes the entity on success. A
// referential rejection surfaces with a dependents message, anything else
// with a generic one; the collection is untouched either way.
func (c *ProductController) Delete(ctx context.Context, id string) error {
	start := time.Now()
	if _, ok := c.collection.Get(id); !ok {
		return domain.ErrNotFound{Entity: domain.EntityProduct, ID: id}
	}
	m, err := c.gate.begin(id, MutationDelete)
	if err != nil {
		return err
	}
	c.gate.await(m)
	if err := c.remote.Delete(ctx, id); err != nil {
		c.gate.settle(id, m, false)
		if domain.IsForeignKeyViolation(err) {
			c.fail(ctx, "delete", "Cannot delete product: other records still reference it", start)
		} else {
			c.fail(ctx, "delete", "Failed to delete product", start)
		}
		return err
	}
	c.collection.Remove(id)
	c.gate.settle(id, m, true)
	c.ok(ctx, "delete", "Product deleted successfully", start)
	return nil
}

func (c *ProductController) ok(ctx context.Context, op, msg string, start time.Time) {
	c.notifier.Notify(Notification{Level: NotifySuccess, Entity: domain.EntityProduct, Operation: op, Message: msg})
	c.metrics.Observe(ctx, "product."+op, true, time.Since(start))
}

func (c *ProductController) fail(ctx context.Context, op, msg string, start time.Time) {
	c.notifier.Notify(Notification{Level: NotifyError, Entity: domain.EntityProduct, Operation: op, Message: msg})
	c.metrics.Observe(ctx, "product."+op, false, time.Since(start))
}
