package core

import (
	"context"
	"fmt"
	"time"

	"catalogcore/pkg/domain"
)

// OrderController owns the order collection. Its only mutation is the status
// update, which is applied optimistically before the remote call and rolled
// back to the pre-mutation snapshot on failure.
type OrderController struct {
	collection *Collection[domain.Order]
	remote     domain.OrderStore
	gate       *mutationGate
	metrics    MetricsRecorder
	notifier   Notifier
}

// NewOrderController constructs a controller over an empty collection.
func NewOrderController(remote domain.OrderStore, metrics MetricsRecorder, notifier Notifier) *OrderController {
	if metrics == nil {
		metrics = NopMetricsRecorder{}
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &OrderController{
		collection: NewCollection[domain.Order](),
		remote:     remote,
		gate:       newMutationGate(),
		metrics:    metrics,
		notifier:   notifier,
	}
}

// Collection exposes the underlying collection.
func (c *OrderController) Collection() *Collection[domain.Order] { return c.collection }

// Pending reports whether a mutation for id is awaiting its remote call.
func (c *OrderController) Pending(id string) bool { return c.gate.pending(id) }

// Load seeds the collection from the remote store.
func (c *OrderController) Load(ctx context.Context, orderBy string) error {
	items, err := c.remote.List(ctx, orderBy)
	if err != nil {
		return fmt.Errorf("list orders: %w", err)
	}
	c.collection.ReplaceAll(items)
	return nil
}

// UpdateStatus moves the order to the new status in the collection before
// the remote call returns. On failure the previous status is restored.
func (c *OrderController) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	start := time.Now()
	if !status.Valid() {
		return domain.Order{}, fmt.Errorf("unknown order status %q", status)
	}
	current, ok := c.collection.Get(id)
	if !ok {
		return domain.Order{}, domain.ErrNotFound{Entity: domain.EntityOrder, ID: id}
	}
	m, err := c.gate.begin(id, MutationToggle)
	if err != nil {
		return domain.Order{}, err
	}
	snapshot := current
	updated := current
	updated.Status = status
	c.collection.Upsert(updated)
	c.gate.await(m)
	if err := c.remote.UpdateStatus(ctx, id, status); err != nil {
		c.collection.Upsert(snapshot)
		c.gate.settle(id, m, false)
		c.notifier.Notify(Notification{Level: NotifyError, Entity: domain.EntityOrder, Operation: "status", Message: "Failed to update order status"})
		c.metrics.Observe(ctx, "order.status", false, time.Since(start))
		return snapshot, err
	}
	c.gate.settle(id, m, true)
	c.notifier.Notify(Notification{Level: NotifySuccess, Entity: domain.EntityOrder, Operation: "status", Message: fmt.Sprintf("Order status updated to %s", status)})
	c.metrics.Observe(ctx, "order.status", true, time.Since(start))
	return updated, nil
}

// OrderStats aggregates the sales figures shown above the order table.
type OrderStats struct {
	Pending   int     `json:"pending"`
	Completed int     `json:"completed"`
	Revenue   float64 `json:"revenue"`
}

// Stats computes order counts per status and total revenue over completed
// orders from the current collection.
func (c *OrderController) Stats() OrderStats {
	var stats OrderStats
	for _, o := range c.collection.Items() {
		switch o.Status {
		case domain.OrderStatusPending:
			stats.Pending++
		case domain.OrderStatusCompleted:
			stats.Completed++
			stats.Revenue += o.Total
		}
	}
	return stats
}
