package core

import (
	"context"
	"fmt"
	"time"

	"catalogcore/pkg/domain"
)

// UserController owns the user collection. Accounts are created through the
// out-of-scope signup flow; the console only toggles activity and deletes.
type UserController struct {
	collection *Collection[domain.User]
	remote     domain.UserStore
	gate       *mutationGate
	metrics    MetricsRecorder
	notifier   Notifier
}

// NewUserController constructs a controller over an empty collection.
func NewUserController(remote domain.UserStore, metrics MetricsRecorder, notifier Notifier) *UserController {
	if metrics == nil {
		metrics = NopMetricsRecorder{}
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &UserController{
		collection: NewCollection[domain.User](),
		remote:     remote,
		gate:       newMutationGate(),
		metrics:    metrics,
		notifier:   notifier,
	}
}

// Collection exposes the underlying collection.
func (c *UserController) Collection() *Collection[domain.User] { return c.collection }

// Pending reports whether a mutation for id is awaiting its remote call.
func (c *UserController) Pending(id string) bool { return c.gate.pending(id) }

// Load seeds the collection from the remote store.
func (c *UserController) Load(ctx context.Context, orderBy string) error {
	items, err := c.remote.List(ctx, orderBy)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	c.collection.ReplaceAll(items)
	return nil
}

// ToggleActive flips the account's active flag optimistically, restoring the
// snapshot when the remote call fails.
func (c *UserController) ToggleActive(ctx context.Context, id string) (domain.User, error) {
	start := time.Now()
	current, ok := c.collection.Get(id)
	if !ok {
		return domain.User{}, domain.ErrNotFound{Entity: domain.EntityUser, ID: id}
	}
	m, err := c.gate.begin(id, MutationToggle)
	if err != nil {
		return domain.User{}, err
	}
	snapshot := current
	updated := current
	updated.IsActive = !current.IsActive
	c.collection.Upsert(updated)
	c.gate.await(m)
	if err := c.remote.SetActive(ctx, id, updated.IsActive); err != nil {
		c.collection.Upsert(snapshot)
		c.gate.settle(id, m, false)
		c.notifier.Notify(Notification{Level: NotifyError, Entity: domain.EntityUser, Operation: "toggle", Message: "Failed to update user status"})
		c.metrics.Observe(ctx, "user.toggle", false, time.Since(start))
		return snapshot, err
	}
	c.gate.settle(id, m, true)
	c.notifier.Notify(Notification{Level: NotifySuccess, Entity: domain.EntityUser, Operation: "toggle", Message: fmt.Sprintf("User %s successfully", activation(updated.IsActive))})
	c.metrics.Observe(ctx, "user.toggle", true, time.Since(start))
	return updated, nil
}

// Delete issues the remote delete and removes the account on success.
func (c *UserController) Delete(ctx context.Context, id string) error {
	start := time.Now()
	if _, ok := c.collection.Get(id); !ok {
		return domain.ErrNotFound{Entity: domain.EntityUser, ID: id}
	}
	m, err := c.gate.begin(id, MutationDelete)
	if err != nil {
		return err
	}
	c.gate.await(m)
	if err := c.remote.Delete(ctx, id); err != nil {
		c.gate.settle(id, m, false)
		c.notifier.Notify(Notification{Level: NotifyError, Entity: domain.EntityUser, Operation: "delete", Message: "Failed to delete user"})
		c.metrics.Observe(ctx, "user.delete", false, time.Since(start))
		return err
	}
	c.collection.Remove(id)
	c.gate.settle(id, m, true)
	c.notifier.Notify(Notification{Level: NotifySuccess, Entity: domain.EntityUser, Operation: "delete", Message: "User deleted successfully"})
	c.metrics.Observe(ctx, "user.delete", true, time.Since(start))
	return nil
}
