package core

import (
	"context"
	"errors"
	"math"
	"testing"

	"catalogcore/pkg/domain"
)

func order(id string, status domain.OrderStatus, total float64) domain.Order {
	return domain.Order{Base: domain.Base{ID: id}, Email: id + "@example.com", Status: status, Total: total}
}

func TestOrderUpdateStatusOptimisticCommit(t *testing.T) {
	remote := &fakeOrderStore{listResult: []domain.Order{order("o1", domain.OrderStatusPending, 40)}}
	c := NewOrderController(remote, nil, nil)
	if err := c.Load(context.Background(), ""); err != nil {
		t.Fatalf("load: %v", err)
	}

	updated, err := c.UpdateStatus(context.Background(), "o1", domain.OrderStatusCompleted)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != domain.OrderStatusCompleted {
		t.Fatalf("updated = %+v", updated)
	}
	got, _ := c.Collection().Get("o1")
	if got.Status != domain.OrderStatusCompleted {
		t.Fatalf("collection = %+v", got)
	}
	if len(remote.updates) != 1 || remote.updates[0] != domain.OrderStatusCompleted {
		t.Fatalf("remote updates = %v", remote.updates)
	}
}

func TestOrderUpdateStatusRollsBackOnFailure(t *testing.T) {
	remote := &fakeOrderStore{listResult: []domain.Order{order("o1", domain.OrderStatusPending, 40)}, failNext: true}
	notifier := NewLogNotifier(nil)
	c := NewOrderController(remote, nil, notifier)
	if err := c.Load(context.Background(), ""); err != nil {
		t.Fatalf("load: %v", err)
	}

	restored, err := c.UpdateStatus(context.Background(), "o1", domain.OrderStatusCompleted)
	if !errors.Is(err, errRemoteDown) {
		t.Fatalf("err = %v", err)
	}
	if restored.Status != domain.OrderStatusPending {
		t.Fatalf("rollback must return the snapshot, got %+v", restored)
	}
	got, _ := c.Collection().Get("o1")
	if got.Status != domain.OrderStatusPending {
		t.Fatalf("collection after rollback = %+v", got)
	}
	entries := notifier.Entries()
	if len(entries) != 1 || entries[0].Level != NotifyError {
		t.Fatalf("notifications = %+v", entries)
	}
}

func TestOrderUpdateStatusRejectsUnknownStatus(t *testing.T) {
	remote := &fakeOrderStore{listResult: []domain.Order{order("o1", domain.OrderStatusPending, 40)}}
	c := NewOrderController(remote, nil, nil)
	if err := c.Load(context.Background(), ""); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := c.UpdateStatus(context.Background(), "o1", "shipped"); err == nil {
		t.Fatal("expected rejection of unknown status")
	}
	if len(remote.updates) != 0 {
		t.Fatalf("remote must not be contacted, got %v", remote.updates)
	}
}

func TestOrderStats(t *testing.T) {
	remote := &fakeOrderStore{listResult: []domain.Order{
		order("o1", domain.OrderStatusPending, 10),
		order("o2", domain.OrderStatusCompleted, 25.50),
		order("o3", domain.OrderStatusCompleted, 14.50),
		order("o4", domain.OrderStatusPending, 99),
	}}
	c := NewOrderController(remote, nil, nil)
	if err := c.Load(context.Background(), ""); err != nil {
		t.Fatalf("load: %v", err)
	}
	stats := c.Stats()
	if stats.Pending != 2 || stats.Completed != 2 {
		t.Fatalf("stats = %+v", stats)
	}
	if math.Abs(stats.Revenue-40) > 1e-9 {
		t.Fatalf("revenue = %v, want 40 (completed orders only)", stats.Revenue)
	}
}
