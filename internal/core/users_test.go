package core

import (
	"context"
	"errors"
	"testing"

	"catalogcore/pkg/domain"
)

func TestUserToggleActiveRollsBack(t *testing.T) {
	remote := &fakeUserStore{listResult: []domain.User{{Base: domain.Base{ID: "u1"}, Email: "a@b.c", IsActive: true}}}
	c := NewUserController(remote, nil, nil)
	if err := c.Load(context.Background(), ""); err != nil {
		t.Fatalf("load: %v", err)
	}

	remote.failNext = true
	restored, err := c.ToggleActive(context.Background(), "u1")
	if !errors.Is(err, errRemoteDown) {
		t.Fatalf("err = %v", err)
	}
	if !restored.IsActive {
		t.Fatalf("rollback must return the snapshot, got %+v", restored)
	}
	got, _ := c.Collection().Get("u1")
	if !got.IsActive {
		t.Fatalf("collection after rollback = %+v", got)
	}

	updated, err := c.ToggleActive(context.Background(), "u1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if updated.IsActive {
		t.Fatalf("expected deactivation, got %+v", updated)
	}
}

func TestUserDelete(t *testing.T) {
	remote := &fakeUserStore{listResult: []domain.User{{Base: domain.Base{ID: "u1"}, Email: "a@b.c"}}}
	c := NewUserController(remote, nil, nil)
	if err := c.Load(context.Background(), ""); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := c.Delete(context.Background(), "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if c.Collection().Len() != 0 {
		t.Fatalf("collection after delete = %d items", c.Collection().Len())
	}
	var nf domain.ErrNotFound
	if err := c.Delete(context.Background(), "u1"); !errors.As(err, &nf) {
		t.Fatalf("second delete err = %v, want not-found", err)
	}
}
