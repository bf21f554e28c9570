package core

import (
	"context"
	"errors"
	"sync"

	"catalogcore/pkg/domain"
)

var errRemoteDown = errors.New("remote unavailable")

// fakeCategoryStore scripts remote category behavior for controller tests.
type fakeCategoryStore struct {
	mu         sync.Mutex
	listResult []domain.Category
	failNext   bool
	created    []domain.IdempotencyKey
	deletes    int
	// hook runs inside SetActive before the result is decided, so tests can
	// observe transient state mid-call.
	setActiveHook func()
}

func (f *fakeCategoryStore) List(context.Context, string) ([]domain.Category, error) {
	return append([]domain.Category(nil), f.listResult...), nil
}

func (f *fakeCategoryStore) Create(_ context.Context, payload domain.CategoryPayload, key domain.IdempotencyKey) (domain.Category, error) {
	f.mu.Lock()
	f.created = append(f.created, key)
	fail := f.failNext
	f.failNext = false
	f.mu.Unlock()
	if fail {
		return domain.Category{}, errRemoteDown
	}
	return domain.Category{
		Base:      domain.Base{ID: "cat-new"},
		Name:      payload.Name,
		Slug:      payload.Slug,
		IsActive:  payload.IsActive,
		SortOrder: payload.SortOrder,
	}, nil
}

func (f *fakeCategoryStore) Update(_ context.Context, id string, payload domain.CategoryPayload) (domain.Category, error) {
	f.mu.Lock()
	fail := f.failNext
	f.failNext = false
	f.mu.Unlock()
	if fail {
		return domain.Category{}, errRemoteDown
	}
	return domain.Category{
		Base:      domain.Base{ID: id},
		Name:      payload.Name,
		Slug:      payload.Slug,
		IsActive:  payload.IsActive,
		SortOrder: payload.SortOrder,
	}, nil
}

func (f *fakeCategoryStore) SetActive(context.Context, string, bool) error {
	if f.setActiveHook != nil {
		f.setActiveHook()
	}
	f.mu.Lock()
	fail := f.failNext
	f.failNext = false
	f.mu.Unlock()
	if fail {
		return errRemoteDown
	}
	return nil
}

func (f *fakeCategoryStore) Delete(context.Context, string) error {
	f.mu.Lock()
	f.deletes++
	fail := f.failNext
	f.failNext = false
	f.mu.Unlock()
	if fail {
		return domain.RemoteError{Code: domain.CodeForeignKeyViolation, Message: "referenced"}
	}
	return nil
}

// fakeProductStore only implements the calls the category controller makes;
// the rest are unreachable in these tests.
type fakeProductStore struct {
	byCategory map[string][]domain.Product
	listErr    error
}

func (f *fakeProductStore) List(context.Context, string) ([]domain.Product, error) {
	return nil, nil
}

func (f *fakeProductStore) ListByCategory(_ context.Context, categoryID string) ([]domain.Product, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.byCategory[categoryID], nil
}

func (f *fakeProductStore) Create(context.Context, domain.ProductPayload, domain.IdempotencyKey) (domain.Product, error) {
	return domain.Product{}, errors.New("not scripted")
}

func (f *fakeProductStore) Update(context.Context, string, domain.ProductPayload) (domain.Product, error) {
	return domain.Product{}, errors.New("not scripted")
}

func (f *fakeProductStore) SetActive(context.Context, string, bool) error { return nil }
func (f *fakeProductStore) Delete(context.Context, string) error          { return nil }

// fakeOrderStore scripts remote order behavior.
type fakeOrderStore struct {
	listResult []domain.Order
	failNext   bool
	updates    []domain.OrderStatus
}

func (f *fakeOrderStore) List(context.Context, string) ([]domain.Order, error) {
	return append([]domain.Order(nil), f.listResult...), nil
}

func (f *fakeOrderStore) UpdateStatus(_ context.Context, _ string, status domain.OrderStatus) error {
	f.updates = append(f.updates, status)
	if f.failNext {
		f.failNext = false
		return errRemoteDown
	}
	return nil
}

// fakeUserStore scripts remote user behavior.
type fakeUserStore struct {
	listResult []domain.User
	failNext   bool
}

func (f *fakeUserStore) List(context.Context, string) ([]domain.User, error) {
	return append([]domain.User(nil), f.listResult...), nil
}

func (f *fakeUserStore) SetActive(context.Context, string, bool) error {
	if f.failNext {
		f.failNext = false
		return errRemoteDown
	}
	return nil
}

func (f *fakeUserStore) Delete(context.Context, string) error {
	if f.failNext {
		f.failNext = false
		return errRemoteDown
	}
	return nil
}
