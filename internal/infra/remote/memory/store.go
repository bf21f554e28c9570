// Package memory implements an in-process remote catalog store. It mirrors
// the remote contract, including foreign-key enforcement and idempotent
// creates, and backs the memory storage driver and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"catalogcore/pkg/domain"
)

// Store holds all four remote collections behind one mutex.
type Store struct {
	mu         sync.RWMutex
	categories map[string]domain.Category
	products   map[string]domain.Product
	orders     map[string]domain.Order
	users      map[string]domain.User
	// created maps idempotency keys to the id they produced so a retried
	// create returns the original entity instead of inserting twice.
	created map[domain.IdempotencyKey]string
	nowFn   func() time.Time
}

// NewStore returns an empty in-memory remote catalog.
func NewStore() *Store {
	return &Store{
		categories: make(map[string]domain.Category),
		products:   make(map[string]domain.Product),
		orders:     make(map[string]domain.Order),
		users:      make(map[string]domain.User),
		created:    make(map[domain.IdempotencyKey]string),
		nowFn:      func() time.Time { return time.Now().UTC() },
	}
}

// SetNowFunc overrides the clock for tests.
func (s *Store) SetNowFunc(fn func() time.Time) { s.nowFn = fn }

// Categories returns the category view of the store.
func (s *Store) Categories() domain.CategoryStore { return categoryStore{s} }

// Products returns the product view of the store.
func (s *Store) Products() domain.ProductStore { return productStore{s} }

// Orders returns the order view of the store.
func (s *Store) Orders() domain.OrderStore { return orderStore{s} }

// Users returns the user view of the store.
func (s *Store) Users() domain.UserStore { return userStore{s} }

// SeedOrder inserts an order directly, bypassing the mutation contract.
func (s *Store) SeedOrder(o domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = s.nowFn()
	}
	s.orders[o.ID] = o
}

// SeedUser inserts a user directly, bypassing the mutation contract.
func (s *Store) SeedUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.nowFn()
	}
	s.users[u.ID] = u
}

type categoryStore struct{ s *Store }

func (cs categoryStore) List(_ context.Context, orderBy string) ([]domain.Category, error) {
	cs.s.mu.RLock()
	defer cs.s.mu.RUnlock()
	out := make([]domain.Category, 0, len(cs.s.categories))
	for _, c := range cs.s.categories {
		out = append(out, c)
	}
	switch orderBy {
	case "name":
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	case "sort_order":
		sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	default:
		sortNewestFirst(out, func(c domain.Category) time.Time { return c.CreatedAt })
	}
	return out, nil
}

func (cs categoryStore) Create(_ context.Context, payload domain.CategoryPayload, key domain.IdempotencyKey) (domain.Category, error) {
	if err := payload.Validate(); err != nil {
		return domain.Category{}, domain.RemoteError{Message: err.Error()}
	}
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()
	if id, seen := cs.s.created[key]; seen && key != "" {
		return cs.s.categories[id], nil
	}
	now := cs.s.nowFn()
	c := domain.Category{
		Base:      domain.Base{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now},
		Name:      payload.Name,
		Slug:      payload.Slug,
		IsActive:  payload.IsActive,
		SortOrder: payload.SortOrder,
	}
	cs.s.categories[c.ID] = c
	if key != "" {
		cs.s.created[key] = c.ID
	}
	return c, nil
}

func (cs categoryStore) Update(_ context.Context, id string, payload domain.CategoryPayload) (domain.Category, error) {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()
	c, ok := cs.s.categories[id]
	if !ok {
		return domain.Category{}, domain.RemoteError{Message: "category " + id + " not found"}
	}
	c.Name = payload.Name
	c.Slug = payload.Slug
	c.IsActive = payload.IsActive
	c.SortOrder = payload.SortOrder
	c.UpdatedAt = cs.s.nowFn()
	cs.s.categories[id] = c
	return c, nil
}

func (cs categoryStore) SetActive(_ context.Context, id string, active bool) error {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()
	c, ok := cs.s.categories[id]
	if !ok {
		return domain.RemoteError{Message: "category " + id + " not found"}
	}
	c.IsActive = active
	c.UpdatedAt = cs.s.nowFn()
	cs.s.categories[id] = c
	return nil
}

func (cs categoryStore) Delete(_ context.Context, id string) error {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()
	if _, ok := cs.s.categories[id]; !ok {
		return domain.RemoteError{Message: "category " + id + " not found"}
	}
	for _, p := range cs.s.products {
		if p.CategoryID == id {
			return domain.RemoteError{Code: domain.CodeForeignKeyViolation, Message: "category is referenced by products"}
		}
	}
	delete(cs.s.categories, id)
	return nil
}

type productStore struct{ s *Store }

func (ps productStore) List(_ context.Context, orderBy string) ([]domain.Product, error) {
	ps.s.mu.RLock()
	defer ps.s.mu.RUnlock()
	out := make([]domain.Product, 0, len(ps.s.products))
	for _, p := range ps.s.products {
		out = append(out, p)
	}
	switch orderBy {
	case "name":
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	default:
		sortNewestFirst(out, func(p domain.Product) time.Time { return p.CreatedAt })
	}
	return out, nil
}

func (ps productStore) ListByCategory(_ context.Context, categoryID string) ([]domain.Product, error) {
	ps.s.mu.RLock()
	defer ps.s.mu.RUnlock()
	var out []domain.Product
	for _, p := range ps.s.products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	sortNewestFirst(out, func(p domain.Product) time.Time { return p.CreatedAt })
	return out, nil
}

func (ps productStore) Create(_ context.Context, payload domain.ProductPayload, key domain.IdempotencyKey) (domain.Product, error) {
	if err := payload.Validate(); err != nil {
		return domain.Product{}, domain.RemoteError{Message: err.Error()}
	}
	ps.s.mu.Lock()
	defer ps.s.mu.Unlock()
	if id, seen := ps.s.created[key]; seen && key != "" {
		return ps.s.products[id], nil
	}
	if _, ok := ps.s.categories[payload.CategoryID]; !ok {
		return domain.Product{}, domain.RemoteError{Code: domain.CodeForeignKeyViolation, Message: "product references missing category"}
	}
	now := ps.s.nowFn()
	p := productFromPayload(payload)
	p.Base = domain.Base{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	ps.s.products[p.ID] = p
	if key != "" {
		ps.s.created[key] = p.ID
	}
	return p, nil
}

func (ps productStore) Update(_ context.Context, id string, payload domain.ProductPayload) (domain.Product, error) {
	ps.s.mu.Lock()
	defer ps.s.mu.Unlock()
	existing, ok := ps.s.products[id]
	if !ok {
		return domain.Product{}, domain.RemoteError{Message: "product " + id + " not found"}
	}
	if _, ok := ps.s.categories[payload.CategoryID]; !ok {
		return domain.Product{}, domain.RemoteError{Code: domain.CodeForeignKeyViolation, Message: "product references missing category"}
	}
	p := productFromPayload(payload)
	p.Base = existing.Base
	p.UpdatedAt = ps.s.nowFn()
	ps.s.products[id] = p
	return p, nil
}

func (ps productStore) SetActive(_ context.Context, id string, active bool) error {
	ps.s.mu.Lock()
	defer ps.s.mu.Unlock()
	p, ok := ps.s.products[id]
	if !ok {
		return domain.RemoteError{Message: "product " + id + " not found"}
	}
	p.IsActive = active
	p.UpdatedAt = ps.s.nowFn()
	ps.s.products[id] = p
	return nil
}

func (ps productStore) Delete(_ context.Context, id string) error {
	ps.s.mu.Lock()
	defer ps.s.mu.Unlock()
	if _, ok := ps.s.products[id]; !ok {
		return domain.RemoteError{Message: "product " + id + " not found"}
	}
	delete(ps.s.products, id)
	return nil
}

type orderStore struct{ s *Store }

func (ors orderStore) List(_ context.Context, orderBy string) ([]domain.Order, error) {
	ors.s.mu.RLock()
	defer ors.s.mu.RUnlock()
	out := make([]domain.Order, 0, len(ors.s.orders))
	for _, o := range ors.s.orders {
		out = append(out, o)
	}
	switch orderBy {
	case "total":
		sort.Slice(out, func(i, j int) bool { return out[i].Total < out[j].Total })
	default:
		sortNewestFirst(out, func(o domain.Order) time.Time { return o.CreatedAt })
	}
	return out, nil
}

func (ors orderStore) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) error {
	if !status.Valid() {
		return domain.RemoteError{Message: "unknown order status " + string(status)}
	}
	ors.s.mu.Lock()
	defer ors.s.mu.Unlock()
	o, ok := ors.s.orders[id]
	if !ok {
		return domain.RemoteError{Message: "order " + id + " not found"}
	}
	o.Status = status
	o.UpdatedAt = ors.s.nowFn()
	ors.s.orders[id] = o
	return nil
}

type userStore struct{ s *Store }

func (us userStore) List(_ context.Context, orderBy string) ([]domain.User, error) {
	us.s.mu.RLock()
	defer us.s.mu.RUnlock()
	out := make([]domain.User, 0, len(us.s.users))
	for _, u := range us.s.users {
		out = append(out, u)
	}
	switch orderBy {
	case "email":
		sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	default:
		sortNewestFirst(out, func(u domain.User) time.Time { return u.CreatedAt })
	}
	return out, nil
}

func (us userStore) SetActive(_ context.Context, id string, active bool) error {
	us.s.mu.Lock()
	defer us.s.mu.Unlock()
	u, ok := us.s.users[id]
	if !ok {
		return domain.RemoteError{Message: "user " + id + " not found"}
	}
	u.IsActive = active
	u.UpdatedAt = us.s.nowFn()
	us.s.users[id] = u
	return nil
}

func (us userStore) Delete(_ context.Context, id string) error {
	us.s.mu.Lock()
	defer us.s.mu.Unlock()
	if _, ok := us.s.users[id]; !ok {
		return domain.RemoteError{Message: "user " + id + " not found"}
	}
	delete(us.s.users, id)
	return nil
}

func productFromPayload(p domain.ProductPayload) domain.Product {
	return domain.Product{
		Name:                p.Name,
		Slug:                p.Slug,
		Description:         p.Description,
		Price:               p.Price,
		ComparePrice:        p.ComparePrice,
		FreeShipping:        p.FreeShipping,
		FreeGift:            p.FreeGift,
		SKU:                 p.SKU,
		CategoryID:          p.CategoryID,
		Brand:               p.Brand,
		MainImageURL:        p.MainImageURL,
		ImageURLs:           append([]string(nil), p.ImageURLs...),
		VariantType1Name:    p.VariantType1Name,
		VariantType1Options: append([]string(nil), p.VariantType1Options...),
		VariantType2Name:    p.VariantType2Name,
		VariantType2Options: append([]string(nil), p.VariantType2Options...),
		VariantPrices:       clonePrices(p.VariantPrices),
		IsActive:            p.IsActive,
		IsNew:               p.IsNew,
		StockQuantity:       p.StockQuantity,
	}
}

func clonePrices(in map[string]float64) map[string]float64 {
	if in == nil {
		return nil
	}
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func sortNewestFirst[T any](items []T, created func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return created(items[i]).After(created(items[j]))
	})
}
