package domain

import "context"

// CategoryStore is the remote collaborator backing the category collection.
type CategoryStore interface {
	List(ctx context.Context, orderBy string) ([]Category, error)
	Create(ctx context.Context, payload CategoryPayload, key IdempotencyKey) (Category, error)
	Update(ctx context.Context, id string, payload CategoryPayload) (Category, error)
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

// ProductStore is the remote collaborator backing the product collection.
// ListByCategory doubles as the dependency check for category deletes.
type ProductStore interface {
	List(ctx context.Context, orderBy string) ([]Product, error)
	ListByCategory(ctx context.Context, categoryID string) ([]Product, error)
	Create(ctx context.Context, payload ProductPayload, key IdempotencyKey) (Product, error)
	Update(ctx context.Context, id string, payload ProductPayload) (Product, error)
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

// OrderStore is the remote collaborator backing the order collection.
type OrderStore interface {
	List(ctx context.Context, orderBy string) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, status OrderStatus) error
}

// UserStore is the remote collaborator backing the user collection.
type UserStore interface {
	List(ctx context.Context, orderBy string) ([]User, error)
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}
