package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"catalogcore/pkg/domain"
)

type categoryStore struct{ s *Store }

func (c categoryStore) List(ctx context.Context, orderBy string) ([]domain.Category, error) {
	rows, err := c.s.db.QueryContext(ctx,
		`SELECT id, created_at, updated_at, name, slug, is_active, sort_order
		 FROM categories ORDER BY `+orderClause("categories", orderBy))
	if err != nil {
		return nil, remoteErr(err)
	}
	defer rows.Close()
	var out []domain.Category
	for rows.Next() {
		var cat domain.Category
		if err := rows.Scan(&cat.ID, &cat.CreatedAt, &cat.UpdatedAt,
			&cat.Name, &cat.Slug, &cat.IsActive, &cat.SortOrder); err != nil {
			return nil, remoteErr(err)
		}
		out = append(out, cat)
	}
	return out, remoteErr(rows.Err())
}

func (c categoryStore) Create(ctx context.Context, payload domain.CategoryPayload, key domain.IdempotencyKey) (domain.Category, error) {
	if id, ok, err := c.s.lookupCreateKey(ctx, key, domain.EntityCategory); err != nil {
		return domain.Category{}, remoteErr(err)
	} else if ok {
		return c.get(ctx, id)
	}
	now := time.Now().UTC()
	cat := domain.Category{
		Base:      domain.Base{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now},
		Name:      payload.Name,
		Slug:      payload.Slug,
		IsActive:  payload.IsActive,
		SortOrder: payload.SortOrder,
	}
	tx, err := c.s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Category{}, remoteErr(err)
	}
	defer tx.Rollback()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO categories(id, created_at, updated_at, name, slug, is_active, sort_order)
		 VALUES($1, $2, $3, $4, $5, $6, $7)`,
		cat.ID, cat.CreatedAt, cat.UpdatedAt, cat.Name, cat.Slug, cat.IsActive, cat.SortOrder)
	if err != nil {
		return domain.Category{}, remoteErr(err)
	}
	if err := c.s.recordCreateKey(ctx, tx, key, domain.EntityCategory, cat.ID); err != nil {
		return domain.Category{}, remoteErr(err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Category{}, remoteErr(err)
	}
	return cat, nil
}

func (c categoryStore) Update(ctx context.Context, id string, payload domain.CategoryPayload) (domain.Category, error) {
	res, err := c.s.db.ExecContext(ctx,
		`UPDATE categories SET updated_at = $1, name = $2, slug = $3, is_active = $4, sort_order = $5 WHERE id = $6`,
		time.Now().UTC(), payload.Name, payload.Slug, payload.IsActive, payload.SortOrder, id)
	if err != nil {
		return domain.Category{}, remoteErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Category{}, domain.ErrNotFound{Entity: domain.EntityCategory, ID: id}
	}
	return c.get(ctx, id)
}

func (c categoryStore) SetActive(ctx context.Context, id string, active bool) error {
	res, err := c.s.db.ExecContext(ctx,
		`UPDATE categories SET updated_at = $1, is_active = $2 WHERE id = $3`,
		time.Now().UTC(), active, id)
	if err != nil {
		return remoteErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound{Entity: domain.EntityCategory, ID: id}
	}
	return nil
}

func (c categoryStore) Delete(ctx context.Context, id string) error {
	res, err := c.s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return remoteErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound{Entity: domain.EntityCategory, ID: id}
	}
	return nil
}

func (c categoryStore) get(ctx context.Context, id string) (domain.Category, error) {
	var cat domain.Category
	err := c.s.db.QueryRowContext(ctx,
		`SELECT id, created_at, updated_at, name, slug, is_active, sort_order
		 FROM categories WHERE id = $1`, id).
		Scan(&cat.ID, &cat.CreatedAt, &cat.UpdatedAt, &cat.Name, &cat.Slug, &cat.IsActive, &cat.SortOrder)
	if err == sql.ErrNoRows {
		return domain.Category{}, domain.ErrNotFound{Entity: domain.EntityCategory, ID: id}
	}
	if err != nil {
		return domain.Category{}, remoteErr(err)
	}
	return cat, nil
}
