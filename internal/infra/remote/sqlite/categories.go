package sqlite

import (
	"context"
	"database/sql"
	"fmt"
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
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, remoteErr(err)
		}
		out = append(out, cat)
	}
	return out, remoteErr(rows.Err())
}

func (c categoryStore) Create(ctx context.Context, payload domain.CategoryPayload, key domain.IdempotencyKey) (domain.Category, error) {
	if id, ok, err := c.s.lookupCreateKey(key, domain.EntityCategory); err != nil {
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
		 VALUES(?, ?, ?, ?, ?, ?, ?)`,
		cat.ID, encodeTime(cat.CreatedAt), encodeTime(cat.UpdatedAt),
		cat.Name, cat.Slug, boolInt(cat.IsActive), cat.SortOrder)
	if err != nil {
		return domain.Category{}, remoteErr(err)
	}
	if err := c.s.recordCreateKey(tx, key, domain.EntityCategory, cat.ID); err != nil {
		return domain.Category{}, remoteErr(err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Category{}, remoteErr(err)
	}
	return cat, nil
}

func (c categoryStore) Update(ctx context.Context, id string, payload domain.CategoryPayload) (domain.Category, error) {
	res, err := c.s.db.ExecContext(ctx,
		`UPDATE categories SET updated_at = ?, name = ?, slug = ?, is_active = ?, sort_order = ? WHERE id = ?`,
		encodeTime(time.Now().UTC()), payload.Name, payload.Slug, boolInt(payload.IsActive), payload.SortOrder, id)
	if err != nil {
		return domain.Category{}, remoteErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Category{}, domain.ErrNotFound{Entity: domain.EntityCategory, ID: id}
	}
	return c.get(ctx, id)
}

func (c categoryStore) SetActive(ctx context.Context, id string, active bool) error {
	return setActive(ctx, c.s.db, "categories", domain.EntityCategory, id, active)
}

func (c categoryStore) Delete(ctx context.Context, id string) error {
	res, err := c.s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return remoteErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound{Entity: domain.EntityCategory, ID: id}
	}
	return nil
}

func (c categoryStore) get(ctx context.Context, id string) (domain.Category, error) {
	row := c.s.db.QueryRowContext(ctx,
		`SELECT id, created_at, updated_at, name, slug, is_active, sort_order
		 FROM categories WHERE id = ?`, id)
	cat, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return domain.Category{}, domain.ErrNotFound{Entity: domain.EntityCategory, ID: id}
	}
	if err != nil {
		return domain.Category{}, remoteErr(err)
	}
	return cat, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (domain.Category, error) {
	var (
		cat                  domain.Category
		createdAt, updatedAt string
		active               int
	)
	if err := row.Scan(&cat.ID, &createdAt, &updatedAt, &cat.Name, &cat.Slug, &active, &cat.SortOrder); err != nil {
		return domain.Category{}, err
	}
	cat.CreatedAt = decodeTime(createdAt)
	cat.UpdatedAt = decodeTime(updatedAt)
	cat.IsActive = active != 0
	return cat, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// setActive flips the is_active flag on any table carrying one.
func setActive(ctx context.Context, db *sql.DB, table string, entity domain.EntityType, id string, active bool) error {
	res, err := db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET updated_at = ?, is_active = ? WHERE id = ?`, table),
		encodeTime(time.Now().UTC()), boolInt(active), id)
	if err != nil {
		return remoteErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound{Entity: entity, ID: id}
	}
	return nil
}
