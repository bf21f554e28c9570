package sqlite

import (
	"context"
	"time"

	"catalogcore/pkg/domain"
)

type orderStore struct{ s *Store }

func (o orderStore) List(ctx context.Context, orderBy string) ([]domain.Order, error) {
	rows, err := o.s.db.QueryContext(ctx,
		`SELECT id, created_at, updated_at, email, total, status
		 FROM orders ORDER BY `+orderClause("orders", orderBy))
	if err != nil {
		return nil, remoteErr(err)
	}
	defer rows.Close()
	var out []domain.Order
	for rows.Next() {
		var (
			ord                  domain.Order
			createdAt, updatedAt string
			status               string
		)
		if err := rows.Scan(&ord.ID, &createdAt, &updatedAt, &ord.Email, &ord.Total, &status); err != nil {
			return nil, remoteErr(err)
		}
		ord.CreatedAt = decodeTime(createdAt)
		ord.UpdatedAt = decodeTime(updatedAt)
		ord.Status = domain.OrderStatus(status)
		out = append(out, ord)
	}
	return out, remoteErr(rows.Err())
}

func (o orderStore) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	res, err := o.s.db.ExecContext(ctx,
		`UPDATE orders SET updated_at = ?, status = ? WHERE id = ?`,
		encodeTime(time.Now().UTC()), string(status), id)
	if err != nil {
		return remoteErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound{Entity: domain.EntityOrder, ID: id}
	}
	return nil
}

// SeedOrder inserts an order row directly, for tests and fixtures.
func (s *Store) SeedOrder(ord domain.Order) error {
	_, err := s.db.Exec(
		`INSERT INTO orders(id, created_at, updated_at, email, total, status)
		 VALUES(?, ?, ?, ?, ?, ?)`,
		ord.ID, encodeTime(ord.CreatedAt), encodeTime(ord.UpdatedAt),
		ord.Email, ord.Total, string(ord.Status))
	return remoteErr(err)
}
