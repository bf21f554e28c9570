package postgres

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
			ord    domain.Order
			status string
		)
		if err := rows.Scan(&ord.ID, &ord.CreatedAt, &ord.UpdatedAt, &ord.Email, &ord.Total, &status); err != nil {
			return nil, remoteErr(err)
		}
		ord.Status = domain.OrderStatus(status)
		out = append(out, ord)
	}
	return out, remoteErr(rows.Err())
}

func (o orderStore) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	res, err := o.s.db.ExecContext(ctx,
		`UPDATE orders SET updated_at = $1, status = $2 WHERE id = $3`,
		time.Now().UTC(), string(status), id)
	if err != nil {
		return remoteErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound{Entity: domain.EntityOrder, ID: id}
	}
	return nil
}
