package postgres

import (
	"context"
	"time"

	"catalogcore/pkg/domain"
)

type userStore struct{ s *Store }

func (u userStore) List(ctx context.Context, orderBy string) ([]domain.User, error) {
	rows, err := u.s.db.QueryContext(ctx,
		`SELECT id, created_at, updated_at, email, full_name, is_active
		 FROM users ORDER BY `+orderClause("users", orderBy))
	if err != nil {
		return nil, remoteErr(err)
	}
	defer rows.Close()
	var out []domain.User
	for rows.Next() {
		var usr domain.User
		if err := rows.Scan(&usr.ID, &usr.CreatedAt, &usr.UpdatedAt, &usr.Email, &usr.FullName, &usr.IsActive); err != nil {
			return nil, remoteErr(err)
		}
		out = append(out, usr)
	}
	return out, remoteErr(rows.Err())
}

func (u userStore) SetActive(ctx context.Context, id string, active bool) error {
	res, err := u.s.db.ExecContext(ctx,
		`UPDATE users SET updated_at = $1, is_active = $2 WHERE id = $3`,
		time.Now().UTC(), active, id)
	if err != nil {
		return remoteErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound{Entity: domain.EntityUser, ID: id}
	}
	return nil
}

func (u userStore) Delete(ctx context.Context, id string) error {
	res, err := u.s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return remoteErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound{Entity: domain.EntityUser, ID: id}
	}
	return nil
}
