package sqlite

import (
	"context"

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
		var (
			usr                  domain.User
			createdAt, updatedAt string
			active               int
		)
		if err := rows.Scan(&usr.ID, &createdAt, &updatedAt, &usr.Email, &usr.FullName, &active); err != nil {
			return nil, remoteErr(err)
		}
		usr.CreatedAt = decodeTime(createdAt)
		usr.UpdatedAt = decodeTime(updatedAt)
		usr.IsActive = active != 0
		out = append(out, usr)
	}
	return out, remoteErr(rows.Err())
}

func (u userStore) SetActive(ctx context.Context, id string, active bool) error {
	return setActive(ctx, u.s.db, "users", domain.EntityUser, id, active)
}

func (u userStore) Delete(ctx context.Context, id string) error {
	res, err := u.s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return remoteErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound{Entity: domain.EntityUser, ID: id}
	}
	return nil
}

// SeedUser inserts a user row directly, for tests and fixtures.
func (s *Store) SeedUser(usr domain.User) error {
	_, err := s.db.Exec(
		`INSERT INTO users(id, created_at, updated_at, email, full_name, is_active)
		 VALUES(?, ?, ?, ?, ?, ?)`,
		usr.ID, encodeTime(usr.CreatedAt), encodeTime(usr.UpdatedAt),
		usr.Email, usr.FullName, boolInt(usr.IsActive))
	return remoteErr(err)
}
