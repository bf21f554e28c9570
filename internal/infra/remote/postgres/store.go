// Package postgres implements the remote catalog store on PostgreSQL. The
// schema is applied on startup and foreign-key violations pass through with
// their server-assigned SQLSTATE.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"catalogcore/pkg/domain"
)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/catalogcore?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store wraps the database handle and exposes per-kind remote views.
type Store struct {
	db *sql.DB
}

var ddl = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		name TEXT NOT NULL,
		slug TEXT NOT NULL,
		is_active BOOLEAN NOT NULL,
		sort_order INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		name TEXT NOT NULL,
		slug TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price DOUBLE PRECISION NOT NULL,
		compare_price DOUBLE PRECISION NOT NULL DEFAULT 0,
		free_shipping BOOLEAN NOT NULL DEFAULT FALSE,
		free_gift BOOLEAN NOT NULL DEFAULT FALSE,
		sku TEXT NOT NULL,
		category_id TEXT NOT NULL REFERENCES categories(id),
		brand TEXT NOT NULL DEFAULT '',
		main_img_url TEXT NOT NULL DEFAULT '',
		image_urls JSONB NOT NULL DEFAULT '[]',
		variant_type1_name TEXT NOT NULL DEFAULT '',
		variant_type1_options JSONB NOT NULL DEFAULT '[]',
		variant_type2_name TEXT NOT NULL DEFAULT '',
		variant_type2_options JSONB NOT NULL DEFAULT '[]',
		variant_prices JSONB NOT NULL DEFAULT '{}',
		is_active BOOLEAN NOT NULL,
		is_new BOOLEAN NOT NULL DEFAULT FALSE,
		stock_quantity INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		email TEXT NOT NULL,
		total DOUBLE PRECISION NOT NULL,
		status TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		email TEXT NOT NULL,
		full_name TEXT NOT NULL,
		is_active BOOLEAN NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS create_keys (
		key TEXT PRIMARY KEY,
		entity TEXT NOT NULL,
		id TEXT NOT NULL
	)`,
}

// NewStore opens a PostgreSQL-backed store using the provided DSN (falls back
// to defaultDSN) and applies the schema.
func NewStore(dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	for _, stmt := range ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Categories returns the category view of the store.
func (s *Store) Categories() domain.CategoryStore { return categoryStore{s} }

// Products returns the product view of the store.
func (s *Store) Products() domain.ProductStore { return productStore{s} }

// Orders returns the order view of the store.
func (s *Store) Orders() domain.OrderStore { return orderStore{s} }

// Users returns the user view of the store.
func (s *Store) Users() domain.UserStore { return userStore{s} }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// remoteErr maps driver failures to the structured remote error contract,
// carrying the server SQLSTATE through verbatim.
func remoteErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return domain.RemoteError{Code: pgErr.Code, Message: pgErr.Message}
	}
	return domain.RemoteError{Message: err.Error()}
}

// orderClause whitelists sort expressions per table; anything unknown falls
// back to newest-first.
func orderClause(table, orderBy string) string {
	switch table + "/" + orderBy {
	case "categories/sort_order":
		return "sort_order ASC, created_at DESC"
	case "categories/name", "products/name":
		return "name ASC"
	case "orders/total":
		return "total ASC"
	case "users/email":
		return "email ASC"
	default:
		return "created_at DESC"
	}
}

func (s *Store) lookupCreateKey(ctx context.Context, key domain.IdempotencyKey, entity domain.EntityType) (string, bool, error) {
	if key == "" {
		return "", false, nil
	}
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM create_keys WHERE key = $1 AND entity = $2`,
		string(key), string(entity)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

func (s *Store) recordCreateKey(ctx context.Context, tx *sql.Tx, key domain.IdempotencyKey, entity domain.EntityType, id string) error {
	if key == "" {
		return nil
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO create_keys(key, entity, id) VALUES($1, $2, $3)`,
		string(key), string(entity), id)
	return err
}

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
