// Package sqlite implements the remote catalog store on an embedded SQLite
// database. Referential integrity between products and categories is
// enforced by the schema, and constraint failures surface with the same
// machine-readable code a hosted backend would return.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"catalogcore/pkg/domain"
)

// Store wraps the database handle and exposes per-kind remote views.
type Store struct {
	db   *sql.DB
	path string
}

var ddl = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		name TEXT NOT NULL,
		slug TEXT NOT NULL,
		is_active INTEGER NOT NULL,
		sort_order INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		name TEXT NOT NULL,
		slug TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price REAL NOT NULL,
		compare_price REAL NOT NULL DEFAULT 0,
		free_shipping INTEGER NOT NULL DEFAULT 0,
		free_gift INTEGER NOT NULL DEFAULT 0,
		sku TEXT NOT NULL,
		category_id TEXT NOT NULL REFERENCES categories(id),
		brand TEXT NOT NULL DEFAULT '',
		main_img_url TEXT NOT NULL DEFAULT '',
		image_urls TEXT NOT NULL DEFAULT '[]',
		variant_type1_name TEXT NOT NULL DEFAULT '',
		variant_type1_options TEXT NOT NULL DEFAULT '[]',
		variant_type2_name TEXT NOT NULL DEFAULT '',
		variant_type2_options TEXT NOT NULL DEFAULT '[]',
		variant_prices TEXT NOT NULL DEFAULT '{}',
		is_active INTEGER NOT NULL,
		is_new INTEGER NOT NULL DEFAULT 0,
		stock_quantity INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		email TEXT NOT NULL,
		total REAL NOT NULL,
		status TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		email TEXT NOT NULL,
		full_name TEXT NOT NULL,
		is_active INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS create_keys (
		key TEXT PRIMARY KEY,
		entity TEXT NOT NULL,
		id TEXT NOT NULL
	)`,
}

// NewStore opens (or creates) the database at path and applies the schema.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = "catalogcore.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	// The pragma goes in the DSN: it is per-connection, and database/sql
	// pools connections, so enforcement must apply to every one the pool
	// opens, not just the first.
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	for _, stmt := range ddl {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}
	return &Store{db: db, path: path}, nil
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

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// remoteErr maps driver failures to the structured remote error contract.
// modernc/sqlite reports constraint violations by message, not SQLSTATE.
func remoteErr(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
		return domain.RemoteError{Code: domain.CodeForeignKeyViolation, Message: err.Error()}
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

func encodeTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func decodeTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// lookupCreateKey returns the id a previous create attempt with the same
// idempotency key produced, if any.
func (s *Store) lookupCreateKey(key domain.IdempotencyKey, entity domain.EntityType) (string, bool, error) {
	if key == "" {
		return "", false, nil
	}
	var id string
	err := s.db.QueryRow(`SELECT id FROM create_keys WHERE key = ? AND entity = ?`, string(key), string(entity)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

func (s *Store) recordCreateKey(tx *sql.Tx, key domain.IdempotencyKey, entity domain.EntityType, id string) error {
	if key == "" {
		return nil
	}
	_, err := tx.Exec(`INSERT INTO create_keys(key, entity, id) VALUES(?, ?, ?)`, string(key), string(entity), id)
	return err
}
