package core

import (
	"fmt"
	"os"

	"catalogcore/internal/infra/remote/memory"
	"catalogcore/internal/infra/remote/postgres"
	"catalogcore/internal/infra/remote/sqlite"
	"catalogcore/pkg/domain"
)

// StorageDriver identifies a concrete remote-store implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// RemoteCatalog bundles the per-kind remote stores the controllers talk to.
type RemoteCatalog struct {
	Categories domain.CategoryStore
	Products   domain.ProductStore
	Orders     domain.OrderStore
	Users      domain.UserStore
}

// OpenRemoteCatalog selects a backend using environment variables.
// Defaults to sqlite when unset.
//
//	CATALOGCORE_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	CATALOGCORE_SQLITE_PATH: path to sqlite file (default ./catalogcore.db)
//	CATALOGCORE_POSTGRES_DSN: postgres DSN when driver=postgres
func OpenRemoteCatalog() (RemoteCatalog, error) {
	driver := os.Getenv("CATALOGCORE_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageSQLite)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		st := memory.NewStore()
		return RemoteCatalog{Categories: st.Categories(), Products: st.Products(), Orders: st.Orders(), Users: st.Users()}, nil
	case StorageSQLite:
		st, err := sqlite.NewStore(os.Getenv("CATALOGCORE_SQLITE_PATH"))
		if err != nil {
			return RemoteCatalog{}, err
		}
		return RemoteCatalog{Categories: st.Categories(), Products: st.Products(), Orders: st.Orders(), Users: st.Users()}, nil
	case StoragePostgres:
		st, err := postgres.NewStore(os.Getenv("CATALOGCORE_POSTGRES_DSN"))
		if err != nil {
			return RemoteCatalog{}, err
		}
		return RemoteCatalog{Categories: st.Categories(), Products: st.Products(), Orders: st.Orders(), Users: st.Users()}, nil
	default:
		return RemoteCatalog{}, fmt.Errorf("unknown storage driver %s", driver)
	}
}

// Console bundles controllers for every collection over one remote catalog,
// sharing a metrics recorder and notifier.
type Console struct {
	Categories *CategoryController
	Products   *ProductController
	Orders     *OrderController
	Users      *UserController
}

// NewConsole constructs the four controllers over the supplied catalog.
func NewConsole(catalog RemoteCatalog, metrics MetricsRecorder, notifier Notifier) *Console {
	return &Console{
		Categories: NewCategoryController(catalog.Categories, catalog.Products, metrics, notifier),
		Products:   NewProductController(catalog.Products, metrics, notifier),
		Orders:     NewOrderController(catalog.Orders, metrics, notifier),
		Users:      NewUserController(catalog.Users, metrics, notifier),
	}
}
