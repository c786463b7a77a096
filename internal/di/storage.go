package di

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/goliatone/go-cms-workflow/internal/runtimeconfig"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"
)

type storageDriver struct {
	driverName string
	dialect    func() schema.Dialect
	// maxOpenConns pins in-memory sqlite databases to one connection.
	maxOpenConns int
}

var storageDrivers = map[string]storageDriver{
	"sqlite": {
		driverName:   "sqlite3",
		dialect:      func() schema.Dialect { return sqlitedialect.New() },
		maxOpenConns: 1,
	},
	"postgres": {
		driverName: "postgres",
		dialect:    func() schema.Dialect { return pgdialect.New() },
	},
}

// openBunDB opens the configured SQL backend. Memory storage returns nil
// handles.
func openBunDB(cfg runtimeconfig.StorageConfig) (*bun.DB, *sql.DB, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" || provider == "memory" {
		return nil, nil, nil
	}
	driver, ok := storageDrivers[provider]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", runtimeconfig.ErrStorageProviderUnknown, provider)
	}

	sqlDB, err := sql.Open(driver.driverName, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("workflow storage: open %s: %w", provider, err)
	}
	if driver.maxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(driver.maxOpenConns)
	}
	return bun.NewDB(sqlDB, driver.dialect()), sqlDB, nil
}
