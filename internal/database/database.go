package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"db-compare/internal/dialect"
	"db-compare/internal/platform"
)

// DriverName maps a configured engine to the database/sql driver registering it.
func DriverName(driver string) string {
	switch d := dialect.GetDialect(driver).Name(); d {
	case "sqlite":
		return "sqlite3"
	case "db2":
		return "go_ibm_db"
	default:
		return d
	}
}

// Open connects to the configured data source and returns it as a comparison adapter.
func Open(ctx context.Context, cfg Config) (*platform.Database, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("database %s: dsn is required", cfg.Name)
	}
	if _, err := dialect.Lookup(cfg.Driver); err != nil {
		return nil, fmt.Errorf("database %s: %w", cfg.Name, err)
	}
	db, err := sqlx.Open(DriverName(cfg.Driver), cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", cfg.Name, err)
	}
	p, err := Attach(ctx, db, cfg)
	if err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

// Attach configures the pool, checks connectivity and resolves the default
// catalog and schema of an already opened handle.
func Attach(ctx context.Context, db *sqlx.DB, cfg Config) (*platform.Database, error) {
	d, err := dialect.Lookup(cfg.Driver)
	if err != nil {
		return nil, fmt.Errorf("database %s: %w", cfg.Name, err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)
	db.SetConnMaxLifetime(time.Hour)

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	pingCtx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("failed to ping database %s: %w", cfg.Name, err)
	}

	catalog, schemaName := cfg.Catalog, cfg.Schema

	if r, ok := d.(dialect.CatalogResolver); ok {
		name := r.CatalogFromDSN(cfg.DSN)
		// A MySQL database is what information_schema calls a schema.
		if d.Name() == "mysql" {
			if schemaName == "" {
				schemaName = name
			}
		} else if catalog == "" {
			catalog = name
		}
	}

	if schemaName == "" {
		if err := db.QueryRowContext(pingCtx, d.GetCurrentSchemaQuery()).Scan(&schemaName); err != nil {
			return nil, fmt.Errorf("failed to get current schema of %s: %w", cfg.Name, err)
		}
		if schemaName == "" && d.Name() == "mysql" {
			return nil, fmt.Errorf("database %s: no database selected in DSN", cfg.Name)
		}
	}

	return platform.NewDatabase(db, d, catalog, schemaName), nil
}
