package platform

import (
	"context"

	"db-compare/internal/schema"
)

// Adapter is everything the comparison core needs from one data source.
type Adapter interface {
	Name() string

	// TableMetadata returns nil, nil when the table does not exist.
	TableMetadata(ctx context.Context, catalog, schemaName, name string) (*schema.Table, error)
	ListTables(ctx context.Context) ([]string, error)

	QuoteIdentifier(name string) string
	// BuildOrderedSelect orders by keys, defaulting to the primary key of t.
	BuildOrderedSelect(t *schema.Table, keys ...*schema.Column) string
	BuildInsert(t *schema.Table, row schema.Row) string
	BuildUpdate(t *schema.Table, pkCols, changed []*schema.Column, row schema.Row) string
	BuildDelete(t *schema.Table, pkCols []*schema.Column, row schema.Row) string

	Query(ctx context.Context, query string) (RowIterator, error)
}

// RowIterator is a forward-only result set. *sqlx.Rows satisfies it.
type RowIterator interface {
	Next() bool
	MapScan(dest map[string]interface{}) error
	Err() error
	Close() error
}
