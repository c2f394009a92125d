package platform

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"db-compare/internal/dialect"
	"db-compare/internal/dml"
	"db-compare/internal/schema"
)

// Database is an Adapter backed by a live connection pool.
type Database struct {
	db      *sqlx.DB
	dialect dialect.Dialect
	builder *dml.Builder
	cache   *schema.Cache

	// Defaults applied when a lookup leaves catalog or schema empty.
	Catalog string
	Schema  string
}

func NewDatabase(db *sqlx.DB, d dialect.Dialect, catalog, schemaName string) *Database {
	return &Database{
		db:      db,
		dialect: d,
		builder: dml.New(d),
		cache:   schema.NewCache(),
		Catalog: catalog,
		Schema:  d.GetSchemaName(schemaName),
	}
}

func (p *Database) Name() string {
	return p.dialect.Name()
}

func (p *Database) Dialect() dialect.Dialect {
	return p.dialect
}

func (p *Database) DB() *sqlx.DB {
	return p.db
}

func (p *Database) ListTables(ctx context.Context) ([]string, error) {
	return schema.ListTables(ctx, p.db, p.dialect, p.Schema)
}

// TableMetadata resolves name against the schema listing, so that callers may use
// any letter case, then loads and caches the descriptor.
func (p *Database) TableMetadata(ctx context.Context, catalog, schemaName, name string) (*schema.Table, error) {
	if catalog == "" {
		catalog = p.Catalog
	}
	if schemaName == "" {
		schemaName = p.Schema
	}
	key := schema.CacheKey(catalog, schemaName, name)
	return p.cache.Get(ctx, key, func(ctx context.Context) (*schema.Table, error) {
		names, err := schema.ListTables(ctx, p.db, p.dialect, schemaName)
		if err != nil {
			return nil, fmt.Errorf("list tables of %s: %w", schemaName, err)
		}
		resolved, ok := schema.ResolveName(names, name)
		if !ok {
			return nil, nil
		}
		return schema.LoadTable(ctx, p.db, p.dialect, catalog, schemaName, resolved)
	})
}

func (p *Database) QuoteIdentifier(name string) string {
	return p.dialect.QuoteIdentifier(name)
}

func (p *Database) BuildOrderedSelect(t *schema.Table, keys ...*schema.Column) string {
	return p.builder.OrderedSelect(t, keys...)
}

func (p *Database) BuildInsert(t *schema.Table, row schema.Row) string {
	return p.builder.Insert(t, row)
}

func (p *Database) BuildUpdate(t *schema.Table, pkCols, changed []*schema.Column, row schema.Row) string {
	return p.builder.Update(t, pkCols, changed, row)
}

func (p *Database) BuildDelete(t *schema.Table, pkCols []*schema.Column, row schema.Row) string {
	return p.builder.Delete(t, pkCols, row)
}

func (p *Database) Query(ctx context.Context, query string) (RowIterator, error) {
	rows, err := p.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
