package dialect

import "time"

// Dialect abstracts database-specific SQL text generation.
//
// Every metadata query takes its parameters in the order (schema, table); engines that
// do not scope by schema still consume the parameter so callers can bind uniformly.
type Dialect interface {
	// Name returns the canonical engine name ("mysql", "postgres", ...).
	Name() string

	// Metadata Queries (Schema Introspection)
	GetTablesQuery(schema string) string      // params: schema -> TABLE_NAME
	GetColumnsQuery(schema string) string     // params: schema, table -> COLUMN_NAME, DATA_TYPE, IS_NULLABLE
	GetPrimaryKeysQuery(schema string) string // params: schema, table -> COLUMN_NAME in key order
	GetCurrentSchemaQuery() string

	// Query Generation
	Placeholder(index int) string // Returns ?, $1, @p1, etc.
	QuoteIdentifier(name string) string
	OrderByExpression(quotedColumn string, isText bool) string
	// BinaryTextOrder reports whether text keys come back in byte order under the
	// engine's default collation.
	BinaryTextOrder() bool

	// Literals for reconciliation scripts
	StringLiteral(s string) string
	BinaryLiteral(hexValue string) string
	TimestampLiteral(t time.Time) string
	BooleanLiteral(b bool) string

	// Helpers
	NormalizeType(sqlType string) string
	GetSchemaName(input string) string
	TimestampPrecision() time.Duration
}

// CatalogResolver is implemented by dialects able to derive the default catalog
// (database name) from a connection string.
type CatalogResolver interface {
	CatalogFromDSN(dsn string) string
}
