package dialect

import (
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite Driver
)

// SQLiteDialect targets mattn/go-sqlite3. Schemas are attached database names ("main").
type SQLiteDialect struct{}

func (d *SQLiteDialect) Name() string {
	return "sqlite"
}

func (d *SQLiteDialect) GetTablesQuery(schema string) string {
	return `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND ?1 IS NOT NULL ORDER BY name`
}

func (d *SQLiteDialect) GetColumnsQuery(schema string) string {
	return `SELECT name, type, CASE WHEN "notnull" = 1 THEN 'NO' ELSE 'YES' END FROM pragma_table_info(?2) WHERE ?1 IS NOT NULL ORDER BY cid`
}

func (d *SQLiteDialect) GetPrimaryKeysQuery(schema string) string {
	return `SELECT name FROM pragma_table_info(?2) WHERE pk > 0 AND ?1 IS NOT NULL ORDER BY pk`
}

func (d *SQLiteDialect) GetCurrentSchemaQuery() string {
	return `SELECT 'main'`
}

func (d *SQLiteDialect) Placeholder(index int) string {
	return "?"
}

func (d *SQLiteDialect) QuoteIdentifier(name string) string {
	return QuoteWith(name, `"`, `"`)
}

func (d *SQLiteDialect) OrderByExpression(quotedColumn string, isText bool) string {
	return quotedColumn
}

func (d *SQLiteDialect) BinaryTextOrder() bool {
	return true
}

func (d *SQLiteDialect) StringLiteral(s string) string {
	return QuoteString(s)
}

func (d *SQLiteDialect) BinaryLiteral(hexValue string) string {
	return "X'" + hexValue + "'"
}

func (d *SQLiteDialect) TimestampLiteral(t time.Time) string {
	return "'" + t.Format("2006-01-02 15:04:05.000") + "'"
}

func (d *SQLiteDialect) BooleanLiteral(b bool) string {
	return NumericBoolean(b)
}

func (d *SQLiteDialect) NormalizeType(sqlType string) string {
	return DefaultNormalizeType(sqlType)
}

func (d *SQLiteDialect) GetSchemaName(input string) string {
	if input == "" {
		return "main"
	}
	return input
}

func (d *SQLiteDialect) TimestampPrecision() time.Duration {
	return time.Millisecond
}
