package dialect

import (
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

type MysqlDialect struct{}

func (d *MysqlDialect) Name() string {
	return "mysql"
}

func (d *MysqlDialect) GetTablesQuery(schema string) string {
	return `SELECT TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`
}

func (d *MysqlDialect) GetColumnsQuery(schema string) string {
	return `SELECT COLUMN_NAME, COLUMN_TYPE, IS_NULLABLE FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? ORDER BY ORDINAL_POSITION`
}

func (d *MysqlDialect) GetPrimaryKeysQuery(schema string) string {
	return `SELECT COLUMN_NAME FROM information_schema.KEY_COLUMN_USAGE WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? AND CONSTRAINT_NAME = 'PRIMARY' ORDER BY ORDINAL_POSITION`
}

func (d *MysqlDialect) GetCurrentSchemaQuery() string {
	return `SELECT DATABASE()`
}

func (d *MysqlDialect) Placeholder(index int) string {
	return "?"
}

func (d *MysqlDialect) QuoteIdentifier(name string) string {
	return QuoteWith(name, "`", "`")
}

func (d *MysqlDialect) OrderByExpression(quotedColumn string, isText bool) string {
	return quotedColumn
}

// Default collations (utf8mb4_0900_ai_ci) ignore case.
func (d *MysqlDialect) BinaryTextOrder() bool {
	return false
}

func (d *MysqlDialect) StringLiteral(s string) string {
	// Backslash is an escape character unless NO_BACKSLASH_ESCAPES is set.
	return QuoteString(strings.ReplaceAll(s, `\`, `\\`))
}

func (d *MysqlDialect) BinaryLiteral(hexValue string) string {
	return "X'" + hexValue + "'"
}

func (d *MysqlDialect) TimestampLiteral(t time.Time) string {
	return DefaultTimestampLiteral(t)
}

func (d *MysqlDialect) BooleanLiteral(b bool) string {
	return NumericBoolean(b)
}

func (d *MysqlDialect) NormalizeType(sqlType string) string {
	return DefaultNormalizeType(sqlType)
}

func (d *MysqlDialect) GetSchemaName(input string) string {
	return DefaultGetSchemaName(input)
}

// TimestampPrecision reflects DATETIME/TIMESTAMP without an explicit fsp.
func (d *MysqlDialect) TimestampPrecision() time.Duration {
	return time.Second
}

// CatalogFromDSN extracts the database name from a go-sql-driver DSN.
func (d *MysqlDialect) CatalogFromDSN(dsn string) string {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return ""
	}
	return cfg.DBName
}
