package dialect

import (
	"fmt"
	"strings"
	"time"

	_ "github.com/denisenkom/go-mssqldb" // SQL Server Driver
	"github.com/microsoft/go-mssqldb/msdsn"
)

type MSSQLDialect struct{}

// Helper: MSSQL Driver (go-mssqldb) prefers @p1, @p2 named parameters over ?

func (d *MSSQLDialect) Name() string {
	return "sqlserver"
}

func (d *MSSQLDialect) GetTablesQuery(schema string) string {
	return `SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = @p1 AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`
}

func (d *MSSQLDialect) GetColumnsQuery(schema string) string {
	return `SELECT COLUMN_NAME, DATA_TYPE, IS_NULLABLE FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_SCHEMA = @p1 AND TABLE_NAME = @p2 ORDER BY ORDINAL_POSITION`
}

func (d *MSSQLDialect) GetPrimaryKeysQuery(schema string) string {
	return `SELECT KCU.COLUMN_NAME
FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS TC
JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE KCU
  ON TC.CONSTRAINT_NAME = KCU.CONSTRAINT_NAME AND TC.TABLE_SCHEMA = KCU.TABLE_SCHEMA
WHERE TC.CONSTRAINT_TYPE = 'PRIMARY KEY' AND TC.TABLE_SCHEMA = @p1 AND TC.TABLE_NAME = @p2
ORDER BY KCU.ORDINAL_POSITION`
}

func (d *MSSQLDialect) GetCurrentSchemaQuery() string {
	return `SELECT SCHEMA_NAME()`
}

func (d *MSSQLDialect) Placeholder(index int) string {
	return fmt.Sprintf("@p%d", index+1)
}

func (d *MSSQLDialect) QuoteIdentifier(name string) string {
	return QuoteWith(name, "[", "]")
}

func (d *MSSQLDialect) OrderByExpression(quotedColumn string, isText bool) string {
	return quotedColumn
}

// Default collations are case-insensitive.
func (d *MSSQLDialect) BinaryTextOrder() bool {
	return false
}

func (d *MSSQLDialect) StringLiteral(s string) string {
	// N prefix keeps non-Latin text intact in nvarchar columns.
	return "N" + QuoteString(s)
}

func (d *MSSQLDialect) BinaryLiteral(hexValue string) string {
	return "0x" + strings.ToUpper(hexValue)
}

func (d *MSSQLDialect) TimestampLiteral(t time.Time) string {
	// ISO 8601 with T is interpreted identically regardless of SET DATEFORMAT.
	return "'" + t.Format("2006-01-02T15:04:05.000") + "'"
}

func (d *MSSQLDialect) BooleanLiteral(b bool) string {
	return NumericBoolean(b)
}

func (d *MSSQLDialect) NormalizeType(sqlType string) string {
	t := strings.ToLower(sqlType)
	switch t {
	case "nvarchar", "nchar", "text", "ntext":
		return "varchar"
	case "decimal", "numeric", "money", "smallmoney":
		return "decimal"
	case "float", "real":
		return "float"
	case "datetime", "datetime2", "smalldatetime", "datetimeoffset":
		return "datetime"
	case "image", "binary", "varbinary", "timestamp", "rowversion":
		return "blob"
	default:
		return t
	}
}

func (d *MSSQLDialect) GetSchemaName(input string) string {
	if input == "" {
		return "dbo"
	}
	return input
}

// TimestampPrecision covers legacy DATETIME (1/300s); datetime2 is finer.
func (d *MSSQLDialect) TimestampPrecision() time.Duration {
	return time.Millisecond
}

// CatalogFromDSN returns the database named in a sqlserver:// URL or ADO connection string.
func (d *MSSQLDialect) CatalogFromDSN(dsn string) string {
	cfg, err := msdsn.Parse(dsn)
	if err != nil {
		return ""
	}
	return cfg.Database
}
