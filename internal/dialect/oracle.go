package dialect

import (
	"fmt"
	"strings"
	"time"

	_ "github.com/sijms/go-ora/v2" // Oracle Driver
)

type OracleDialect struct{}

func (d *OracleDialect) Name() string {
	return "oracle"
}

func (d *OracleDialect) GetTablesQuery(schema string) string {
	// ALL_* views scoped by OWNER so a session can compare another user's schema.
	return `SELECT TABLE_NAME FROM ALL_TABLES WHERE OWNER = :1 ORDER BY TABLE_NAME`
}

func (d *OracleDialect) GetColumnsQuery(schema string) string {
	return `
SELECT
    COLUMN_NAME,
    CASE
        WHEN DATA_TYPE = 'NUMBER' AND COALESCE(DATA_SCALE, 0) > 0 THEN 'DECIMAL'
        ELSE DATA_TYPE
    END,
    CASE WHEN NULLABLE = 'Y' THEN 'YES' ELSE 'NO' END
FROM ALL_TAB_COLUMNS
WHERE OWNER = :1 AND TABLE_NAME = :2
ORDER BY COLUMN_ID`
}

func (d *OracleDialect) GetPrimaryKeysQuery(schema string) string {
	return `
SELECT cc.COLUMN_NAME
FROM ALL_CONSTRAINTS c
JOIN ALL_CONS_COLUMNS cc
    ON c.OWNER = cc.OWNER
    AND c.CONSTRAINT_NAME = cc.CONSTRAINT_NAME
WHERE c.CONSTRAINT_TYPE = 'P' AND c.OWNER = :1 AND c.TABLE_NAME = :2
ORDER BY cc.POSITION`
}

func (d *OracleDialect) GetCurrentSchemaQuery() string {
	return `SELECT SYS_CONTEXT('USERENV', 'CURRENT_SCHEMA') FROM DUAL`
}

func (d *OracleDialect) Placeholder(index int) string {
	// Oracle uses :1, :2, etc. (1-based index)
	return fmt.Sprintf(":%d", index+1)
}

func (d *OracleDialect) QuoteIdentifier(name string) string {
	return QuoteWith(name, `"`, `"`)
}

func (d *OracleDialect) OrderByExpression(quotedColumn string, isText bool) string {
	return quotedColumn
}

// NLS_SORT defaults to BINARY.
func (d *OracleDialect) BinaryTextOrder() bool {
	return true
}

func (d *OracleDialect) StringLiteral(s string) string {
	return QuoteString(s)
}

func (d *OracleDialect) BinaryLiteral(hexValue string) string {
	return "HEXTORAW('" + strings.ToUpper(hexValue) + "')"
}

func (d *OracleDialect) TimestampLiteral(t time.Time) string {
	return fmt.Sprintf("TO_TIMESTAMP('%s', 'YYYY-MM-DD HH24:MI:SS.FF6')", t.Format(TimestampLayout))
}

func (d *OracleDialect) BooleanLiteral(b bool) string {
	return NumericBoolean(b)
}

func (d *OracleDialect) NormalizeType(sqlType string) string {
	s := strings.ToLower(sqlType)
	// TIMESTAMP(6) WITH TIME ZONE -> timestamp
	if strings.HasPrefix(s, "timestamp") {
		return "timestamp"
	}
	if s == "long raw" || s == "raw" {
		return "blob"
	}
	return s
}

func (d *OracleDialect) GetSchemaName(input string) string {
	// Unquoted Oracle identifiers are stored upper case.
	return strings.ToUpper(input)
}

func (d *OracleDialect) TimestampPrecision() time.Duration {
	return time.Microsecond
}
