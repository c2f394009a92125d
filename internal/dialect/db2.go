package dialect

import (
	"fmt"
	"strings"
	"time"
)

// DB2Dialect generates SQL for IBM DB2. No driver is linked in; deployments register
// one (e.g. go_ibm_db) under the configured driver name.
type DB2Dialect struct{}

func (d *DB2Dialect) Name() string {
	return "db2"
}

func (d *DB2Dialect) GetTablesQuery(schema string) string {
	return `SELECT TABNAME FROM SYSCAT.TABLES WHERE TABSCHEMA = ? AND TYPE = 'T' ORDER BY TABNAME`
}

func (d *DB2Dialect) GetColumnsQuery(schema string) string {
	return `SELECT COLNAME, TYPENAME, CASE WHEN NULLS = 'Y' THEN 'YES' ELSE 'NO' END FROM SYSCAT.COLUMNS WHERE TABSCHEMA = ? AND TABNAME = ? ORDER BY COLNO`
}

func (d *DB2Dialect) GetPrimaryKeysQuery(schema string) string {
	return `SELECT k.COLNAME
FROM SYSCAT.KEYCOLUSE k
JOIN SYSCAT.TABCONST c
  ON k.CONSTNAME = c.CONSTNAME AND k.TABSCHEMA = c.TABSCHEMA AND k.TABNAME = c.TABNAME
WHERE c.TYPE = 'P' AND k.TABSCHEMA = ? AND k.TABNAME = ?
ORDER BY k.COLSEQ`
}

func (d *DB2Dialect) GetCurrentSchemaQuery() string {
	return `SELECT CURRENT SCHEMA FROM SYSIBM.SYSDUMMY1`
}

func (d *DB2Dialect) Placeholder(index int) string {
	return "?"
}

func (d *DB2Dialect) QuoteIdentifier(name string) string {
	return QuoteWith(name, `"`, `"`)
}

// OrderByExpression folds textual keys through TRANSLATE so rows come back in the
// same order as the ASCII-collating engines they are merged against.
func (d *DB2Dialect) OrderByExpression(quotedColumn string, isText bool) string {
	if !isText {
		return quotedColumn
	}
	return fmt.Sprintf("TRANSLATE (%s, '%s','%s')", quotedColumn, db2OrderTo, db2OrderFrom)
}

// Text keys are folded through TRANSLATE.
func (d *DB2Dialect) BinaryTextOrder() bool {
	return true
}

func (d *DB2Dialect) StringLiteral(s string) string {
	return QuoteString(s)
}

func (d *DB2Dialect) BinaryLiteral(hexValue string) string {
	return "BLOB(X'" + strings.ToUpper(hexValue) + "')"
}

func (d *DB2Dialect) TimestampLiteral(t time.Time) string {
	return "TIMESTAMP('" + t.Format(TimestampLayout) + "')"
}

func (d *DB2Dialect) BooleanLiteral(b bool) string {
	return NumericBoolean(b)
}

func (d *DB2Dialect) NormalizeType(sqlType string) string {
	return DefaultNormalizeType(sqlType)
}

func (d *DB2Dialect) GetSchemaName(input string) string {
	return strings.ToUpper(input)
}

func (d *DB2Dialect) TimestampPrecision() time.Duration {
	return time.Microsecond
}
