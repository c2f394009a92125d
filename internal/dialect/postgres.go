package dialect

import (
	"fmt"
	"strings"
	"time"
)

type PostgresDialect struct{}

func (d *PostgresDialect) Name() string {
	return "postgres"
}

func (d *PostgresDialect) GetTablesQuery(schema string) string {
	// use $1 placeholder
	return `SELECT table_name FROM information_schema.tables WHERE table_schema = $1 AND table_type = 'BASE TABLE' ORDER BY table_name`
}

func (d *PostgresDialect) GetColumnsQuery(schema string) string {
	// udt_name keeps bpchar/bytea/numeric distinguishable where data_type would say "character"/"USER-DEFINED".
	return `SELECT column_name, udt_name, is_nullable FROM information_schema.columns WHERE table_schema = $1 AND table_name = $2 ORDER BY ordinal_position`
}

func (d *PostgresDialect) GetPrimaryKeysQuery(schema string) string {
	return `SELECT kcu.column_name
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
  ON tc.constraint_name = kcu.constraint_name
 AND tc.table_schema = kcu.table_schema
 AND tc.table_name = kcu.table_name
WHERE tc.constraint_type = 'PRIMARY KEY' AND tc.table_schema = $1 AND tc.table_name = $2
ORDER BY kcu.ordinal_position`
}

func (d *PostgresDialect) GetCurrentSchemaQuery() string {
	return `SELECT current_schema()`
}

func (d *PostgresDialect) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index+1)
}

func (d *PostgresDialect) QuoteIdentifier(name string) string {
	return QuoteWith(name, `"`, `"`)
}

func (d *PostgresDialect) OrderByExpression(quotedColumn string, isText bool) string {
	return quotedColumn
}

// Depends on the database locale; only "C" sorts bytewise.
func (d *PostgresDialect) BinaryTextOrder() bool {
	return false
}

func (d *PostgresDialect) StringLiteral(s string) string {
	return QuoteString(s)
}

func (d *PostgresDialect) BinaryLiteral(hexValue string) string {
	return "decode('" + hexValue + "', 'hex')"
}

func (d *PostgresDialect) TimestampLiteral(t time.Time) string {
	return DefaultTimestampLiteral(t)
}

func (d *PostgresDialect) BooleanLiteral(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

func (d *PostgresDialect) NormalizeType(sqlType string) string {
	t := strings.ToLower(sqlType)
	switch t {
	case "int4", "int2":
		return "int"
	case "int8":
		return "bigint"
	case "float4":
		return "float"
	case "float8":
		return "double"
	case "bpchar":
		return "char"
	case "timestamptz":
		return "timestamp"
	default:
		return t
	}
}

func (d *PostgresDialect) GetSchemaName(input string) string {
	if input == "" {
		return "public"
	}
	return input
}

func (d *PostgresDialect) TimestampPrecision() time.Duration {
	return time.Microsecond
}
