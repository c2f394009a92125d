package schema

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"db-compare/internal/dialect"
)

// ErrNoPrimaryKey marks a table that cannot be merge-joined.
var ErrNoPrimaryKey = errors.New("table has no primary key")

// Querier is satisfied by *sql.DB, *sql.Conn and *sqlx.DB.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Validate rejects tables that cannot take part in a comparison.
func (t *Table) Validate() error {
	if !t.HasPrimaryKey() {
		return fmt.Errorf("%s: %w", t.FullyQualifiedName(), ErrNoPrimaryKey)
	}
	return nil
}

// ListTables returns the base table names of a schema in catalog order.
func ListTables(ctx context.Context, db Querier, d dialect.Dialect, schemaName string) ([]string, error) {
	target := d.GetSchemaName(schemaName)

	rows, err := db.QueryContext(ctx, d.GetTablesQuery(target), target)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}
	return names, nil
}

// ResolveName picks the catalog spelling of want: exact match first, then case-insensitive.
func ResolveName(names []string, want string) (string, bool) {
	for _, n := range names {
		if n == want {
			return n, true
		}
	}
	upper := strings.ToUpper(want)
	for _, n := range names {
		if strings.ToUpper(n) == upper {
			return n, true
		}
	}
	return "", false
}

// LoadTable reads column and primary key metadata for one table.
// A table without any visible column is reported as absent (nil, nil).
func LoadTable(ctx context.Context, db Querier, d dialect.Dialect, catalog, schemaName, tableName string) (*Table, error) {
	target := d.GetSchemaName(schemaName)

	colRows, err := db.QueryContext(ctx, d.GetColumnsQuery(target), target, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns of %s: %w", tableName, err)
	}
	defer colRows.Close()

	t := &Table{Catalog: catalog, Schema: target, Name: tableName}
	byName := make(map[string]*Column)
	for colRows.Next() {
		var cName, dType, isNull sql.NullString
		if err := colRows.Scan(&cName, &dType, &isNull); err != nil {
			return nil, fmt.Errorf("failed to scan column (table: %s): %w", tableName, err)
		}
		if !cName.Valid {
			continue
		}
		normalized := d.NormalizeType(dType.String)
		col := &Column{
			Name:       cName.String,
			DataType:   normalized,
			Kind:       ClassifyType(normalized),
			IsNullable: strings.EqualFold(isNull.String, "YES"),
		}
		t.Columns = append(t.Columns, col)
		byName[strings.ToUpper(col.Name)] = col
	}
	if err := colRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns: %w", err)
	}
	if len(t.Columns) == 0 {
		return nil, nil
	}

	pkRows, err := db.QueryContext(ctx, d.GetPrimaryKeysQuery(target), target, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to query primary key of %s: %w", tableName, err)
	}
	defer pkRows.Close()

	position := 0
	for pkRows.Next() {
		var cName string
		if err := pkRows.Scan(&cName); err != nil {
			return nil, fmt.Errorf("failed to scan primary key column (table: %s): %w", tableName, err)
		}
		if col, ok := byName[strings.ToUpper(cName)]; ok {
			position++
			col.IsPK = true
			col.KeyPosition = position
		}
	}
	if err := pkRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating primary key columns: %w", err)
	}

	return t, nil
}
