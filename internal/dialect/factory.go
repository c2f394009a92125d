package dialect

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDriver is returned by Lookup for engine names no dialect handles.
var ErrUnknownDriver = errors.New("unknown database driver")

// Lookup returns the Dialect for a configured driver name. An empty name selects mysql.
func Lookup(driver string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "mysql":
		return &MysqlDialect{}, nil
	case "postgres", "postgresql", "pgx":
		return &PostgresDialect{}, nil
	case "sqlserver", "mssql":
		return &MSSQLDialect{}, nil
	case "oracle":
		return &OracleDialect{}, nil
	case "sqlite3", "sqlite":
		return &SQLiteDialect{}, nil
	case "db2", "go_ibm_db":
		return &DB2Dialect{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// GetDialect is Lookup for names already known to be valid, such as an adapter's
// own Name(). Unknown names fall back to mysql.
func GetDialect(driver string) Dialect {
	d, err := Lookup(driver)
	if err != nil {
		return &MysqlDialect{}
	}
	return d
}

// Ensure interface implementation
var _ Dialect = (*MysqlDialect)(nil)
var _ Dialect = (*PostgresDialect)(nil)
var _ Dialect = (*MSSQLDialect)(nil)
var _ Dialect = (*OracleDialect)(nil)
var _ Dialect = (*SQLiteDialect)(nil)
var _ Dialect = (*DB2Dialect)(nil)

var _ CatalogResolver = (*MysqlDialect)(nil)
var _ CatalogResolver = (*MSSQLDialect)(nil)
