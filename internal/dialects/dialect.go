// Package dialects describes the SQL dialects supported by dsql: SQLite, MySQL and
// PostgreSQL. Every dialect-sensitive decision (identifier quoting, placeholders,
// column types, row identifiers, parameter limits) is an exhaustive switch over Flavor.
package dialects

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by Flavor methods.
var (
	// ErrUnsupportedDialect is returned for a driver name or Flavor value outside the supported set.
	ErrUnsupportedDialect = errors.New("unsupported database dialect")
	// ErrRowIDNotSupported is returned by RowID for dialects without a native row identifier.
	ErrRowIDNotSupported = errors.New("row id is not supported by dialect")
	// ErrSQLTypeNotSupported is matched by *SQLTypeError.
	ErrSQLTypeNotSupported = errors.New("sql type not supported by dialect")
	// ErrEmptyIdentifier is returned when quoting an empty table or column name.
	ErrEmptyIdentifier = errors.New("empty identifier")
)

// Flavor identifies the SQL dialect spoken by a connection.
type Flavor int

// Supported flavors. The zero value is deliberately invalid.
const (
	SQLite Flavor = iota + 1
	MySQL
	PostgreSQL
)

// String returns the dialect name.
func (f Flavor) String() string {
	switch f {
	case SQLite:
		return "SQLite"
	case MySQL:
		return "MySQL"
	case PostgreSQL:
		return "PostgreSQL"
	default:
		return fmt.Sprintf("Flavor(%d)", int(f))
	}
}

// Valid reports whether f is one of the supported flavors.
func (f Flavor) Valid() bool {
	switch f {
	case SQLite, MySQL, PostgreSQL:
		return true
	default:
		return false
	}
}

// FromDriver maps a database/sql driver name to its Flavor.
func FromDriver(driverName string) (Flavor, error) {
	switch strings.ToLower(driverName) {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "mysql":
		return MySQL, nil
	case "postgres", "postgresql", "pgx":
		return PostgreSQL, nil
	default:
		return 0, fmt.Errorf("%w: driver %q", ErrUnsupportedDialect, driverName)
	}
}

// Column quotes a column name.
// SQLite and MySQL use back-ticks, PostgreSQL passes the name through.
func (f Flavor) Column(name string) (string, error) {
	return f.identifier(name)
}

// Table quotes a table name using the same rule as Column.
func (f Flavor) Table(name string) (string, error) {
	return f.identifier(name)
}

func (f Flavor) identifier(name string) (string, error) {
	if name == "" {
		return "", ErrEmptyIdentifier
	}
	switch f {
	case SQLite:
		return quoteSQLite(name), nil
	case MySQL:
		return quoteMySQL(name), nil
	case PostgreSQL:
		return name, nil
	default:
		return "", f.unsupported()
	}
}

// Value returns the positional placeholder for the zero-based parameter index i.
func (f Flavor) Value(i int) (string, error) {
	switch f {
	case SQLite, MySQL:
		return "?", nil
	case PostgreSQL:
		return postgresPlaceholder(i), nil
	default:
		return "", f.unsupported()
	}
}

// RowID returns the expression naming the physical row identifier.
// MySQL has no equivalent and returns ErrRowIDNotSupported.
func (f Flavor) RowID() (string, error) {
	switch f {
	case SQLite:
		return "rowid", nil
	case MySQL:
		return "", fmt.Errorf("%w: %s", ErrRowIDNotSupported, f)
	case PostgreSQL:
		return "CTID", nil
	default:
		return "", f.unsupported()
	}
}

// NoLimit returns the LIMIT value that lets an OFFSET stand alone. SQLite
// and MySQL require a LIMIT before OFFSET; PostgreSQL does not and returns "".
func (f Flavor) NoLimit() string {
	switch f {
	case SQLite:
		return "-1"
	case MySQL:
		return "18446744073709551615"
	default:
		return ""
	}
}

// MaxParams returns the largest number of positional parameters a single
// statement may bind.
func (f Flavor) MaxParams() (int, error) {
	switch f {
	case SQLite:
		return sqliteMaxParams, nil
	case MySQL:
		return mysqlMaxParams, nil
	case PostgreSQL:
		return postgresMaxParams, nil
	default:
		return 0, f.unsupported()
	}
}

func (f Flavor) unsupported() error {
	return fmt.Errorf("%w: %s", ErrUnsupportedDialect, f)
}
