package core

import (
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// sqliteBackend serves both the pure Go "sqlite" driver and the cgo
// "sqlite3" driver.
type sqliteBackend struct{}

func (sqliteBackend) value(raw any, _ string) (Value, error) {
	return driverValue(raw), nil
}

func (sqliteBackend) uniqueViolation(err error) bool {
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		switch serr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	if cgoUniqueViolation(err) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
