package core

import (
	"errors"

	"github.com/lib/pq"
)

// unique_violation
const pgUniqueViolation pq.ErrorCode = "23505"

// postgresBackend keeps BYTEA as Blob. lib/pq returns other types it does
// not decode itself, such as NUMERIC, as their text form in []byte.
type postgresBackend struct{}

func (postgresBackend) value(raw any, dbType string) (Value, error) {
	if b, ok := raw.([]byte); ok && dbType != "BYTEA" {
		return TextValue(string(b)), nil
	}
	return driverValue(raw), nil
}

func (postgresBackend) uniqueViolation(err error) bool {
	var perr *pq.Error
	return errors.As(err, &perr) && perr.Code == pgUniqueViolation
}
