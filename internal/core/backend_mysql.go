package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ER_DUP_ENTRY
const mysqlDuplicateEntry = 1062

// mysqlBackend decodes the text protocol, where every non-NULL cell arrives
// as []byte, by the column's declared type.
type mysqlBackend struct{}

func (mysqlBackend) value(raw any, dbType string) (Value, error) {
	b, ok := raw.([]byte)
	if !ok {
		return driverValue(raw), nil
	}

	typ := strings.TrimPrefix(dbType, "UNSIGNED ")
	switch typ {
	case "TINYINT", "SMALLINT", "MEDIUMINT", "INT", "INTEGER", "BIGINT", "YEAR":
		s := string(b)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return IntegerValue(i), nil
		}
		u, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %s value %q", ErrInvalidType, dbType, s)
		}
		return UIntegerValue(u), nil
	case "FLOAT", "DOUBLE", "DECIMAL":
		f, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %s value %q", ErrInvalidType, dbType, b)
		}
		return RealValue(f), nil
	case "BLOB", "TINYBLOB", "MEDIUMBLOB", "LONGBLOB", "BINARY", "VARBINARY", "BIT", "GEOMETRY":
		return BlobValue(b), nil
	default:
		return TextValue(string(b)), nil
	}
}

func (mysqlBackend) uniqueViolation(err error) bool {
	var merr *mysql.MySQLError
	return errors.As(err, &merr) && merr.Number == mysqlDuplicateEntry
}
