package core

import "github.com/coregx/dsql/internal/dialects"

// backend holds the driver-specific behaviour of DB for one flavor.
type backend interface {
	// value converts a cell scanned into *any. dbType is the column's
	// DatabaseTypeName, upper case, possibly empty.
	value(raw any, dbType string) (Value, error)
	// uniqueViolation reports whether err is a unique or primary key violation.
	uniqueViolation(err error) bool
}

func backendFor(f dialects.Flavor) (backend, error) {
	switch f {
	case dialects.SQLite:
		return sqliteBackend{}, nil
	case dialects.MySQL:
		return mysqlBackend{}, nil
	case dialects.PostgreSQL:
		return postgresBackend{}, nil
	default:
		return nil, WrapError(ErrUnsupportedDialect, f.String())
	}
}

// driverValue maps the standard driver.Value types. []byte maps to Blob;
// backends that return text as bytes handle it before calling this. Anything
// else, time.Time included, stays Native.
func driverValue(raw any) Value {
	switch x := raw.(type) {
	case nil:
		return NullValue()
	case int64:
		return IntegerValue(x)
	case uint64:
		return UIntegerValue(x)
	case float64:
		return RealValue(x)
	case bool:
		return BoolValue(x)
	case string:
		return TextValue(x)
	case []byte:
		return BlobValue(x)
	default:
		return NativeValue(x)
	}
}
