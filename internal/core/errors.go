package core

import (
	"errors"
	"fmt"

	"github.com/coregx/dsql/internal/dialects"
	"github.com/coregx/dsql/internal/security"
)

// Errors returned by dsql operations. Typed errors below match these through errors.Is.
var (
	// ErrUnsupportedDialect is returned for a flavor or driver outside SQLite, MySQL and PostgreSQL.
	ErrUnsupportedDialect = dialects.ErrUnsupportedDialect
	// ErrRowIDNotSupported is returned by Flavor.RowID for MySQL.
	ErrRowIDNotSupported = dialects.ErrRowIDNotSupported
	// ErrSQLTypeNotSupported is returned when a type tag has no column type in a dialect.
	ErrSQLTypeNotSupported = dialects.ErrSQLTypeNotSupported
	// ErrInvalidIdentifier is returned by schema registration for unusable table or column names.
	ErrInvalidIdentifier = security.ErrInvalidIdentifier
	// ErrUnsafeFilter is returned when a raw filter fragment fails validation.
	ErrUnsafeFilter = security.ErrUnsafeFragment

	// ErrUpdateWithLimitOffsetNotSupported is returned when LIMIT or OFFSET is
	// combined with UPDATE or DELETE on PostgreSQL.
	ErrUpdateWithLimitOffsetNotSupported = errors.New("limit/offset with update or delete is not supported by dialect")
	// ErrRangeConversion is returned when a numeric value does not fit the target type.
	ErrRangeConversion = errors.New("value out of range for target type")
	// ErrInvalidType is matched by *InvalidTypeError.
	ErrInvalidType = errors.New("invalid type for target")
	// ErrInvalidDate is returned when text cannot be parsed as a date or date-time.
	ErrInvalidDate = errors.New("invalid date")
	// ErrUnsupportedParamType is returned by ToParam for Go types with no Param encoding.
	ErrUnsupportedParamType = errors.New("unsupported parameter type")
	// ErrRowItemNotFound is matched by *RowItemError.
	ErrRowItemNotFound = errors.New("row item not found")
	// ErrMaxParamsExceeded is matched by *ParamCountError.
	ErrMaxParamsExceeded = errors.New("too many statement parameters")
	// ErrUniqueViolation is matched by driver errors reporting a unique or primary key violation.
	ErrUniqueViolation = errors.New("unique constraint violation")
	// ErrTextPrimaryKey is returned when a TEXT column is registered as primary key.
	ErrTextPrimaryKey = errors.New("text primary key is not supported")
	// ErrDuplicatePrimaryKey is returned when more than one field is marked as primary key.
	ErrDuplicatePrimaryKey = errors.New("more than one primary key field")
	// ErrDuplicateColumn is returned when two fields share a column name.
	ErrDuplicateColumn = errors.New("duplicate column")
	// ErrInvalidModelType is returned when a struct model cannot be derived from a type.
	ErrInvalidModelType = errors.New("invalid model type")
	// ErrNilDB is returned by WrapDB for a nil pool.
	ErrNilDB = errors.New("nil *sql.DB")
	// ErrFlavorRequired is returned when a filter or order cannot render without a flavor.
	ErrFlavorRequired = errors.New("filter requires a flavor to render")
)

// WrapError wraps err with a context message. It returns nil for a nil err.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg: message,
		err: err,
	}
}

type wrappedError struct {
	msg string
	err error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.err.Error()
}

func (e *wrappedError) Unwrap() error {
	return e.err
}

// InvalidTypeError reports a Value that cannot decode into the requested type.
type InvalidTypeError struct {
	Target string // requested Go type
	Value  string // debug form of the value
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("invalid type for %s: %s", e.Target, e.Value)
}

// Is matches ErrInvalidType.
func (e *InvalidTypeError) Is(target error) bool {
	return target == ErrInvalidType
}

// RowItemError reports a missing or undecodable column of a row.
type RowItemError struct {
	Index int
	Err   error // nil when the column is absent
}

func (e *RowItemError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("row item not found: index %d", e.Index)
	}
	return fmt.Sprintf("row item not found: index %d: %v", e.Index, e.Err)
}

// Is matches ErrRowItemNotFound.
func (e *RowItemError) Is(target error) bool {
	return target == ErrRowItemNotFound
}

func (e *RowItemError) Unwrap() error {
	return e.Err
}

// ParamCountError reports a statement binding more parameters than its dialect allows.
type ParamCountError struct {
	Flavor dialects.Flavor
	Max    int
	Got    int
}

func (e *ParamCountError) Error() string {
	return fmt.Sprintf("too many statement parameters: %s allows %d, got %d", e.Flavor, e.Max, e.Got)
}

// Is matches ErrMaxParamsExceeded.
func (e *ParamCountError) Is(target error) bool {
	return target == ErrMaxParamsExceeded
}

type uniqueViolationError struct {
	err error
}

func (e *uniqueViolationError) Error() string { return e.err.Error() }
func (e *uniqueViolationError) Unwrap() error { return e.err }

func (e *uniqueViolationError) Is(target error) bool {
	return target == ErrUniqueViolation
}

// IsUniqueViolation reports whether err is a unique or primary key violation
// returned by any of the supported drivers.
func IsUniqueViolation(err error) bool {
	return errors.Is(err, ErrUniqueViolation)
}
