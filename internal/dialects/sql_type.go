package dialects

import "fmt"

// TypeTag names the semantic type of a record field independent of any dialect.
type TypeTag string

// Supported type tags.
const (
	TagI8            TypeTag = "i8"
	TagI16           TypeTag = "i16"
	TagI32           TypeTag = "i32"
	TagI64           TypeTag = "i64"
	TagU8            TypeTag = "u8"
	TagU16           TypeTag = "u16"
	TagU32           TypeTag = "u32"
	TagU64           TypeTag = "u64"
	TagUsize         TypeTag = "usize"
	TagBool          TypeTag = "bool"
	TagF32           TypeTag = "f32"
	TagF64           TypeTag = "f64"
	TagString        TypeTag = "String"
	TagDateTime      TypeTag = "DateTime"
	TagNaiveDate     TypeTag = "NaiveDate"
	TagNaiveDateTime TypeTag = "NaiveDateTime"
)

// Tags lists every supported tag in declaration order.
var Tags = []TypeTag{
	TagI8, TagI16, TagI32, TagI64,
	TagU8, TagU16, TagU32, TagU64, TagUsize,
	TagBool, TagF32, TagF64, TagString,
	TagDateTime, TagNaiveDate, TagNaiveDateTime,
}

// Valid reports whether t belongs to the supported tag set.
func (t TypeTag) Valid() bool {
	for _, tag := range Tags {
		if tag == t {
			return true
		}
	}
	return false
}

// SQLType is a column type rendered for a particular dialect.
type SQLType struct {
	Raw      string
	Nullable bool
}

// String renders the type as used in a column definition, e.g. "INTEGER NULL".
func (t SQLType) String() string {
	if t.Nullable {
		return t.Raw + " NULL"
	}
	return t.Raw + " NOT NULL"
}

// NotNull returns a copy of t that renders NOT NULL.
func (t SQLType) NotNull() SQLType {
	t.Nullable = false
	return t
}

// SQLTypeError reports a type tag with no column type in a dialect.
type SQLTypeError struct {
	Flavor Flavor
	Tag    TypeTag
}

func (e *SQLTypeError) Error() string {
	return fmt.Sprintf("sql type not supported: %s does not map %q", e.Flavor, string(e.Tag))
}

// Is matches ErrSQLTypeNotSupported.
func (e *SQLTypeError) Is(target error) bool {
	return target == ErrSQLTypeNotSupported
}

// SQLType maps a type tag to a nullable column type for the dialect.
func (f Flavor) SQLType(tag TypeTag) (SQLType, error) {
	var (
		raw string
		ok  bool
	)
	switch f {
	case SQLite:
		raw, ok = sqliteTypes[tag]
	case MySQL:
		raw, ok = mysqlTypes[tag]
	case PostgreSQL:
		raw, ok = postgresTypes[tag]
	default:
		return SQLType{}, f.unsupported()
	}
	if !ok {
		return SQLType{}, &SQLTypeError{Flavor: f, Tag: tag}
	}
	return SQLType{Raw: raw, Nullable: true}, nil
}
