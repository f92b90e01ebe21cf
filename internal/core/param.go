package core

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/coregx/dsql/internal/dialects"
	"github.com/google/uuid"
)

// ParamKind identifies the active variant of a Param.
type ParamKind int

// Param kinds.
const (
	ParamNull ParamKind = iota
	ParamBytes
	ParamSmallInt
	ParamInt
	ParamBigInt
	ParamReal
	ParamDouble
	ParamText
	ParamDate
	ParamDateTime
	ParamBool
)

var paramKindNames = [...]string{
	ParamNull:     "Null",
	ParamBytes:    "Bytes",
	ParamSmallInt: "SmallInt",
	ParamInt:      "Int",
	ParamBigInt:   "BigInt",
	ParamReal:     "Real",
	ParamDouble:   "Double",
	ParamText:     "Text",
	ParamDate:     "Date",
	ParamDateTime: "DateTime",
	ParamBool:     "Bool",
}

func (k ParamKind) String() string {
	if k >= 0 && int(k) < len(paramKindNames) {
		return paramKindNames[k]
	}
	return "ParamKind(" + strconv.Itoa(int(k)) + ")"
}

// Param is a value bound to a statement placeholder. The zero Param is Null.
type Param struct {
	kind  ParamKind
	i     int64
	f     float64
	s     string
	bytes []byte
	date  Date
	t     time.Time
	b     bool
}

// Constructors for each Param variant.

func NullParam() Param { return Param{} }
func BytesParam(b []byte) Param { return Param{kind: ParamBytes, bytes: b} }
func SmallIntParam(i int16) Param { return Param{kind: ParamSmallInt, i: int64(i)} }
func IntParam(i int32) Param { return Param{kind: ParamInt, i: int64(i)} }
func BigIntParam(i int64) Param { return Param{kind: ParamBigInt, i: i} }
func RealParam(f float32) Param { return Param{kind: ParamReal, f: float64(f)} }
func DoubleParam(f float64) Param { return Param{kind: ParamDouble, f: f} }
func TextParam(s string) Param { return Param{kind: ParamText, s: s} }
func DateParam(d Date) Param { return Param{kind: ParamDate, date: d} }
func DateTimeParam(t time.Time) Param { return Param{kind: ParamDateTime, t: t} }
func BoolParam(b bool) Param { return Param{kind: ParamBool, b: b} }

// Kind returns the active variant.
func (p Param) Kind() ParamKind { return p.kind }

// String returns the debug form, e.g. BigInt(44).
func (p Param) String() string {
	switch p.kind {
	case ParamNull:
		return "Null"
	case ParamBytes:
		return fmt.Sprintf("Bytes(%x)", p.bytes)
	case ParamSmallInt, ParamInt, ParamBigInt:
		return fmt.Sprintf("%s(%d)", p.kind, p.i)
	case ParamReal, ParamDouble:
		return fmt.Sprintf("%s(%v)", p.kind, p.f)
	case ParamText:
		return fmt.Sprintf("Text(%q)", p.s)
	case ParamDate:
		return "Date(" + p.date.String() + ")"
	case ParamDateTime:
		return "DateTime(" + p.t.Format(time.RFC3339Nano) + ")"
	case ParamBool:
		return "Bool(" + strconv.FormatBool(p.b) + ")"
	default:
		return p.kind.String()
	}
}

// ToParam converts a Go value to its canonical Param.
//
// Small integers map to SmallInt, 32-bit integers to Int and wider ones to
// BigInt; uint64 and uint values above math.MaxInt64 fail with ErrRangeConversion.
// nil and nil pointers map to Null, other pointers are dereferenced.
// driver.Valuer implementations are converted through their Value.
func ToParam(v any) (Param, error) {
	switch x := v.(type) {
	case nil:
		return NullParam(), nil
	case Param:
		return x, nil
	case bool:
		return BoolParam(x), nil
	case int8:
		return SmallIntParam(int16(x)), nil
	case uint8:
		return SmallIntParam(int16(x)), nil
	case int16:
		return SmallIntParam(x), nil
	case uint16:
		return IntParam(int32(x)), nil
	case int32:
		return IntParam(x), nil
	case uint32:
		return BigIntParam(int64(x)), nil
	case int64:
		return BigIntParam(x), nil
	case int:
		return BigIntParam(int64(x)), nil
	case uint64:
		return uintParam(x)
	case uint:
		return uintParam(uint64(x))
	case float32:
		return RealParam(x), nil
	case float64:
		return DoubleParam(x), nil
	case string:
		return TextParam(x), nil
	case []byte:
		if x == nil {
			return NullParam(), nil
		}
		return BytesParam(x), nil
	case Date:
		return DateParam(x), nil
	case time.Time:
		return DateTimeParam(x), nil
	case uuid.UUID:
		return TextParam(x.String()), nil
	case driver.Valuer:
		if rv := reflect.ValueOf(x); rv.Kind() == reflect.Ptr && rv.IsNil() {
			return NullParam(), nil
		}
		dv, err := x.Value()
		if err != nil {
			return Param{}, WrapError(err, "param valuer")
		}
		return ToParam(dv)
	}
	return reflectParam(reflect.ValueOf(v))
}

func uintParam(u uint64) (Param, error) {
	if u > math.MaxInt64 {
		return Param{}, fmt.Errorf("%w: %d does not fit BigInt", ErrRangeConversion, u)
	}
	return BigIntParam(int64(u)), nil
}

// reflectParam handles pointers and named types by their underlying kind.
func reflectParam(rv reflect.Value) (Param, error) {
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return NullParam(), nil
		}
		return ToParam(rv.Elem().Interface())
	case reflect.Bool:
		return BoolParam(rv.Bool()), nil
	case reflect.Int8, reflect.Int16:
		return SmallIntParam(int16(rv.Int())), nil
	case reflect.Int32:
		return IntParam(int32(rv.Int())), nil
	case reflect.Int, reflect.Int64:
		return BigIntParam(rv.Int()), nil
	case reflect.Uint8:
		return SmallIntParam(int16(rv.Uint())), nil
	case reflect.Uint16:
		return IntParam(int32(rv.Uint())), nil
	case reflect.Uint32:
		return BigIntParam(int64(rv.Uint())), nil
	case reflect.Uint, reflect.Uint64:
		return uintParam(rv.Uint())
	case reflect.Float32:
		return RealParam(float32(rv.Float())), nil
	case reflect.Float64:
		return DoubleParam(rv.Float()), nil
	case reflect.String:
		return TextParam(rv.String()), nil
	default:
		return Param{}, fmt.Errorf("%w: %T", ErrUnsupportedParamType, rv.Interface())
	}
}

// Arg returns the driver argument for p. MySQL receives booleans as 1 or 0,
// SQLite receives date-times as UTC text. Dates are sent as 2006-01-02 text.
func (p Param) Arg(f dialects.Flavor) (any, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDialect, f)
	}
	switch p.kind {
	case ParamNull:
		return nil, nil
	case ParamBytes:
		return p.bytes, nil
	case ParamSmallInt, ParamInt, ParamBigInt:
		return p.i, nil
	case ParamReal, ParamDouble:
		return p.f, nil
	case ParamText:
		return p.s, nil
	case ParamDate:
		return p.date.String(), nil
	case ParamDateTime:
		if f == dialects.SQLite {
			return p.t.UTC().Format(sqliteTimeLayout), nil
		}
		return p.t, nil
	case ParamBool:
		if f == dialects.MySQL {
			if p.b {
				return int64(1), nil
			}
			return int64(0), nil
		}
		return p.b, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedParamType, p.kind)
	}
}

// Literal renders p as an inline SQL literal for f. Text is single-quoted
// with embedded quotes doubled; MySQL also escapes backslashes.
func (p Param) Literal(f dialects.Flavor) (string, error) {
	switch f {
	case dialects.SQLite:
		return p.literal(quoteText, sqliteTimeLayout, hexBlob)
	case dialects.MySQL:
		return p.literal(quoteMySQLText, DateTimeLayout, hexBlob)
	case dialects.PostgreSQL:
		return p.literal(quoteText, time.RFC3339Nano, byteaBlob)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedDialect, f)
	}
}

// Date-time text layout for SQLite, parsed back by both SQLite drivers.
const sqliteTimeLayout = "2006-01-02 15:04:05.999999999-07:00"

// simpleLiteral renders p without dialect knowledge.
func (p Param) simpleLiteral() (string, error) {
	return p.literal(quoteText, DateTimeLayout, hexBlob)
}

func (p Param) literal(quote func(string) string, timeLayout string, blob func([]byte) string) (string, error) {
	switch p.kind {
	case ParamNull:
		return "NULL", nil
	case ParamBytes:
		return blob(p.bytes), nil
	case ParamSmallInt, ParamInt, ParamBigInt:
		return strconv.FormatInt(p.i, 10), nil
	case ParamReal, ParamDouble:
		if math.IsNaN(p.f) || math.IsInf(p.f, 0) {
			return "", fmt.Errorf("%w: %v has no SQL literal", ErrRangeConversion, p.f)
		}
		// Real values render widened, matching what Arg binds.
		return strconv.FormatFloat(p.f, 'g', -1, 64), nil
	case ParamText:
		return quote(p.s), nil
	case ParamDate:
		return quote(p.date.String()), nil
	case ParamDateTime:
		return quote(p.t.UTC().Format(timeLayout)), nil
	case ParamBool:
		if p.b {
			return "TRUE", nil
		}
		return "FALSE", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedParamType, p.kind)
	}
}

func quoteText(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteMySQLText(s string) string {
	return quoteText(strings.ReplaceAll(s, `\`, `\\`))
}

func hexBlob(b []byte) string {
	return "X'" + hex.EncodeToString(b) + "'"
}

func byteaBlob(b []byte) string {
	return `'\x` + hex.EncodeToString(b) + "'"
}

// Params supplies the ordered parameters of one statement execution.
type Params interface {
	AsParams() ([]Param, error)
}

// ParamList is a ready-made parameter list.
type ParamList []Param

// AsParams returns l.
func (l ParamList) AsParams() ([]Param, error) { return l, nil }

// NoParams binds nothing.
var NoParams = ParamList(nil)

// Args converts Go values with ToParam when the statement executes.
func Args(values ...any) Params {
	return argList(values)
}

type argList []any

func (a argList) AsParams() ([]Param, error) {
	params := make([]Param, len(a))
	for i, v := range a {
		p, err := ToParam(v)
		if err != nil {
			return nil, WrapError(err, fmt.Sprintf("param %d", i))
		}
		params[i] = p
	}
	return params, nil
}
