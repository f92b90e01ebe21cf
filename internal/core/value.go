package core

import (
	"fmt"
	"strconv"
)

// Kind identifies the active variant of a Value.
type Kind int

// Value kinds.
const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindUInteger
	KindReal
	KindText
	KindBlob
	// KindNative holds a value the driver already decoded, such as time.Time.
	KindNative
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInteger:
		return "Integer"
	case KindUInteger:
		return "UInteger"
	case KindReal:
		return "Real"
	case KindText:
		return "Text"
	case KindBlob:
		return "Blob"
	case KindNative:
		return "Native"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is one cell read from a database row. Exactly one variant is active.
// The zero Value is Null.
type Value struct {
	kind   Kind
	b      bool
	i      int64
	u      uint64
	f      float64
	s      string
	blob   []byte
	native any
}

// Constructors for each Value variant.

func NullValue() Value { return Value{} }
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }
func IntegerValue(i int64) Value { return Value{kind: KindInteger, i: i} }
func UIntegerValue(u uint64) Value { return Value{kind: KindUInteger, u: u} }
func RealValue(f float64) Value { return Value{kind: KindReal, f: f} }
func TextValue(s string) Value { return Value{kind: KindText, s: s} }
func BlobValue(b []byte) Value { return Value{kind: KindBlob, blob: b} }
func NativeValue(native any) Value { return Value{kind: KindNative, native: native} }

// Kind returns the active variant.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is Null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Any returns the payload of the active variant, or nil for Null.
func (v Value) Any() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInteger:
		return v.i
	case KindUInteger:
		return v.u
	case KindReal:
		return v.f
	case KindText:
		return v.s
	case KindBlob:
		return v.blob
	case KindNative:
		return v.native
	default:
		return nil
	}
}

// String returns the debug form, e.g. Text("Jo") or Integer(44).
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "Null"
	case KindText:
		return fmt.Sprintf("Text(%q)", v.s)
	case KindBlob:
		return fmt.Sprintf("Blob(%x)", v.blob)
	case KindNative:
		return fmt.Sprintf("Native(%T %v)", v.native, v.native)
	default:
		return fmt.Sprintf("%s(%v)", v.kind, v.Any())
	}
}
