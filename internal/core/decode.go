package core

import (
	"fmt"
	"math"
	"reflect"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	timeType  = reflect.TypeOf(time.Time{})
	dateType  = reflect.TypeOf(Date{})
	uuidType  = reflect.TypeOf(uuid.UUID{})
	bytesType = reflect.TypeOf([]byte(nil))
)

// Decode converts v into T.
//
// Each target accepts its natural variants: Integer and UInteger for integers
// (range checked), Bool and Integer for bool, Real and Integer for floats, Text
// and UTF-8 Blob for string, Text for Date and time.Time. A pointer target maps
// Null to nil. Anything else fails with *InvalidTypeError.
func Decode[T any](v Value) (T, error) {
	var out T
	err := decodeInto(v, reflect.ValueOf(&out).Elem())
	return out, err
}

func decodeInto(v Value, dst reflect.Value) error {
	typ := dst.Type()

	if typ.Kind() == reflect.Ptr {
		if v.IsNull() {
			dst.Set(reflect.Zero(typ))
			return nil
		}
		elem := reflect.New(typ.Elem())
		if err := decodeInto(v, elem.Elem()); err != nil {
			return err
		}
		dst.Set(elem)
		return nil
	}

	switch typ {
	case timeType:
		return decodeTime(v, dst)
	case dateType:
		return decodeDate(v, dst)
	case uuidType:
		return decodeUUID(v, dst)
	case bytesType:
		return decodeBytes(v, dst)
	}

	switch typ.Kind() {
	case reflect.Bool:
		return decodeBool(v, dst)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decodeInt(v, dst)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return decodeUint(v, dst)
	case reflect.Float32, reflect.Float64:
		return decodeFloat(v, dst)
	case reflect.String:
		return decodeString(v, dst)
	case reflect.Interface:
		if typ.NumMethod() == 0 {
			if !v.IsNull() {
				dst.Set(reflect.ValueOf(v.Any()))
			}
			return nil
		}
	}

	if v.Kind() == KindNative && v.native != nil {
		nv := reflect.ValueOf(v.native)
		if nv.Type().AssignableTo(typ) {
			dst.Set(nv)
			return nil
		}
	}
	return invalidType(dst, v)
}

func invalidType(dst reflect.Value, v Value) error {
	return &InvalidTypeError{Target: dst.Type().String(), Value: v.String()}
}

func rangeError(dst reflect.Value, v Value) error {
	return fmt.Errorf("%w: %s does not fit %s", ErrRangeConversion, v, dst.Type())
}

func decodeBool(v Value, dst reflect.Value) error {
	switch v.kind {
	case KindBool:
		dst.SetBool(v.b)
	case KindInteger:
		dst.SetBool(v.i != 0)
	default:
		return invalidType(dst, v)
	}
	return nil
}

func decodeInt(v Value, dst reflect.Value) error {
	var i int64
	switch v.kind {
	case KindInteger:
		i = v.i
	case KindUInteger:
		if v.u > math.MaxInt64 {
			return rangeError(dst, v)
		}
		i = int64(v.u)
	default:
		return invalidType(dst, v)
	}
	if dst.OverflowInt(i) {
		return rangeError(dst, v)
	}
	dst.SetInt(i)
	return nil
}

func decodeUint(v Value, dst reflect.Value) error {
	var u uint64
	switch v.kind {
	case KindInteger:
		if v.i < 0 {
			return rangeError(dst, v)
		}
		u = uint64(v.i)
	case KindUInteger:
		u = v.u
	default:
		return invalidType(dst, v)
	}
	if dst.OverflowUint(u) {
		return rangeError(dst, v)
	}
	dst.SetUint(u)
	return nil
}

func decodeFloat(v Value, dst reflect.Value) error {
	var f float64
	switch v.kind {
	case KindReal:
		f = v.f
	case KindInteger:
		f = float64(v.i)
	default:
		return invalidType(dst, v)
	}
	if dst.OverflowFloat(f) {
		return rangeError(dst, v)
	}
	dst.SetFloat(f)
	return nil
}

func decodeString(v Value, dst reflect.Value) error {
	switch v.kind {
	case KindText:
		dst.SetString(v.s)
	case KindBlob:
		if !utf8.Valid(v.blob) {
			return invalidType(dst, v)
		}
		dst.SetString(string(v.blob))
	default:
		return invalidType(dst, v)
	}
	return nil
}

func decodeBytes(v Value, dst reflect.Value) error {
	switch v.kind {
	case KindBlob:
		dst.SetBytes(append([]byte(nil), v.blob...))
	case KindText:
		dst.SetBytes([]byte(v.s))
	default:
		return invalidType(dst, v)
	}
	return nil
}

func decodeDate(v Value, dst reflect.Value) error {
	switch v.kind {
	case KindText:
		d, err := ParseDate(v.s)
		if err != nil {
			return err
		}
		dst.Set(reflect.ValueOf(d))
	case KindNative:
		t, ok := v.native.(time.Time)
		if !ok {
			return invalidType(dst, v)
		}
		dst.Set(reflect.ValueOf(DateOf(t)))
	default:
		return invalidType(dst, v)
	}
	return nil
}

func decodeTime(v Value, dst reflect.Value) error {
	switch v.kind {
	case KindText:
		t, err := parseDateTime(v.s)
		if err != nil {
			return err
		}
		dst.Set(reflect.ValueOf(t))
	case KindNative:
		t, ok := v.native.(time.Time)
		if !ok {
			return invalidType(dst, v)
		}
		dst.Set(reflect.ValueOf(t))
	default:
		return invalidType(dst, v)
	}
	return nil
}

func decodeUUID(v Value, dst reflect.Value) error {
	var (
		id  uuid.UUID
		err error
	)
	switch v.kind {
	case KindText:
		id, err = uuid.Parse(v.s)
	case KindBlob:
		if len(v.blob) == 16 {
			id, err = uuid.FromBytes(v.blob)
		} else {
			id, err = uuid.ParseBytes(v.blob)
		}
	default:
		return invalidType(dst, v)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", invalidType(dst, v), err)
	}
	dst.Set(reflect.ValueOf(id))
	return nil
}
