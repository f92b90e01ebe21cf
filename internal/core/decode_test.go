package core

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_String(t *testing.T) {
	tests := []struct {
		value Value
		want  string
	}{
		{NullValue(), "Null"},
		{BoolValue(true), "Bool(true)"},
		{IntegerValue(44), "Integer(44)"},
		{UIntegerValue(7), "UInteger(7)"},
		{RealValue(1.5), "Real(1.5)"},
		{TextValue("Jo"), `Text("Jo")`},
		{BlobValue([]byte{0xca, 0xfe}), "Blob(cafe)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.String())
		})
	}
}

func TestValue_Kind(t *testing.T) {
	assert.True(t, NullValue().IsNull())
	assert.True(t, Value{}.IsNull())
	assert.Equal(t, KindText, TextValue("x").Kind())
	assert.Equal(t, KindNative, NativeValue(time.Now()).Kind())
	assert.Nil(t, NullValue().Any())
	assert.Equal(t, int64(3), IntegerValue(3).Any())
}

func TestDecode_Integers(t *testing.T) {
	i, err := Decode[int](IntegerValue(44))
	require.NoError(t, err)
	assert.Equal(t, 44, i)

	i8, err := Decode[int8](IntegerValue(-128))
	require.NoError(t, err)
	assert.Equal(t, int8(-128), i8)

	u16, err := Decode[uint16](UIntegerValue(65535))
	require.NoError(t, err)
	assert.Equal(t, uint16(65535), u16)

	i64, err := Decode[int64](UIntegerValue(math.MaxInt64))
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), i64)

	u64, err := Decode[uint64](UIntegerValue(math.MaxUint64))
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), u64)
}

func TestDecode_IntegerRange(t *testing.T) {
	tests := []struct {
		name   string
		decode func() error
	}{
		{"int8 overflow", func() error { _, err := Decode[int8](IntegerValue(128)); return err }},
		{"uint8 negative", func() error { _, err := Decode[uint8](IntegerValue(-1)); return err }},
		{"uint8 overflow", func() error { _, err := Decode[uint8](UIntegerValue(256)); return err }},
		{"int64 from huge uint", func() error { _, err := Decode[int64](UIntegerValue(math.MaxUint64)); return err }},
		{"float32 overflow", func() error { _, err := Decode[float32](RealValue(math.MaxFloat64)); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.decode()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrRangeConversion), "got %v", err)
		})
	}
}

func TestDecode_Bool(t *testing.T) {
	b, err := Decode[bool](BoolValue(true))
	require.NoError(t, err)
	assert.True(t, b)

	b, err = Decode[bool](IntegerValue(0))
	require.NoError(t, err)
	assert.False(t, b)

	b, err = Decode[bool](IntegerValue(2))
	require.NoError(t, err)
	assert.True(t, b)

	_, err = Decode[bool](TextValue("true"))
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestDecode_Floats(t *testing.T) {
	f, err := Decode[float64](RealValue(2.5))
	require.NoError(t, err)
	assert.Equal(t, 2.5, f)

	f, err = Decode[float64](IntegerValue(3))
	require.NoError(t, err)
	assert.Equal(t, 3.0, f)

	f32, err := Decode[float32](RealValue(0.5))
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), f32)
}

func TestDecode_Strings(t *testing.T) {
	s, err := Decode[string](TextValue("Jo"))
	require.NoError(t, err)
	assert.Equal(t, "Jo", s)

	s, err = Decode[string](BlobValue([]byte("bytes")))
	require.NoError(t, err)
	assert.Equal(t, "bytes", s)

	_, err = Decode[string](BlobValue([]byte{0xff, 0xfe}))
	assert.ErrorIs(t, err, ErrInvalidType)

	b, err := Decode[[]byte](TextValue("abc"))
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), b)
}

func TestDecode_InvalidTypeError(t *testing.T) {
	_, err := Decode[int](TextValue("44"))
	require.Error(t, err)

	var ite *InvalidTypeError
	require.True(t, errors.As(err, &ite))
	assert.Equal(t, "int", ite.Target)
	assert.Equal(t, `Text("44")`, ite.Value)
	assert.ErrorIs(t, err, ErrInvalidType)

	_, err = Decode[string](NullValue())
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestDecode_Pointers(t *testing.T) {
	p, err := Decode[*string](NullValue())
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = Decode[*string](TextValue("Jo"))
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Jo", *p)

	n, err := Decode[*int64](IntegerValue(44))
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, int64(44), *n)
}

func TestDecode_Dates(t *testing.T) {
	d, err := Decode[Date](TextValue("2024-02-29"))
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, time.February, 29), d)

	_, err = Decode[Date](TextValue("29/02/2024"))
	assert.ErrorIs(t, err, ErrInvalidDate)

	ts := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	d, err = Decode[Date](NativeValue(ts))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", d.String())

	got, err := Decode[time.Time](TextValue("2024-03-01 10:30:00"))
	require.NoError(t, err)
	assert.True(t, ts.Equal(got))

	got, err = Decode[time.Time](TextValue("2024-03-01T10:30:00Z"))
	require.NoError(t, err)
	assert.True(t, ts.Equal(got))

	got, err = Decode[time.Time](NativeValue(ts))
	require.NoError(t, err)
	assert.True(t, ts.Equal(got))

	_, err = Decode[time.Time](TextValue("yesterday"))
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDecode_UUID(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	got, err := Decode[uuid.UUID](TextValue(id.String()))
	require.NoError(t, err)
	assert.Equal(t, id, got)

	got, err = Decode[uuid.UUID](BlobValue(id[:]))
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = Decode[uuid.UUID](TextValue("not-a-uuid"))
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestDecode_Any(t *testing.T) {
	v, err := Decode[any](TextValue("x"))
	require.NoError(t, err)
	assert.Equal(t, "x", v)

	v, err = Decode[any](NullValue())
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestDate(t *testing.T) {
	d, err := ParseDate("2023-12-31")
	require.NoError(t, err)
	assert.Equal(t, "2023-12-31", d.String())
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), d.Time())
	assert.False(t, d.IsZero())
	assert.True(t, Date{}.IsZero())
}
