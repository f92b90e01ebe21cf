package dialects

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allFlavors = []Flavor{SQLite, MySQL, PostgreSQL}

func TestFromDriver(t *testing.T) {
	tests := []struct {
		driver string
		want   Flavor
	}{
		{"sqlite", SQLite},
		{"sqlite3", SQLite},
		{"mysql", MySQL},
		{"postgres", PostgreSQL},
		{"postgresql", PostgreSQL},
		{"pgx", PostgreSQL},
		{"MySQL", MySQL},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			got, err := FromDriver(tt.driver)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := FromDriver("oracle")
	assert.ErrorIs(t, err, ErrUnsupportedDialect)
}

func TestFlavor_String(t *testing.T) {
	assert.Equal(t, "SQLite", SQLite.String())
	assert.Equal(t, "MySQL", MySQL.String())
	assert.Equal(t, "PostgreSQL", PostgreSQL.String())
	assert.Equal(t, "Flavor(0)", Flavor(0).String())
	assert.False(t, Flavor(0).Valid())
	assert.True(t, PostgreSQL.Valid())
}

func TestFlavor_Column(t *testing.T) {
	tests := []struct {
		flavor Flavor
		name   string
		want   string
	}{
		{SQLite, "name", "`name`"},
		{MySQL, "name", "`name`"},
		{PostgreSQL, "name", "name"},
		{MySQL, "we`ird", "`we``ird`"},
	}

	for _, tt := range tests {
		t.Run(tt.flavor.String()+"/"+tt.name, func(t *testing.T) {
			got, err := tt.flavor.Column(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			table, err := tt.flavor.Table(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, table)
		})
	}
}

func TestFlavor_ColumnRoundTrip(t *testing.T) {
	names := []string{"id", "first_name", "Age", "weird name", "x1", "über"}

	for _, f := range allFlavors {
		for _, name := range names {
			quoted, err := f.Column(name)
			require.NoError(t, err)
			assert.Equal(t, name, strings.Trim(quoted, "`"), "%s %q", f, name)
		}
	}
}

func TestFlavor_ColumnErrors(t *testing.T) {
	_, err := SQLite.Column("")
	assert.ErrorIs(t, err, ErrEmptyIdentifier)

	_, err = Flavor(42).Column("id")
	assert.ErrorIs(t, err, ErrUnsupportedDialect)

	_, err = Flavor(0).Table("users")
	assert.ErrorIs(t, err, ErrUnsupportedDialect)
}

func TestFlavor_Value(t *testing.T) {
	for _, f := range []Flavor{SQLite, MySQL} {
		for i := 0; i < 3; i++ {
			got, err := f.Value(i)
			require.NoError(t, err)
			assert.Equal(t, "?", got)
		}
	}

	got, err := PostgreSQL.Value(0)
	require.NoError(t, err)
	assert.Equal(t, "$1", got)

	got, err = PostgreSQL.Value(9)
	require.NoError(t, err)
	assert.Equal(t, "$10", got)

	_, err = Flavor(0).Value(0)
	assert.ErrorIs(t, err, ErrUnsupportedDialect)
}

func TestFlavor_RowID(t *testing.T) {
	got, err := SQLite.RowID()
	require.NoError(t, err)
	assert.Equal(t, "rowid", got)

	got, err = PostgreSQL.RowID()
	require.NoError(t, err)
	assert.Equal(t, "CTID", got)

	got, err = MySQL.RowID()
	assert.ErrorIs(t, err, ErrRowIDNotSupported)
	assert.Empty(t, got)
}

func TestFlavor_NoLimit(t *testing.T) {
	assert.Equal(t, "-1", SQLite.NoLimit())
	assert.Equal(t, "18446744073709551615", MySQL.NoLimit())
	assert.Empty(t, PostgreSQL.NoLimit())
}

func TestFlavor_SQLType(t *testing.T) {
	tests := []struct {
		tag  TypeTag
		want [3]string // SQLite, MySQL, PostgreSQL
	}{
		{TagI8, [3]string{"INTEGER", "INTEGER", "SMALLINT"}},
		{TagI16, [3]string{"INTEGER", "INTEGER", "SMALLINT"}},
		{TagU16, [3]string{"INTEGER", "INTEGER", "INTEGER"}},
		{TagI32, [3]string{"INTEGER", "INTEGER", "INTEGER"}},
		{TagU32, [3]string{"INTEGER", "BIGINT", "BIGINT"}},
		{TagI64, [3]string{"INTEGER", "BIGINT", "BIGINT"}},
		{TagUsize, [3]string{"INTEGER", "BIGINT", "BIGINT"}},
		{TagBool, [3]string{"BOOL", "BOOL", "BOOL"}},
		{TagF32, [3]string{"FLOAT", "FLOAT", "FLOAT4"}},
		{TagF64, [3]string{"DOUBLE", "DOUBLE", "FLOAT8"}},
		{TagString, [3]string{"TEXT", "TEXT", "TEXT"}},
		{TagDateTime, [3]string{"DATETIME", "DATETIME", "TIMESTAMPTZ"}},
		{TagNaiveDateTime, [3]string{"DATETIME", "DATETIME", "TIMESTAMP"}},
		{TagNaiveDate, [3]string{"DATE", "DATE", "DATE"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.tag), func(t *testing.T) {
			for i, f := range allFlavors {
				got, err := f.SQLType(tt.tag)
				require.NoError(t, err)
				assert.Equal(t, tt.want[i], got.Raw, f.String())
				assert.Equal(t, tt.want[i]+" NULL", got.String())
				assert.Equal(t, tt.want[i]+" NOT NULL", got.NotNull().String())
			}
		})
	}
}

func TestFlavor_SQLTypeEveryTagMapped(t *testing.T) {
	for _, f := range allFlavors {
		for _, tag := range Tags {
			_, err := f.SQLType(tag)
			assert.NoError(t, err, "%s %s", f, tag)
		}
	}
}

func TestFlavor_SQLTypeUnsupported(t *testing.T) {
	_, err := PostgreSQL.SQLType("u128")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSQLTypeNotSupported)

	var typeErr *SQLTypeError
	require.True(t, errors.As(err, &typeErr))
	assert.Equal(t, PostgreSQL, typeErr.Flavor)
	assert.Equal(t, TypeTag("u128"), typeErr.Tag)
	assert.Contains(t, err.Error(), "PostgreSQL")
	assert.Contains(t, err.Error(), "u128")

	_, err = Flavor(0).SQLType(TagI32)
	assert.ErrorIs(t, err, ErrUnsupportedDialect)
}

func TestFlavor_MaxParams(t *testing.T) {
	n, err := SQLite.MaxParams()
	require.NoError(t, err)
	assert.Equal(t, 32766, n)

	n, err = MySQL.MaxParams()
	require.NoError(t, err)
	assert.Equal(t, 65535, n)

	n, err = PostgreSQL.MaxParams()
	require.NoError(t, err)
	assert.Equal(t, 65535, n)

	_, err = Flavor(7).MaxParams()
	assert.ErrorIs(t, err, ErrUnsupportedDialect)
}

func TestTypeTag_Valid(t *testing.T) {
	assert.True(t, TagNaiveDate.Valid())
	assert.False(t, TypeTag("Vec<u8>").Valid())
}
