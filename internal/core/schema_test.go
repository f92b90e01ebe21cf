package core

import (
	"strings"
	"testing"

	"github.com/coregx/dsql/internal/dialects"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func peopleSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := NewSchema("people",
		FieldDef{Name: "id", Tag: dialects.TagI64, PrimaryKey: true},
		FieldDef{Name: "name", Tag: dialects.TagString},
		FieldDef{Name: "email", Tag: dialects.TagString, Unique: true},
		FieldDef{Name: "age", Tag: dialects.TagU8},
		FieldDef{Name: "score", Tag: dialects.TagF64},
		FieldDef{Name: "born", Tag: dialects.TagNaiveDate},
		FieldDef{Name: "updated", Tag: dialects.TagDateTime},
		FieldDef{Name: "active", Tag: dialects.TagBool},
	)
	require.NoError(t, err)
	return s
}

func TestSchema_Statements(t *testing.T) {
	s := peopleSchema(t)
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)

	flavors := map[string]dialects.Flavor{
		"sqlite":   dialects.SQLite,
		"mysql":    dialects.MySQL,
		"postgres": dialects.PostgreSQL,
	}

	for name, f := range flavors {
		t.Run(name, func(t *testing.T) {
			var sb strings.Builder
			for _, build := range []func(dialects.Flavor) (string, error){
				s.CreateStmt,
				s.CreateIfNotExistsStmt,
				s.DropStmt,
				s.SelectStmt,
				s.InsertStmt,
				s.UpdateStmt,
				s.DeleteStmt,
				s.CountStmt,
			} {
				stmt, err := build(f)
				require.NoError(t, err)
				sb.WriteString(stmt)
				sb.WriteByte('\n')
			}
			g.Assert(t, "schema_"+name, []byte(sb.String()))
		})
	}
}

func TestSchema_Accessors(t *testing.T) {
	s := peopleSchema(t)
	assert.Equal(t, "people", s.TableName())
	assert.Len(t, s.Fields(), 8)

	pk, ok := s.PrimaryKey()
	require.True(t, ok)
	assert.Equal(t, "id", pk.Name)

	fields := s.Fields()
	fields[0].Name = "changed"
	assert.Equal(t, "id", s.Fields()[0].Name)

	noPK, err := NewSchema("log", FieldDef{Name: "line", Tag: dialects.TagString})
	require.NoError(t, err)
	_, ok = noPK.PrimaryKey()
	assert.False(t, ok)

	create, err := noPK.CreateStmt(dialects.SQLite)
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE `log` ( `line` TEXT NULL )", create)
}

func TestNewSchema_Validation(t *testing.T) {
	tests := []struct {
		name   string
		table  string
		fields []FieldDef
		want   error
	}{
		{
			name:   "text primary key",
			table:  "people",
			fields: []FieldDef{{Name: "name", Tag: dialects.TagString, PrimaryKey: true}},
			want:   ErrTextPrimaryKey,
		},
		{
			name:  "two primary keys",
			table: "people",
			fields: []FieldDef{
				{Name: "a", Tag: dialects.TagI64, PrimaryKey: true},
				{Name: "b", Tag: dialects.TagI64, PrimaryKey: true},
			},
			want: ErrDuplicatePrimaryKey,
		},
		{
			name:  "duplicate column",
			table: "people",
			fields: []FieldDef{
				{Name: "a", Tag: dialects.TagI64},
				{Name: "a", Tag: dialects.TagString},
			},
			want: ErrDuplicateColumn,
		},
		{
			name:   "invalid table",
			table:  "people; DROP",
			fields: []FieldDef{{Name: "a", Tag: dialects.TagI64}},
			want:   ErrInvalidIdentifier,
		},
		{
			name:   "invalid column",
			table:  "people",
			fields: []FieldDef{{Name: "1a", Tag: dialects.TagI64}},
			want:   ErrInvalidIdentifier,
		},
		{
			name:   "unknown tag",
			table:  "people",
			fields: []FieldDef{{Name: "a", Tag: "u128"}},
			want:   ErrSQLTypeNotSupported,
		},
		{
			name:  "no fields",
			table: "people",
			want:  ErrInvalidModelType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSchema(tt.table, tt.fields...)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSchema_InvalidFlavor(t *testing.T) {
	s := peopleSchema(t)
	_, err := s.CreateStmt(dialects.Flavor(0))
	assert.ErrorIs(t, err, ErrUnsupportedDialect)
	_, err = s.InsertStmt(dialects.Flavor(7))
	assert.ErrorIs(t, err, ErrUnsupportedDialect)
}
