package core

import (
	"fmt"
	"strings"

	"github.com/coregx/dsql/internal/dialects"
	"github.com/coregx/dsql/internal/security"
)

// Statements provides the per-dialect SQL for one record type.
type Statements interface {
	TableName() string
	CreateStmt(f dialects.Flavor) (string, error)
	CreateIfNotExistsStmt(f dialects.Flavor) (string, error)
	DropStmt(f dialects.Flavor) (string, error)
	SelectStmt(f dialects.Flavor) (string, error)
	InsertStmt(f dialects.Flavor) (string, error)
	UpdateStmt(f dialects.Flavor) (string, error)
	DeleteStmt(f dialects.Flavor) (string, error)
	CountStmt(f dialects.Flavor) (string, error)
}

// FieldDef describes one column of a Schema.
type FieldDef struct {
	Name       string
	Tag        dialects.TypeTag
	PrimaryKey bool
	Unique     bool
}

// Schema is a validated table definition. It is immutable once built.
type Schema struct {
	table  string
	fields []FieldDef
	pk     int // index into fields, -1 without a primary key
}

var _ Statements = (*Schema)(nil)

// NewSchema registers a table with its fields in column order.
//
// Table and column names must be plain identifiers, column names must be
// unique, every tag must be supported and at most one field may be the
// primary key. A String primary key fails with ErrTextPrimaryKey.
func NewSchema(table string, fields ...FieldDef) (*Schema, error) {
	if err := security.ValidateIdentifier(table); err != nil {
		return nil, WrapError(err, "schema table")
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: table %s has no fields", ErrInvalidModelType, table)
	}

	s := &Schema{table: table, fields: make([]FieldDef, len(fields)), pk: -1}
	copy(s.fields, fields)

	seen := make(map[string]struct{}, len(fields))
	for i, fd := range s.fields {
		if err := security.ValidateIdentifier(fd.Name); err != nil {
			return nil, WrapError(err, "schema "+table)
		}
		if _, dup := seen[fd.Name]; dup {
			return nil, fmt.Errorf("%w: %s.%s", ErrDuplicateColumn, table, fd.Name)
		}
		seen[fd.Name] = struct{}{}

		if !fd.Tag.Valid() {
			return nil, fmt.Errorf("%w: %s.%s has tag %q", ErrSQLTypeNotSupported, table, fd.Name, string(fd.Tag))
		}
		if !fd.PrimaryKey {
			continue
		}
		if s.pk >= 0 {
			return nil, fmt.Errorf("%w: %s and %s", ErrDuplicatePrimaryKey, s.fields[s.pk].Name, fd.Name)
		}
		if fd.Tag == dialects.TagString {
			return nil, fmt.Errorf("%w: %s.%s", ErrTextPrimaryKey, table, fd.Name)
		}
		s.pk = i
	}
	return s, nil
}

// TableName returns the registered table name.
func (s *Schema) TableName() string { return s.table }

// Fields returns a copy of the field definitions.
func (s *Schema) Fields() []FieldDef {
	out := make([]FieldDef, len(s.fields))
	copy(out, s.fields)
	return out
}

// PrimaryKey returns the primary key field, if any.
func (s *Schema) PrimaryKey() (FieldDef, bool) {
	if s.pk < 0 {
		return FieldDef{}, false
	}
	return s.fields[s.pk], true
}

// CreateStmt renders CREATE TABLE t ( columns, PRIMARY KEY ( pk ), CONSTRAINT t_c_unique UNIQUE ( c ) ).
func (s *Schema) CreateStmt(f dialects.Flavor) (string, error) {
	return s.create(f, "CREATE TABLE ")
}

func (s *Schema) CreateIfNotExistsStmt(f dialects.Flavor) (string, error) {
	return s.create(f, "CREATE TABLE IF NOT EXISTS ")
}

func (s *Schema) create(f dialects.Flavor, verb string) (string, error) {
	table, err := f.Table(s.table)
	if err != nil {
		return "", err
	}

	defs := make([]string, 0, len(s.fields)+2)
	for i, fd := range s.fields {
		col, err := f.Column(fd.Name)
		if err != nil {
			return "", err
		}
		typ, err := f.SQLType(fd.Tag)
		if err != nil {
			return "", WrapError(err, s.table+"."+fd.Name)
		}
		if i == s.pk {
			typ = typ.NotNull()
		}
		defs = append(defs, col+" "+typ.String())
	}

	if s.pk >= 0 {
		col, err := f.Column(s.fields[s.pk].Name)
		if err != nil {
			return "", err
		}
		defs = append(defs, "PRIMARY KEY ( "+col+" )")
	}

	for _, fd := range s.fields {
		if !fd.Unique {
			continue
		}
		name, err := f.Column(s.table + "_" + fd.Name + "_unique")
		if err != nil {
			return "", err
		}
		col, err := f.Column(fd.Name)
		if err != nil {
			return "", err
		}
		// MySQL cannot index TEXT without a key prefix length.
		if f == dialects.MySQL && fd.Tag == dialects.TagString {
			col += "(255)"
		}
		defs = append(defs, "CONSTRAINT "+name+" UNIQUE ( "+col+" )")
	}

	return verb + table + " ( " + strings.Join(defs, ", ") + " )", nil
}

func (s *Schema) DropStmt(f dialects.Flavor) (string, error) {
	table, err := f.Table(s.table)
	if err != nil {
		return "", err
	}
	return "DROP TABLE IF EXISTS " + table, nil
}

func (s *Schema) SelectStmt(f dialects.Flavor) (string, error) {
	table, cols, err := s.quoted(f)
	if err != nil {
		return "", err
	}
	return "SELECT " + strings.Join(cols, ", ") + " FROM " + table, nil
}

func (s *Schema) InsertStmt(f dialects.Flavor) (string, error) {
	table, cols, err := s.quoted(f)
	if err != nil {
		return "", err
	}
	placeholders := make([]string, len(cols))
	for i := range cols {
		if placeholders[i], err = f.Value(i); err != nil {
			return "", err
		}
	}
	return "INSERT INTO " + table + " (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(placeholders, ", ") + ")", nil
}

func (s *Schema) UpdateStmt(f dialects.Flavor) (string, error) {
	table, cols, err := s.quoted(f)
	if err != nil {
		return "", err
	}
	sets := make([]string, len(cols))
	for i, col := range cols {
		ph, err := f.Value(i)
		if err != nil {
			return "", err
		}
		sets[i] = col + " = " + ph
	}
	return "UPDATE " + table + " SET " + strings.Join(sets, ", "), nil
}

func (s *Schema) DeleteStmt(f dialects.Flavor) (string, error) {
	table, err := f.Table(s.table)
	if err != nil {
		return "", err
	}
	return "DELETE FROM " + table, nil
}

func (s *Schema) CountStmt(f dialects.Flavor) (string, error) {
	table, err := f.Table(s.table)
	if err != nil {
		return "", err
	}
	return "SELECT COUNT(*) FROM " + table, nil
}

func (s *Schema) quoted(f dialects.Flavor) (string, []string, error) {
	table, err := f.Table(s.table)
	if err != nil {
		return "", nil, err
	}
	cols := make([]string, len(s.fields))
	for i, fd := range s.fields {
		if cols[i], err = f.Column(fd.Name); err != nil {
			return "", nil, err
		}
	}
	return table, cols, nil
}
