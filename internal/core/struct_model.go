package core

import (
	"fmt"
	"reflect"

	"github.com/coregx/dsql/internal/dialects"
	"github.com/coregx/dsql/internal/util"
)

// TableModel lets a struct choose its table name.
type TableModel interface {
	TableName() string
}

// StructModel derives a Model from the exported fields of struct type T.
//
// Columns follow field order. A db tag sets the column name and the pk and
// unique options; untagged fields use the snake_case field name and "-"
// skips a field. The table name comes from TableName when T implements
// TableModel, otherwise from the snake_case type name.
//
//	type User struct {
//		ID    int64  `db:"id,pk"`
//		Email string `db:"email,unique"`
//		Name  *string
//	}
//
// Pointer fields map NULL to nil. Field types without a column type fail
// with ErrInvalidModelType.
func StructModel[T any]() (*Model[T], error) {
	typ := reflect.TypeFor[T]()
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrInvalidModelType, typ)
	}

	infos, err := util.StructFields(typ, util.SnakeCase)
	if err != nil {
		return nil, WrapError(err, "struct model")
	}

	defs := make([]FieldDef, len(infos))
	for i, info := range infos {
		tag, err := typeTagOf(info.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: field %s.%s", err, typ.Name(), info.Name)
		}
		defs[i] = FieldDef{
			Name:       info.Column,
			Tag:        tag,
			PrimaryKey: info.PrimaryKey,
			Unique:     info.Unique,
		}
	}

	schema, err := NewSchema(tableNameOf[T](typ), defs...)
	if err != nil {
		return nil, err
	}

	toParams := func(item T) ([]Param, error) {
		rv := reflect.ValueOf(&item).Elem()
		params := make([]Param, len(infos))
		for i, info := range infos {
			p, err := ToParam(rv.FieldByIndex(info.Index).Interface())
			if err != nil {
				return nil, WrapError(err, "field "+info.Name)
			}
			params[i] = p
		}
		return params, nil
	}

	fromRow := func(row Row) (T, error) {
		var out, zero T
		rv := reflect.ValueOf(&out).Elem()
		for i, info := range infos {
			v, ok, err := row.Get(i)
			if !ok {
				return zero, &RowItemError{Index: i}
			}
			if err == nil {
				err = decodeInto(v, rv.FieldByIndex(info.Index))
			}
			if err != nil {
				return zero, &RowItemError{Index: i, Err: err}
			}
		}
		return out, nil
	}

	return NewModel(schema, toParams, fromRow), nil
}

func tableNameOf[T any](typ reflect.Type) string {
	var zero T
	if tm, ok := any(zero).(TableModel); ok {
		return tm.TableName()
	}
	if tm, ok := any(&zero).(TableModel); ok {
		return tm.TableName()
	}
	return util.SnakeCase(typ.Name())
}

func typeTagOf(t reflect.Type) (dialects.TypeTag, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t {
	case timeType:
		return dialects.TagDateTime, nil
	case dateType:
		return dialects.TagNaiveDate, nil
	case uuidType:
		return dialects.TagString, nil
	}
	switch t.Kind() {
	case reflect.Bool:
		return dialects.TagBool, nil
	case reflect.Int8:
		return dialects.TagI8, nil
	case reflect.Int16:
		return dialects.TagI16, nil
	case reflect.Int32:
		return dialects.TagI32, nil
	case reflect.Int, reflect.Int64:
		return dialects.TagI64, nil
	case reflect.Uint8:
		return dialects.TagU8, nil
	case reflect.Uint16:
		return dialects.TagU16, nil
	case reflect.Uint32:
		return dialects.TagU32, nil
	case reflect.Uint64:
		return dialects.TagU64, nil
	case reflect.Uint:
		return dialects.TagUsize, nil
	case reflect.Float32:
		return dialects.TagF32, nil
	case reflect.Float64:
		return dialects.TagF64, nil
	case reflect.String:
		return dialects.TagString, nil
	default:
		return "", fmt.Errorf("%w: no column type for %s", ErrInvalidModelType, t)
	}
}
