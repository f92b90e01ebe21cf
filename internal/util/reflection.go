// Package util holds the reflection helpers behind struct-derived models.
package util

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrNotStruct is returned when a struct type is required.
var ErrNotStruct = errors.New("not a struct type")

// TagOptions are the flags following the column name in a db tag.
type TagOptions struct {
	PrimaryKey bool
	Unique     bool
}

// FieldInfo describes one mapped struct field.
type FieldInfo struct {
	Name   string       // Go field name
	Column string       // column name
	Index  []int        // index path, for fields promoted from embedded structs
	Type   reflect.Type // declared field type
	TagOptions
}

// ParseDBTag splits a db tag into the column name and its options.
//
// Supported formats:
//   - "column"
//   - "column,pk"
//   - "column,unique"
//   - ",pk"       (column name derived from the field name)
//   - "-"         (field skipped)
func ParseDBTag(tag string) (column string, opts TagOptions) {
	parts := strings.Split(tag, ",")
	column = strings.TrimSpace(parts[0])
	for _, part := range parts[1:] {
		switch strings.TrimSpace(part) {
		case "pk":
			opts.PrimaryKey = true
		case "unique":
			opts.Unique = true
		}
	}
	return column, opts
}

// StructFields returns the mapped fields of t in declaration order. Untagged
// fields are named by mapName. Exported anonymous struct fields without a db
// tag are flattened.
func StructFields(t reflect.Type, mapName func(string) string) ([]FieldInfo, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s", ErrNotStruct, t)
	}
	return structFields(t, nil, mapName), nil
}

func structFields(t reflect.Type, index []int, mapName func(string) string) []FieldInfo {
	var fields []FieldInfo
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		path := append(append([]int{}, index...), i)
		tag, tagged := field.Tag.Lookup("db")

		if field.Anonymous && !tagged && field.Type.Kind() == reflect.Struct {
			fields = append(fields, structFields(field.Type, path, mapName)...)
			continue
		}

		column, opts := ParseDBTag(tag)
		if column == "-" {
			continue
		}
		if column == "" {
			column = mapName(field.Name)
		}

		fields = append(fields, FieldInfo{
			Name:       field.Name,
			Column:     column,
			Index:      path,
			Type:       field.Type,
			TagOptions: opts,
		})
	}
	return fields
}

// SnakeCase converts a Go identifier to snake_case, e.g. "UserID" to "user_id".
func SnakeCase(name string) string {
	runes := []rune(name)
	out := make([]rune, 0, len(runes)+5)
	for i, r := range runes {
		upper := 'A' <= r && r <= 'Z'
		if upper && i > 0 && runes[i-1] != '_' {
			prevLower := runes[i-1] < 'A' || runes[i-1] > 'Z'
			nextLower := i+1 < len(runes) && 'a' <= runes[i+1] && runes[i+1] <= 'z'
			if prevLower || nextLower {
				out = append(out, '_')
			}
		}
		out = append(out, r)
	}
	return strings.ToLower(string(out))
}
