package core

import (
	"strings"

	"github.com/coregx/dsql/internal/dialects"
	"github.com/coregx/dsql/internal/security"
)

// Filter renders a WHERE clause body for a dialect. An empty result means
// no filtering.
type Filter interface {
	BuildFilter(f dialects.Flavor) (string, error)
}

// SimpleFilter renders a WHERE clause body without a dialect, quoting
// identifiers with back-ticks.
type SimpleFilter interface {
	BuildSimpleFilter() (string, error)
}

// Operator is a comparison operator of a Condition.
type Operator string

// Condition operators.
const (
	OpEqual        Operator = "="
	OpNotEqual     Operator = "!="
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpIsNull       Operator = "IS NULL"
	OpIsNotNull    Operator = "IS NOT NULL"
)

func (op Operator) unary() bool {
	return op == OpIsNull || op == OpIsNotNull
}

// renderer abstracts identifier quoting and literal rendering so that every
// expression type renders through one code path in both modes.
type renderer interface {
	ident(name string) (string, error)
	literal(p Param) (string, error)
	// noLimit is the LIMIT written before an OFFSET given without one, or "".
	noLimit() string
}

type flavorRenderer dialects.Flavor

func (r flavorRenderer) ident(name string) (string, error) {
	return dialects.Flavor(r).Column(name)
}

func (r flavorRenderer) literal(p Param) (string, error) {
	return p.Literal(dialects.Flavor(r))
}

func (r flavorRenderer) noLimit() string { return dialects.Flavor(r).NoLimit() }

type simpleRenderer struct{}

func (simpleRenderer) ident(name string) (string, error) {
	if name == "" {
		return "", dialects.ErrEmptyIdentifier
	}
	return "`" + strings.ReplaceAll(name, "`", "``") + "`", nil
}

func (simpleRenderer) literal(p Param) (string, error) {
	return p.simpleLiteral()
}

func (simpleRenderer) noLimit() string { return "" }

func qualified(r renderer, table, column string) (string, error) {
	col, err := r.ident(column)
	if err != nil {
		return "", err
	}
	if table == "" {
		return col, nil
	}
	tbl, err := r.ident(table)
	if err != nil {
		return "", err
	}
	return tbl + "." + col, nil
}

// Condition compares one column against a value, or tests it for NULL.
type Condition struct {
	Table  string // optional qualifier
	Column string
	Op     Operator
	Value  any // converted with ToParam; ignored for IS NULL and IS NOT NULL
}

func (c *Condition) BuildFilter(f dialects.Flavor) (string, error) {
	return c.render(flavorRenderer(f))
}

func (c *Condition) BuildSimpleFilter() (string, error) {
	return c.render(simpleRenderer{})
}

func (c *Condition) render(r renderer) (string, error) {
	col, err := qualified(r, c.Table, c.Column)
	if err != nil {
		return "", err
	}
	if c.Op.unary() {
		return col + " " + string(c.Op), nil
	}
	p, err := ToParam(c.Value)
	if err != nil {
		return "", WrapError(err, "filter "+c.Column)
	}
	lit, err := r.literal(p)
	if err != nil {
		return "", err
	}
	return col + " " + string(c.Op) + " " + lit, nil
}

// Junction joins filters with AND or OR.
type Junction struct {
	Op      string
	Filters []Filter
}

// And joins filters with AND. Nil and empty filters are skipped; a single
// remaining filter renders unchanged, two or more render as ( a AND b ... ).
func And(filters ...Filter) *Junction {
	return &Junction{Op: "AND", Filters: filters}
}

// Or joins filters with OR, following the same rules as And.
func Or(filters ...Filter) *Junction {
	return &Junction{Op: "OR", Filters: filters}
}

func (j *Junction) BuildFilter(f dialects.Flavor) (string, error) {
	return j.render(flavorRenderer(f))
}

func (j *Junction) BuildSimpleFilter() (string, error) {
	return j.render(simpleRenderer{})
}

func (j *Junction) render(r renderer) (string, error) {
	parts := make([]string, 0, len(j.Filters))
	for _, child := range j.Filters {
		s, err := renderFilter(r, child)
		if err != nil {
			return "", err
		}
		if s != "" {
			parts = append(parts, s)
		}
	}
	switch len(parts) {
	case 0:
		return "", nil
	case 1:
		return parts[0], nil
	default:
		return "( " + strings.Join(parts, " "+j.Op+" ") + " )", nil
	}
}

// renderFilter renders any Filter through r, falling back to the public
// interfaces for filter types defined outside this package.
func renderFilter(r renderer, filter Filter) (string, error) {
	if filter == nil {
		return "", nil
	}
	if internal, ok := filter.(interface{ render(renderer) (string, error) }); ok {
		return internal.render(r)
	}
	switch r := r.(type) {
	case flavorRenderer:
		return filter.BuildFilter(dialects.Flavor(r))
	default:
		simple, ok := filter.(SimpleFilter)
		if !ok {
			return "", ErrFlavorRequired
		}
		return simple.BuildSimpleFilter()
	}
}

// RawFilter is a caller-written WHERE fragment, used as-is after validation.
type RawFilter struct {
	SQL string
}

var fragmentValidator = security.NewValidator()

// Raw returns a filter rendering sql unchanged. Fragments containing
// statement separators, comments or other dangerous constructs fail with
// ErrUnsafeFilter when rendered.
func Raw(sql string) *RawFilter {
	return &RawFilter{SQL: sql}
}

func (f *RawFilter) BuildFilter(_ dialects.Flavor) (string, error) {
	return f.render(nil)
}

func (f *RawFilter) BuildSimpleFilter() (string, error) {
	return f.render(nil)
}

func (f *RawFilter) render(_ renderer) (string, error) {
	if err := fragmentValidator.ValidateFragment(f.SQL); err != nil {
		return "", err
	}
	return f.SQL, nil
}
