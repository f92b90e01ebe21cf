package core

import (
	"strconv"
	"strings"

	"github.com/coregx/dsql/internal/dialects"
	"github.com/coregx/dsql/internal/tracer"
)

// Statement is an immutable base statement with optional WHERE, ORDER BY,
// LIMIT and OFFSET clauses. Each builder method returns a modified copy.
//
//	sql, err := core.NewStatement("SELECT `name` FROM people").
//		Where(core.Col("age").Ge(18)).
//		OrderBy(core.Col("name").Asc()).
//		Limit(10).
//		Build(dialects.SQLite)
type Statement struct {
	base   string
	filter Filter
	order  Order
	limit  *uint64
	offset *uint64
}

// NewStatement starts a statement from base SQL.
func NewStatement(base string) Statement {
	return Statement{base: base}
}

// Where sets the filter. A nil filter clears it.
func (s Statement) Where(f Filter) Statement {
	s.filter = f
	return s
}

// OrderBy sets the order. A nil order clears it.
func (s Statement) OrderBy(o Order) Statement {
	s.order = o
	return s
}

func (s Statement) Limit(n uint64) Statement {
	s.limit = &n
	return s
}

// Offset sets the number of rows to skip. An offset of zero renders nothing.
func (s Statement) Offset(n uint64) Statement {
	s.offset = &n
	return s
}

// Build renders the statement for f.
func (s Statement) Build(f dialects.Flavor) (string, error) {
	return Assemble(f, s.base, s.filter, s.order, s.limit, s.offset)
}

// BuildSimple renders the statement without a dialect. Identifiers are
// quoted with back-ticks and no dialect restrictions are checked.
func (s Statement) BuildSimple() (string, error) {
	return assemble(simpleRenderer{}, s.base, s.filter, s.order, s.limit, s.offset)
}

// Assemble appends WHERE, ORDER BY, LIMIT and OFFSET to base, in that order.
// Empty filters and orders are omitted, nil limit and offset are omitted, and
// so is an offset of zero. An offset without a limit gets the flavor's
// NoLimit on SQLite and MySQL.
//
// PostgreSQL has no LIMIT or OFFSET on UPDATE and DELETE; such statements
// fail with ErrUpdateWithLimitOffsetNotSupported.
func Assemble(f dialects.Flavor, base string, filter Filter, order Order, limit, offset *uint64) (string, error) {
	if !f.Valid() {
		return "", WrapError(ErrUnsupportedDialect, f.String())
	}
	if f == dialects.PostgreSQL && limitsMutation(base, limit, offset) {
		return "", WrapError(ErrUpdateWithLimitOffsetNotSupported, f.String())
	}
	return assemble(flavorRenderer(f), base, filter, order, limit, offset)
}

// limitsMutation reports whether base is an UPDATE or DELETE carrying a
// LIMIT or a non-zero OFFSET.
func limitsMutation(base string, limit, offset *uint64) bool {
	if limit == nil && (offset == nil || *offset == 0) {
		return false
	}
	switch tracer.DetectOperation(base) {
	case "UPDATE", "DELETE":
		return true
	}
	return false
}

func assemble(r renderer, base string, filter Filter, order Order, limit, offset *uint64) (string, error) {
	var sb strings.Builder
	sb.WriteString(base)

	where, err := renderFilter(r, filter)
	if err != nil {
		return "", err
	}
	if where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}

	orderBy, err := renderOrder(r, order)
	if err != nil {
		return "", err
	}
	if orderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(orderBy)
	}

	hasOffset := offset != nil && *offset > 0
	if limit != nil {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.FormatUint(*limit, 10))
	} else if n := r.noLimit(); hasOffset && n != "" {
		sb.WriteString(" LIMIT ")
		sb.WriteString(n)
	}
	if hasOffset {
		sb.WriteString(" OFFSET ")
		sb.WriteString(strconv.FormatUint(*offset, 10))
	}
	return sb.String(), nil
}
