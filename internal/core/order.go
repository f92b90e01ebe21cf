package core

import (
	"strings"

	"github.com/coregx/dsql/internal/dialects"
)

// Order renders an ORDER BY clause body for a dialect.
type Order interface {
	BuildOrder(f dialects.Flavor) (string, error)
}

// SimpleOrder renders an ORDER BY clause body without a dialect.
type SimpleOrder interface {
	BuildSimpleOrder() (string, error)
}

// Direction is the sort direction of an OrderTerm.
type Direction string

const (
	Ascending  Direction = "ASC"
	Descending Direction = "DESC"
)

// OrderTerm sorts by one column.
type OrderTerm struct {
	Table     string
	Column    string
	Direction Direction
}

// Asc sorts by column ascending.
func Asc(column string) *OrderTerm {
	return &OrderTerm{Column: column, Direction: Ascending}
}

// Desc sorts by column descending.
func Desc(column string) *OrderTerm {
	return &OrderTerm{Column: column, Direction: Descending}
}

func (o *OrderTerm) BuildOrder(f dialects.Flavor) (string, error) {
	return o.render(flavorRenderer(f))
}

func (o *OrderTerm) BuildSimpleOrder() (string, error) {
	return o.render(simpleRenderer{})
}

func (o *OrderTerm) render(r renderer) (string, error) {
	col, err := qualified(r, o.Table, o.Column)
	if err != nil {
		return "", err
	}
	dir := o.Direction
	if dir == "" {
		dir = Ascending
	}
	return col + " " + string(dir), nil
}

// OrderList sorts by several orders in turn.
type OrderList []Order

// Orders combines orders into a comma-separated list. Nil and empty orders are skipped.
func Orders(orders ...Order) OrderList {
	return OrderList(orders)
}

func (l OrderList) BuildOrder(f dialects.Flavor) (string, error) {
	return l.render(flavorRenderer(f))
}

func (l OrderList) BuildSimpleOrder() (string, error) {
	return l.render(simpleRenderer{})
}

func (l OrderList) render(r renderer) (string, error) {
	parts := make([]string, 0, len(l))
	for _, o := range l {
		s, err := renderOrder(r, o)
		if err != nil {
			return "", err
		}
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", "), nil
}

func renderOrder(r renderer, order Order) (string, error) {
	if order == nil {
		return "", nil
	}
	if internal, ok := order.(interface{ render(renderer) (string, error) }); ok {
		return internal.render(r)
	}
	switch r := r.(type) {
	case flavorRenderer:
		return order.BuildOrder(dialects.Flavor(r))
	default:
		simple, ok := order.(SimpleOrder)
		if !ok {
			return "", ErrFlavorRequired
		}
		return simple.BuildSimpleOrder()
	}
}
