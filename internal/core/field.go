package core

// Field names a column, optionally qualified by its table, and builds
// conditions and orders on it.
//
//	core.And(core.Col("age").Ge(18), core.Col("name").Ne("Jo"))
type Field struct {
	Table  string
	Column string
}

// Col returns an unqualified column.
func Col(column string) Field {
	return Field{Column: column}
}

// TableCol returns a column qualified by table.
func TableCol(table, column string) Field {
	return Field{Table: table, Column: column}
}

func (f Field) cond(op Operator, v any) *Condition {
	return &Condition{Table: f.Table, Column: f.Column, Op: op, Value: v}
}

func (f Field) Eq(v any) *Condition { return f.cond(OpEqual, v) }
func (f Field) Ne(v any) *Condition { return f.cond(OpNotEqual, v) }
func (f Field) Gt(v any) *Condition { return f.cond(OpGreater, v) }
func (f Field) Ge(v any) *Condition { return f.cond(OpGreaterEqual, v) }
func (f Field) Lt(v any) *Condition { return f.cond(OpLess, v) }
func (f Field) Le(v any) *Condition { return f.cond(OpLessEqual, v) }

func (f Field) IsNull() *Condition    { return f.cond(OpIsNull, nil) }
func (f Field) IsNotNull() *Condition { return f.cond(OpIsNotNull, nil) }

func (f Field) Asc() *OrderTerm {
	return &OrderTerm{Table: f.Table, Column: f.Column, Direction: Ascending}
}

func (f Field) Desc() *OrderTerm {
	return &OrderTerm{Table: f.Table, Column: f.Column, Direction: Descending}
}
