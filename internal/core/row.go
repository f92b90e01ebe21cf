package core

// Row is one result tuple with positional, read-only access.
type Row interface {
	// Len returns the number of cells.
	Len() int
	// Get returns cell i. ok is false when i is out of range; err is set
	// when the cell is present but could not be decoded.
	Get(i int) (v Value, ok bool, err error)
}

// ValueRow is a Row over already decoded values.
type ValueRow []Value

// NewRow returns a Row holding values.
func NewRow(values ...Value) ValueRow {
	return ValueRow(values)
}

func (r ValueRow) Len() int { return len(r) }

func (r ValueRow) Get(i int) (Value, bool, error) {
	if i < 0 || i >= len(r) {
		return Value{}, false, nil
	}
	return r[i], true, nil
}

// resultRow is the Row built by DB.Query, keeping per-cell decode failures.
type resultRow struct {
	values []Value
	errs   []error
}

func (r *resultRow) Len() int { return len(r.values) }

func (r *resultRow) Get(i int) (Value, bool, error) {
	if i < 0 || i >= len(r.values) {
		return Value{}, false, nil
	}
	return r.values[i], true, r.errs[i]
}

// Get decodes cell i of row into T. ok is false when the cell does not exist.
func Get[T any](row Row, i int) (T, bool, error) {
	var zero T
	v, ok, err := row.Get(i)
	if !ok {
		return zero, false, nil
	}
	if err != nil {
		return zero, true, err
	}
	out, err := Decode[T](v)
	return out, true, err
}

// Column decodes cell i of row into T. A missing or undecodable cell fails
// with *RowItemError naming i.
func Column[T any](row Row, i int) (T, error) {
	out, ok, err := Get[T](row, i)
	if !ok {
		return out, &RowItemError{Index: i}
	}
	if err != nil {
		return out, &RowItemError{Index: i, Err: err}
	}
	return out, nil
}
