package core

import (
	"context"
	"iter"

	"github.com/coregx/dsql/internal/dialects"
)

// Model binds a record type T to its statements and its conversions to
// parameters and from rows.
type Model[T any] struct {
	stmts    Statements
	toParams func(T) ([]Param, error)
	fromRow  func(Row) (T, error)
}

// NewModel builds a model from hand-written conversions. toParams must
// return parameters in the column order of stmts.
func NewModel[T any](stmts Statements, toParams func(T) ([]Param, error), fromRow func(Row) (T, error)) *Model[T] {
	return &Model[T]{stmts: stmts, toParams: toParams, fromRow: fromRow}
}

// Statements returns the statement provider of the model.
func (m *Model[T]) Statements() Statements { return m.stmts }

// ToParams converts item to its ordered parameter list.
func (m *Model[T]) ToParams(item T) ([]Param, error) { return m.toParams(item) }

// FromRow converts row to a record.
func (m *Model[T]) FromRow(row Row) (T, error) { return m.fromRow(row) }

func (m *Model[T]) CreateTable(ctx context.Context, conn Connection) error {
	stmt, err := m.stmts.CreateStmt(conn.Flavor())
	if err != nil {
		return err
	}
	return Execute(ctx, conn, stmt)
}

func (m *Model[T]) CreateTableIfNotExists(ctx context.Context, conn Connection) error {
	stmt, err := m.stmts.CreateIfNotExistsStmt(conn.Flavor())
	if err != nil {
		return err
	}
	return Execute(ctx, conn, stmt)
}

// DropTable drops the table if it exists.
func (m *Model[T]) DropTable(ctx context.Context, conn Connection) error {
	stmt, err := m.stmts.DropStmt(conn.Flavor())
	if err != nil {
		return err
	}
	return QueryDrop(ctx, conn, stmt)
}

// Select returns every record of the table.
func (m *Model[T]) Select(ctx context.Context, conn Connection) ([]T, error) {
	return m.SelectWithFilterOrderLimitOffset(ctx, conn, nil, nil, nil, nil)
}

func (m *Model[T]) SelectWithFilter(ctx context.Context, conn Connection, filter Filter) ([]T, error) {
	return m.SelectWithFilterOrderLimitOffset(ctx, conn, filter, nil, nil, nil)
}

func (m *Model[T]) SelectWithFilterOrder(ctx context.Context, conn Connection, filter Filter, order Order) ([]T, error) {
	return m.SelectWithFilterOrderLimitOffset(ctx, conn, filter, order, nil, nil)
}

// SelectWithFilterOrderLimitOffset returns the records matching filter,
// sorted by order, after skipping offset rows and up to limit rows. Nil
// arguments leave the clause out.
func (m *Model[T]) SelectWithFilterOrderLimitOffset(ctx context.Context, conn Connection, filter Filter, order Order, limit, offset *uint64) ([]T, error) {
	stmt, err := m.assemble(conn.Flavor(), m.stmts.SelectStmt, filter, order, limit, offset)
	if err != nil {
		return nil, err
	}
	return QueryTryAsObject(ctx, conn, stmt, m.fromRow)
}

// SelectFirst returns the first record matching filter in order.
func (m *Model[T]) SelectFirst(ctx context.Context, conn Connection, filter Filter, order Order) (T, bool, error) {
	one := uint64(1)
	var zero T
	stmt, err := m.assemble(conn.Flavor(), m.stmts.SelectStmt, filter, order, &one, nil)
	if err != nil {
		return zero, false, err
	}
	return QueryFirstTryAsObject(ctx, conn, stmt, m.fromRow)
}

// Count returns the number of records matching filter.
func (m *Model[T]) Count(ctx context.Context, conn Connection, filter Filter) (int64, error) {
	stmt, err := m.assemble(conn.Flavor(), m.stmts.CountStmt, filter, nil, nil, nil)
	if err != nil {
		return 0, err
	}
	row, ok, err := QueryFirst(ctx, conn, stmt)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, &RowItemError{Index: 0}
	}
	return Column[int64](row, 0)
}

// Insert writes one record.
func (m *Model[T]) Insert(ctx context.Context, conn Connection, item T) error {
	stmt, err := m.stmts.InsertStmt(conn.Flavor())
	if err != nil {
		return err
	}
	return conn.ExecuteWithParams(ctx, stmt, m.params(item))
}

// InsertMultiple writes every record of items in one transaction. Records
// are converted lazily as the batch runs; a conversion failure aborts and
// rolls back the batch.
func (m *Model[T]) InsertMultiple(ctx context.Context, conn Connection, items []T) error {
	stmt, err := m.stmts.InsertStmt(conn.Flavor())
	if err != nil {
		return err
	}
	return conn.ExecuteWithParamsIterator(ctx, stmt, m.paramSeq(items))
}

// Update overwrites every record of the table with item.
func (m *Model[T]) Update(ctx context.Context, conn Connection, item T) error {
	return m.UpdateWithFilterOrderLimitOffset(ctx, conn, item, nil, nil, nil, nil)
}

// UpdateWithFilter overwrites the records matching filter with item.
func (m *Model[T]) UpdateWithFilter(ctx context.Context, conn Connection, item T, filter Filter) error {
	return m.UpdateWithFilterOrderLimitOffset(ctx, conn, item, filter, nil, nil, nil)
}

// UpdateWithFilterOrderLimitOffset overwrites the matching records with item.
// PostgreSQL rejects limit and offset with ErrUpdateWithLimitOffsetNotSupported.
func (m *Model[T]) UpdateWithFilterOrderLimitOffset(ctx context.Context, conn Connection, item T, filter Filter, order Order, limit, offset *uint64) error {
	stmt, err := m.assemble(conn.Flavor(), m.stmts.UpdateStmt, filter, order, limit, offset)
	if err != nil {
		return err
	}
	return conn.ExecuteWithParams(ctx, stmt, m.params(item))
}

// Delete removes every record of the table.
func (m *Model[T]) Delete(ctx context.Context, conn Connection) error {
	return m.DeleteWithFilterOrderLimitOffset(ctx, conn, nil, nil, nil, nil)
}

func (m *Model[T]) DeleteWithFilter(ctx context.Context, conn Connection, filter Filter) error {
	return m.DeleteWithFilterOrderLimitOffset(ctx, conn, filter, nil, nil, nil)
}

// DeleteWithFilterOrderLimitOffset removes the matching records.
// PostgreSQL rejects limit and offset with ErrUpdateWithLimitOffsetNotSupported.
func (m *Model[T]) DeleteWithFilterOrderLimitOffset(ctx context.Context, conn Connection, filter Filter, order Order, limit, offset *uint64) error {
	stmt, err := m.assemble(conn.Flavor(), m.stmts.DeleteStmt, filter, order, limit, offset)
	if err != nil {
		return err
	}
	return Execute(ctx, conn, stmt)
}

func (m *Model[T]) assemble(f dialects.Flavor, base func(dialects.Flavor) (string, error), filter Filter, order Order, limit, offset *uint64) (string, error) {
	stmt, err := base(f)
	if err != nil {
		return "", err
	}
	return Assemble(f, stmt, filter, order, limit, offset)
}

func (m *Model[T]) params(item T) Params {
	return modelParams(func() ([]Param, error) { return m.toParams(item) })
}

func (m *Model[T]) paramSeq(items []T) iter.Seq[Params] {
	return func(yield func(Params) bool) {
		for _, item := range items {
			if !yield(m.params(item)) {
				return
			}
		}
	}
}

type modelParams func() ([]Param, error)

func (p modelParams) AsParams() ([]Param, error) { return p() }
