package core

import (
	"context"
	"iter"

	"github.com/coregx/dsql/internal/dialects"
)

// Connection executes statements against one database in one dialect.
// Implementations own no statement cache and buffer rows only for the
// duration of a single Query call.
type Connection interface {
	// Flavor returns the dialect statements must be rendered for.
	Flavor() dialects.Flavor
	// ExecuteWithParams runs query once with params bound to its placeholders.
	ExecuteWithParams(ctx context.Context, query string, params Params) error
	// ExecuteWithParamsIterator runs query once per element of params inside
	// a single transaction. Any failure rolls the whole batch back.
	ExecuteWithParamsIterator(ctx context.Context, query string, params iter.Seq[Params]) error
	// Query runs query and returns every row.
	Query(ctx context.Context, query string) ([]Row, error)
}

// Execute runs query without parameters.
func Execute(ctx context.Context, conn Connection, query string) error {
	return conn.ExecuteWithParams(ctx, query, NoParams)
}

// QueryFirst returns the first row of query. ok is false when it returns no rows.
func QueryFirst(ctx context.Context, conn Connection, query string) (row Row, ok bool, err error) {
	rows, err := conn.Query(ctx, query)
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return rows[0], true, nil
}

// QueryTryAsObject runs query and converts every row with fromRow. The first
// conversion failure aborts and no partial result is returned.
func QueryTryAsObject[T any](ctx context.Context, conn Connection, query string, fromRow func(Row) (T, error)) ([]T, error) {
	rows, err := conn.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		item, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// QueryFirstTryAsObject converts the first row of query with fromRow.
func QueryFirstTryAsObject[T any](ctx context.Context, conn Connection, query string, fromRow func(Row) (T, error)) (T, bool, error) {
	var zero T
	row, ok, err := QueryFirst(ctx, conn, query)
	if err != nil || !ok {
		return zero, false, err
	}
	item, err := fromRow(row)
	if err != nil {
		return zero, false, err
	}
	return item, true, nil
}

// QueryDrop runs query and discards any rows.
func QueryDrop(ctx context.Context, conn Connection, query string) error {
	_, err := conn.Query(ctx, query)
	return err
}
