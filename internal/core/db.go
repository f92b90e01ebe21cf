// Package core implements dsql: dialect-aware statement assembly, the
// Value and Param models, filters and orders, models and the database/sql
// backed Connection.
package core

import (
	"context"
	"database/sql"
	"errors"
	"iter"
	"strconv"
	"strings"
	"time"

	"github.com/coregx/dsql/internal/dialects"
	"github.com/coregx/dsql/internal/logger"
	"github.com/coregx/dsql/internal/tracer"
)

// DB is a Connection over database/sql, bound to one Flavor. It is safe for
// concurrent use; the pool is managed by database/sql.
type DB struct {
	sqlDB   *sql.DB
	owned   bool
	flavor  dialects.Flavor
	backend backend
	tracer  tracer.Tracer
	logger  logger.Logger
	hook    QueryHook
}

var _ Connection = (*DB)(nil)

// Option is a functional option for configuring DB.
type Option func(*DB)

// WithMaxOpenConns sets the maximum number of open connections.
func WithMaxOpenConns(n int) Option {
	return func(db *DB) {
		db.sqlDB.SetMaxOpenConns(n)
	}
}

// WithMaxIdleConns sets the maximum number of idle connections.
func WithMaxIdleConns(n int) Option {
	return func(db *DB) {
		db.sqlDB.SetMaxIdleConns(n)
	}
}

// WithConnMaxLifetime sets the maximum time a connection may be reused.
func WithConnMaxLifetime(d time.Duration) Option {
	return func(db *DB) {
		db.sqlDB.SetConnMaxLifetime(d)
	}
}

// WithTracer sets the tracer spans are started on. A nil tracer disables tracing.
func WithTracer(t tracer.Tracer) Option {
	return func(db *DB) {
		if t == nil {
			t = tracer.NoopTracer{}
		}
		db.tracer = t
	}
}

// WithQueryHook sets a hook called after every statement.
func WithQueryHook(hook QueryHook) Option {
	return func(db *DB) {
		db.hook = hook
	}
}

// WithLogger sets the logger for failures, rolled back batches and
// dialect warnings. A nil logger disables logging.
func WithLogger(l logger.Logger) Option {
	return func(db *DB) {
		if l == nil {
			l = logger.NoopLogger{}
		}
		db.logger = l
	}
}

// Open opens a database with a registered driver. The flavor is derived
// from driverName: sqlite, sqlite3, mysql, postgres, postgresql or pgx.
func Open(driverName, dsn string, opts ...Option) (*DB, error) {
	f, err := dialects.FromDriver(driverName)
	if err != nil {
		return nil, err
	}
	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, WrapError(err, "open "+driverName)
	}
	db, err := newDB(sqlDB, f, opts)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	db.owned = true
	return db, nil
}

// WrapDB wraps an existing pool. The caller keeps ownership: Close does not
// close sqlDB.
func WrapDB(sqlDB *sql.DB, f dialects.Flavor, opts ...Option) (*DB, error) {
	if sqlDB == nil {
		return nil, ErrNilDB
	}
	return newDB(sqlDB, f, opts)
}

func newDB(sqlDB *sql.DB, f dialects.Flavor, opts []Option) (*DB, error) {
	b, err := backendFor(f)
	if err != nil {
		return nil, err
	}
	db := &DB{
		sqlDB:   sqlDB,
		flavor:  f,
		backend: b,
		tracer:  tracer.NoopTracer{},
		logger:  logger.NoopLogger{},
	}
	for _, opt := range opts {
		opt(db)
	}
	return db, nil
}

// Close closes the pool opened by Open. It does nothing for a wrapped pool.
func (db *DB) Close() error {
	if !db.owned {
		return nil
	}
	return db.sqlDB.Close()
}

// Flavor returns the dialect of the database.
func (db *DB) Flavor() dialects.Flavor { return db.flavor }

// PingContext verifies the database is reachable.
func (db *DB) PingContext(ctx context.Context) error {
	return db.wrap(db.sqlDB.PingContext(ctx), "ping")
}

// ExecuteWithParams runs query once. The parameter count is checked against
// the flavor's limit before anything is sent.
func (db *DB) ExecuteWithParams(ctx context.Context, query string, params Params) error {
	start := time.Now()
	ctx, span := db.tracer.StartSpan(ctx, tracer.SpanName("execute"))
	defer span.End()

	ev := QueryEvent{SQL: query, Operation: tracer.DetectOperation(query)}
	db.warnLimitedMutation(ev)

	args, err := db.args(params)
	if err == nil {
		_, err = db.sqlDB.ExecContext(ctx, query, args...)
		err = db.wrap(err, "execute")
	}

	ev.Params = len(args)
	ev.Duration = time.Since(start)
	ev.Error = err
	db.finish(ctx, span, ev)
	return err
}

// ExecuteWithParamsIterator runs query once per params element on one
// prepared statement inside one transaction. It commits after the last
// element; any failure, including a params conversion failure, rolls the
// whole batch back.
func (db *DB) ExecuteWithParamsIterator(ctx context.Context, query string, params iter.Seq[Params]) error {
	start := time.Now()
	ctx, span := db.tracer.StartSpan(ctx, tracer.SpanName("batch"))
	defer span.End()

	ev := QueryEvent{SQL: query, Operation: tracer.DetectOperation(query)}
	db.warnLimitedMutation(ev)

	err := db.batch(ctx, query, params, &ev)

	ev.Duration = time.Since(start)
	ev.Error = err
	db.finish(ctx, span, ev)
	return err
}

func (db *DB) batch(ctx context.Context, query string, seq iter.Seq[Params], ev *QueryEvent) (err error) {
	tx, err := db.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return db.wrap(err, "begin")
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			db.logger.Error("batch rollback failed", "sql", query, "error", rbErr)
		}
		db.logger.Warn("batch rolled back",
			"sql", query,
			"executed", ev.Batch,
			"error", err,
		)
	}()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return db.wrap(err, "prepare")
	}
	defer func() { _ = stmt.Close() }()

	for params := range seq {
		args, argErr := db.args(params)
		if argErr != nil {
			return WrapError(argErr, "batch item "+strconv.Itoa(ev.Batch))
		}
		ev.Params = len(args)
		if _, execErr := stmt.ExecContext(ctx, args...); execErr != nil {
			return db.wrap(execErr, "batch item "+strconv.Itoa(ev.Batch))
		}
		ev.Batch++
	}

	if err := tx.Commit(); err != nil {
		return db.wrap(err, "commit")
	}
	return nil
}

// Query runs query and reads every row. Cells are decoded by the flavor's
// backend; a cell that cannot be decoded reports its error from Row.Get.
func (db *DB) Query(ctx context.Context, query string) ([]Row, error) {
	start := time.Now()
	ctx, span := db.tracer.StartSpan(ctx, tracer.SpanName("query"))
	defer span.End()

	rows, err := db.query(ctx, query)

	db.finish(ctx, span, QueryEvent{
		SQL:       query,
		Rows:      len(rows),
		Duration:  time.Since(start),
		Error:     err,
		Operation: tracer.DetectOperation(query),
	})
	return rows, err
}

func (db *DB) query(ctx context.Context, query string) ([]Row, error) {
	rs, err := db.sqlDB.QueryContext(ctx, query)
	if err != nil {
		return nil, db.wrap(err, "query")
	}
	defer func() { _ = rs.Close() }()

	cols, err := rs.ColumnTypes()
	if err != nil {
		return nil, db.wrap(err, "column types")
	}
	dbTypes := make([]string, len(cols))
	for i, ct := range cols {
		dbTypes[i] = strings.ToUpper(ct.DatabaseTypeName())
	}

	var out []Row
	for rs.Next() {
		raw := make([]any, len(cols))
		dest := make([]any, len(cols))
		for i := range raw {
			dest[i] = &raw[i]
		}
		if err := rs.Scan(dest...); err != nil {
			return nil, db.wrap(err, "scan")
		}

		row := &resultRow{values: make([]Value, len(cols)), errs: make([]error, len(cols))}
		for i, cell := range raw {
			row.values[i], row.errs[i] = db.backend.value(cell, dbTypes[i])
		}
		out = append(out, row)
	}
	if err := rs.Err(); err != nil {
		return nil, db.wrap(err, "rows")
	}
	return out, nil
}

// args converts params to driver arguments.
func (db *DB) args(params Params) ([]any, error) {
	if params == nil {
		return nil, nil
	}
	ps, err := params.AsParams()
	if err != nil {
		return nil, err
	}
	limit, err := db.flavor.MaxParams()
	if err != nil {
		return nil, err
	}
	if len(ps) > limit {
		return nil, &ParamCountError{Flavor: db.flavor, Max: limit, Got: len(ps)}
	}
	args := make([]any, len(ps))
	for i, p := range ps {
		if args[i], err = p.Arg(db.flavor); err != nil {
			return nil, err
		}
	}
	return args, nil
}

// wrap adds flavor and operation context to a driver error and marks unique
// violations so they match ErrUniqueViolation.
func (db *DB) wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	wrapped := WrapError(err, db.flavor.String()+": "+op)
	if db.backend.uniqueViolation(err) {
		return &uniqueViolationError{err: wrapped}
	}
	return wrapped
}

// warnLimitedMutation logs UPDATE and DELETE statements carrying LIMIT or
// OFFSET. PostgreSQL rejects them when they are assembled.
func (db *DB) warnLimitedMutation(ev QueryEvent) {
	if ev.Operation != "UPDATE" && ev.Operation != "DELETE" {
		return
	}
	upper := strings.ToUpper(ev.SQL)
	if strings.Contains(upper, " LIMIT ") || strings.Contains(upper, " OFFSET ") {
		db.logger.Warn("limit/offset on update or delete is not portable",
			"sql", ev.SQL,
			"database", db.flavor.String(),
		)
	}
}

func (db *DB) finish(ctx context.Context, span tracer.Span, ev QueryEvent) {
	tracer.AddQueryAttributes(span, &tracer.QueryMetadata{
		SQL:       ev.SQL,
		Params:    ev.Params,
		Batch:     ev.Batch,
		Rows:      int64(ev.Rows),
		Duration:  ev.Duration,
		Error:     ev.Error,
		Database:  strings.ToLower(db.flavor.String()),
		Operation: ev.Operation,
	})
	if ev.Error != nil {
		db.logger.Error("query failed",
			"sql", ev.SQL,
			"operation", ev.Operation,
			"duration_ms", ev.Duration.Milliseconds(),
			"database", db.flavor.String(),
			"error", ev.Error,
		)
	}
	db.invokeHook(ctx, ev)
}
