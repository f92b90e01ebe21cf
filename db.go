// Package dsql runs SQL against SQLite, MySQL and PostgreSQL through one
// Connection interface. It renders filters, ordering and schema statements
// for the connection's flavor, converts Go values to typed parameters and
// decodes result rows into records.
package dsql

import (
	"context"

	"github.com/coregx/dsql/internal/config"
	"github.com/coregx/dsql/internal/core"
	"github.com/coregx/dsql/internal/dialects"
	"github.com/coregx/dsql/internal/logger"
	"github.com/coregx/dsql/internal/security"
	"github.com/coregx/dsql/internal/tracer"
)

type (
	// DB is a database/sql backed Connection.
	DB = core.DB
	// Option is a functional option for configuring DB.
	Option = core.Option
	// Connection is implemented by every backend and by the Log decorator.
	Connection = core.Connection
	// Log decorates a Connection with statement logging.
	Log = core.Log
	// LogOption configures a Log decorator.
	LogOption = core.LogOption
	// QueryEvent describes one finished DB call.
	QueryEvent = core.QueryEvent
	// QueryHook is invoked after every DB call.
	QueryHook = core.QueryHook

	// Flavor identifies the SQL dialect of a connection.
	Flavor = dialects.Flavor
	// TypeTag names the semantic type of a field.
	TypeTag = dialects.TypeTag

	// Value is a single cell read from a row.
	Value = core.Value
	// Kind is the variant held by a Value.
	Kind = core.Kind
	// Param is a single statement parameter.
	Param = core.Param
	// ParamKind is the variant held by a Param.
	ParamKind = core.ParamKind
	// Params yields the parameters of one statement execution.
	Params = core.Params
	// ParamList is a ready-made parameter list.
	ParamList = core.ParamList
	// Row is a positional result row.
	Row = core.Row
	// Date is a calendar date without time of day.
	Date = core.Date

	// Filter renders a WHERE predicate for a flavor.
	Filter = core.Filter
	// Order renders an ORDER BY list for a flavor.
	Order = core.Order
	// Condition compares one column.
	Condition = core.Condition
	// Junction joins filters with AND or OR.
	Junction = core.Junction
	// RawFilter is a validated SQL fragment.
	RawFilter = core.RawFilter
	// OrderTerm sorts by one column.
	OrderTerm = core.OrderTerm
	// OrderList sorts by several terms in turn.
	OrderList = core.OrderList
	// Field names a column for building conditions and order terms.
	Field = core.Field
	// Statement is an immutable base statement with optional clauses.
	Statement = core.Statement

	// Statements generates the SQL of one record type.
	Statements = core.Statements
	// Schema is a Statements built from field definitions.
	Schema = core.Schema
	// FieldDef describes one column of a Schema.
	FieldDef = core.FieldDef
	// TableModel overrides the table name of a struct model.
	TableModel = core.TableModel

	// InvalidTypeError reports a value that cannot be decoded into the target type.
	InvalidTypeError = core.InvalidTypeError
	// RowItemError reports a missing or undecodable row item.
	RowItemError = core.RowItemError
	// ParamCountError reports a statement with too many parameters.
	ParamCountError = core.ParamCountError

	// Logger is the logging interface used by DB and Log.
	Logger = logger.Logger
	// Level selects the severity of Log output.
	Level = logger.Level
	// Tracer opens spans around DB calls.
	Tracer = tracer.Tracer

	// Config holds the settings read by LoadConfig.
	Config = config.Config

	// Auditor records statements through AuditHook.
	Auditor = security.Auditor
	// AuditLevel selects which statements an Auditor records.
	AuditLevel = security.AuditLevel
)

// Model runs the CRUD statements of one record type.
type Model[T any] = core.Model[T]

// Supported flavors.
const (
	SQLite     = dialects.SQLite
	MySQL      = dialects.MySQL
	PostgreSQL = dialects.PostgreSQL
)

// Log levels.
const (
	LevelDebug = logger.LevelDebug
	LevelInfo  = logger.LevelInfo
	LevelWarn  = logger.LevelWarn
	LevelError = logger.LevelError
)

// Audit levels.
const (
	AuditNone   = security.AuditNone
	AuditWrites = security.AuditWrites
	AuditReads  = security.AuditReads
	AuditAll    = security.AuditAll
)

// Re-export core functions.
var (
	Open                = core.Open
	WrapDB              = core.WrapDB
	WithMaxOpenConns    = core.WithMaxOpenConns
	WithMaxIdleConns    = core.WithMaxIdleConns
	WithConnMaxLifetime = core.WithConnMaxLifetime
	WithTracer          = core.WithTracer
	WithQueryHook       = core.WithQueryHook
	WithLogger          = core.WithLogger
	NewLog              = core.NewLog
	WithLevel           = core.WithLevel
	WithSanitizer       = core.WithSanitizer
	FromDriver          = dialects.FromDriver
	NewSlogLogger       = logger.NewSlogAdapter
	NewOtelTracer       = tracer.NewOtelTracer
	Execute             = core.Execute
	QueryFirst          = core.QueryFirst
	QueryDrop           = core.QueryDrop
	ToParam             = core.ToParam
	Args                = core.Args
	NewRow              = core.NewRow
	NewDate             = core.NewDate
	NewSchema           = core.NewSchema
	NewStatement        = core.NewStatement
	Assemble            = core.Assemble
	IsUniqueViolation   = core.IsUniqueViolation
	LoadConfig          = config.Load
	ChainHooks          = core.ChainHooks
	AuditHook           = core.AuditHook
	NewAuditor          = security.NewAuditor
	WithUser            = security.WithUser
	WithClientIP        = security.WithClientIP
	WithRequestID       = security.WithRequestID

	// Filter and order builders
	Col      = core.Col
	TableCol = core.TableCol
	And      = core.And
	Or       = core.Or
	Raw      = core.Raw
	Asc      = core.Asc
	Desc     = core.Desc
	Orders   = core.Orders
)

// NoParams binds nothing.
var NoParams = core.NoParams

// Errors.
var (
	ErrUnsupportedDialect                = core.ErrUnsupportedDialect
	ErrRowIDNotSupported                 = core.ErrRowIDNotSupported
	ErrSQLTypeNotSupported               = core.ErrSQLTypeNotSupported
	ErrInvalidIdentifier                 = core.ErrInvalidIdentifier
	ErrUnsafeFilter                      = core.ErrUnsafeFilter
	ErrUpdateWithLimitOffsetNotSupported = core.ErrUpdateWithLimitOffsetNotSupported
	ErrRangeConversion                   = core.ErrRangeConversion
	ErrInvalidType                       = core.ErrInvalidType
	ErrInvalidDate                       = core.ErrInvalidDate
	ErrUnsupportedParamType              = core.ErrUnsupportedParamType
	ErrRowItemNotFound                   = core.ErrRowItemNotFound
	ErrMaxParamsExceeded                 = core.ErrMaxParamsExceeded
	ErrUniqueViolation                   = core.ErrUniqueViolation
	ErrTextPrimaryKey                    = core.ErrTextPrimaryKey
	ErrDuplicatePrimaryKey               = core.ErrDuplicatePrimaryKey
	ErrDuplicateColumn                   = core.ErrDuplicateColumn
	ErrInvalidModelType                  = core.ErrInvalidModelType
	ErrFlavorRequired                    = core.ErrFlavorRequired
	ErrNilDB                             = core.ErrNilDB
)

// NewModel builds a Model from generated statements and the two record
// conversions.
func NewModel[T any](stmts Statements, toParams func(T) ([]Param, error), fromRow func(Row) (T, error)) *Model[T] {
	return core.NewModel(stmts, toParams, fromRow)
}

// StructModel derives a Model from the exported fields of struct T.
func StructModel[T any]() (*Model[T], error) {
	return core.StructModel[T]()
}

// Decode converts v into T.
func Decode[T any](v Value) (T, error) {
	return core.Decode[T](v)
}

// Get returns item i of row decoded into T. ok is false when i is out of range.
func Get[T any](row Row, i int) (T, bool, error) {
	return core.Get[T](row, i)
}

// Column decodes item i of row into T.
func Column[T any](row Row, i int) (T, error) {
	return core.Column[T](row, i)
}

// QueryTryAsObject converts every row of query with fromRow.
func QueryTryAsObject[T any](ctx context.Context, conn Connection, query string, fromRow func(Row) (T, error)) ([]T, error) {
	return core.QueryTryAsObject(ctx, conn, query, fromRow)
}

// QueryFirstTryAsObject converts the first row of query with fromRow.
func QueryFirstTryAsObject[T any](ctx context.Context, conn Connection, query string, fromRow func(Row) (T, error)) (T, bool, error) {
	return core.QueryFirstTryAsObject(ctx, conn, query, fromRow)
}

// OpenConfig opens a DB from cfg. Non-zero pool settings in cfg are
// applied before opts.
func OpenConfig(cfg *Config, opts ...Option) (*DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dsn, err := cfg.DataSourceName()
	if err != nil {
		return nil, err
	}
	var base []Option
	if cfg.MaxOpenConns > 0 {
		base = append(base, WithMaxOpenConns(cfg.MaxOpenConns))
	}
	if cfg.MaxIdleConns > 0 {
		base = append(base, WithMaxIdleConns(cfg.MaxIdleConns))
	}
	if cfg.ConnMaxLifetime > 0 {
		base = append(base, WithConnMaxLifetime(cfg.ConnMaxLifetime))
	}
	return Open(cfg.Driver, dsn, append(base, opts...)...)
}
