package core

import (
	"context"
	"iter"

	"github.com/coregx/dsql/internal/dialects"
	"github.com/coregx/dsql/internal/logger"
)

// Log is a Connection decorator that logs every statement before handing
// it to the wrapped connection. Values on statements touching sensitive
// columns are masked.
type Log struct {
	conn      Connection
	logger    logger.Logger
	level     logger.Level
	sanitizer *logger.Sanitizer
}

var _ Connection = (*Log)(nil)

// LogOption configures a Log decorator.
type LogOption func(*Log)

// WithLevel sets the level statements are logged at. The default is Info.
func WithLevel(level logger.Level) LogOption {
	return func(l *Log) {
		l.level = level
	}
}

// WithSanitizer replaces the default sanitizer built from
// logger.DefaultSensitiveFields.
func WithSanitizer(s *logger.Sanitizer) LogOption {
	return func(l *Log) {
		if s != nil {
			l.sanitizer = s
		}
	}
}

// NewLog wraps conn. A nil lg discards the log lines.
func NewLog(conn Connection, lg logger.Logger, opts ...LogOption) *Log {
	if lg == nil {
		lg = logger.NoopLogger{}
	}
	l := &Log{
		conn:      conn,
		logger:    lg,
		level:     logger.LevelInfo,
		sanitizer: logger.NewSanitizer(nil),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Log) Flavor() dialects.Flavor { return l.conn.Flavor() }

func (l *Log) ExecuteWithParams(ctx context.Context, query string, params Params) error {
	if params == nil {
		l.log("execute", query, nil)
		return l.conn.ExecuteWithParams(ctx, query, params)
	}
	ps, err := params.AsParams()
	if err != nil {
		l.log("execute", query, nil)
		return l.conn.ExecuteWithParams(ctx, query, params)
	}
	l.log("execute", query, ps)
	return l.conn.ExecuteWithParams(ctx, query, ParamList(ps))
}

func (l *Log) ExecuteWithParamsIterator(ctx context.Context, query string, params iter.Seq[Params]) error {
	l.log("batch", query, nil)
	return l.conn.ExecuteWithParamsIterator(ctx, query, params)
}

func (l *Log) Query(ctx context.Context, query string) ([]Row, error) {
	l.log("query", query, nil)
	return l.conn.Query(ctx, query)
}

func (l *Log) log(msg, query string, params []Param) {
	args := []any{"sql", l.sanitizer.MaskSQL(query)}
	if params != nil {
		values := make([]any, len(params))
		for i, p := range params {
			values[i] = p.String()
		}
		args = append(args, "params", logger.FormatParams(l.sanitizer.MaskParams(query, values)))
	}
	logger.At(l.logger, l.level, msg, args...)
}
