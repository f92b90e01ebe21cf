package core

import (
	"context"
	"time"

	"github.com/coregx/dsql/internal/security"
)

// QueryEvent describes one statement executed by DB.
type QueryEvent struct {
	// SQL is the executed statement.
	SQL string
	// Params is the number of bound parameters, per execution for batches.
	Params int
	// Batch is the number of executions of a batch, zero otherwise.
	Batch int
	// Rows is the number of rows returned by Query.
	Rows int
	// Duration covers the whole call, including a batch's commit.
	Duration time.Duration
	// Error is nil on success.
	Error error
	// Operation is the leading verb, see tracer.DetectOperation.
	Operation string
}

// QueryHook is called after every DB call, on the caller's goroutine.
//
//	db, _ := dsql.Open("sqlite", ":memory:",
//	    dsql.WithQueryHook(func(ctx context.Context, e dsql.QueryEvent) {
//	        slog.Info("query", "sql", e.SQL, "duration", e.Duration, "err", e.Error)
//	    }))
type QueryHook func(ctx context.Context, event QueryEvent)

func (db *DB) invokeHook(ctx context.Context, event QueryEvent) {
	if db.hook != nil {
		db.hook(ctx, event)
	}
}

// ChainHooks calls each non-nil hook in order.
func ChainHooks(hooks ...QueryHook) QueryHook {
	return func(ctx context.Context, event QueryEvent) {
		for _, h := range hooks {
			if h != nil {
				h(ctx, event)
			}
		}
	}
}

// AuditHook records every event on a.
//
//	auditor := security.NewAuditor(lg, security.AuditWrites)
//	db, _ := dsql.Open("sqlite", "app.db", dsql.WithQueryHook(dsql.AuditHook(auditor)))
func AuditHook(a *security.Auditor) QueryHook {
	return func(ctx context.Context, event QueryEvent) {
		ev := security.AuditEvent{
			Operation: event.Operation,
			SQL:       event.SQL,
			Params:    event.Params,
			Batch:     event.Batch,
			Rows:      event.Rows,
			Success:   event.Error == nil,
			Duration:  event.Duration,
		}
		if event.Error != nil {
			ev.Error = event.Error.Error()
		}
		a.Record(ctx, ev)
	}
}
