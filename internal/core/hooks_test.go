package core

import (
	"context"
	"testing"

	"github.com/coregx/dsql/internal/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainHooks(t *testing.T) {
	var calls []string
	hook := ChainHooks(
		func(_ context.Context, e QueryEvent) { calls = append(calls, "a:"+e.Operation) },
		nil,
		func(_ context.Context, e QueryEvent) { calls = append(calls, "b:"+e.Operation) },
	)
	hook(context.Background(), QueryEvent{Operation: "SELECT"})
	assert.Equal(t, []string{"a:SELECT", "b:SELECT"}, calls)
}

func TestAuditHook(t *testing.T) {
	lg := &captureLogger{}
	auditor := security.NewAuditor(lg, security.AuditWrites)
	db := openTestDB(t, WithQueryHook(AuditHook(auditor)))
	m := personModel(t)

	ctx := security.WithUser(context.Background(), "jo")
	require.NoError(t, m.CreateTable(ctx, db))
	require.NoError(t, m.InsertMultiple(ctx, db, []person{{"Jo", 44}, {"Al", 30}}))
	_, err := m.Select(ctx, db)
	require.NoError(t, err)
	require.Error(t, m.Insert(ctx, db, person{"Jo", 1}))

	require.Len(t, lg.entries, 2)

	ok := lg.entries[0]
	assert.Equal(t, "info", ok.level)
	assert.Equal(t, "audit_event", ok.msg)
	assert.Equal(t, "jo", argValue(ok.args, "user"))
	assert.Equal(t, "INSERT", argValue(ok.args, "operation"))
	assert.Equal(t, "person", argValue(ok.args, "table"))
	assert.Equal(t, 2, argValue(ok.args, "batch"))
	assert.Equal(t, true, argValue(ok.args, "success"))

	failed := lg.entries[1]
	assert.Equal(t, "warn", failed.level)
	assert.Equal(t, false, argValue(failed.args, "success"))
	assert.Contains(t, argValue(failed.args, "error"), "UNIQUE")
}

// argValue returns the value following key in slog-style args.
func argValue(args []any, key string) any {
	for i := 0; i+1 < len(args); i += 2 {
		if args[i] == key {
			return args[i+1]
		}
	}
	return nil
}
