//go:build cgo

package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDB_CgoSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := Open("sqlite3", ":memory:", WithMaxOpenConns(1))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m := personModel(t)
	require.NoError(t, m.CreateTable(ctx, db))
	require.NoError(t, m.InsertMultiple(ctx, db, []person{{"Jo", 44}, {"Al", 30}}))

	got, err := m.SelectWithFilterOrder(ctx, db, nil, Col("name").Asc())
	require.NoError(t, err)
	assert.Equal(t, []person{{"Al", 30}, {"Jo", 44}}, got)

	err = m.Insert(ctx, db, person{"Jo", 45})
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err), "got %v", err)
}
