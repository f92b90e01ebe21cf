package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModel_StatementsSentToConnection(t *testing.T) {
	ctx := context.Background()
	conn := &recordingConn{}
	m := personModel(t)
	limit, offset := uint64(5), uint64(10)

	_, err := m.SelectWithFilterOrderLimitOffset(ctx, conn, Col("age").Gt(18), Col("name").Desc(), &limit, &offset)
	require.NoError(t, err)
	require.NoError(t, m.DeleteWithFilter(ctx, conn, Col("name").Eq("Jo")))
	require.NoError(t, m.UpdateWithFilter(ctx, conn, person{"Al", 31}, Col("name").Eq("Al")))
	require.NoError(t, m.CreateTableIfNotExists(ctx, conn))

	assert.Equal(t, []string{
		"SELECT name, age FROM person WHERE age > 18 ORDER BY name DESC LIMIT 5 OFFSET 10",
		"DELETE FROM person WHERE name = 'Jo'",
		"UPDATE person SET name = $1, age = $2 WHERE name = 'Al'",
		"CREATE TABLE IF NOT EXISTS person ( name TEXT NULL, age BIGINT NULL, CONSTRAINT person_name_unique UNIQUE ( name ) )",
	}, conn.queries)
	assert.Equal(t, [][]Param{{TextParam("Al"), BigIntParam(31)}}, conn.params)
}

func TestModel_PostgresRejectsLimitedMutation(t *testing.T) {
	ctx := context.Background()
	conn := &recordingConn{}
	m := personModel(t)
	limit := uint64(1)

	err := m.DeleteWithFilterOrderLimitOffset(ctx, conn, nil, nil, &limit, nil)
	assert.ErrorIs(t, err, ErrUpdateWithLimitOffsetNotSupported)

	err = m.UpdateWithFilterOrderLimitOffset(ctx, conn, person{"Jo", 1}, nil, nil, &limit, nil)
	assert.ErrorIs(t, err, ErrUpdateWithLimitOffsetNotSupported)

	assert.Empty(t, conn.queries)
}

func TestModel_ConnectionErrorsPassThrough(t *testing.T) {
	boom := errors.New("boom")
	conn := &recordingConn{err: boom}
	m := personModel(t)

	_, err := m.Select(context.Background(), conn)
	assert.ErrorIs(t, err, boom)

	_, err = m.Count(context.Background(), conn, nil)
	assert.ErrorIs(t, err, boom)
}

func TestModel_FromRowFailureDropsResults(t *testing.T) {
	conn := &recordingConn{rows: []Row{
		NewRow(TextValue("Jo"), IntegerValue(44)),
		NewRow(TextValue("Al"), TextValue("thirty")),
	}}
	m := personModel(t)

	got, err := m.Select(context.Background(), conn)
	assert.ErrorIs(t, err, ErrInvalidType)
	assert.Nil(t, got)
}
