package benchmark

import (
	"context"
	"fmt"
	"testing"

	"github.com/coregx/dsql"
)

type user struct {
	ID    int64  `db:"id,pk"`
	Name  string `db:"name"`
	Email string `db:"email,unique"`
	Age   int32  `db:"age"`
}

func (user) TableName() string { return "users" }

// setupBenchDB creates an in-memory SQLite database with the users table.
func setupBenchDB(b *testing.B) (*dsql.DB, *dsql.Model[user]) {
	db, err := dsql.Open("sqlite", ":memory:", dsql.WithMaxOpenConns(1))
	if err != nil {
		b.Fatalf("open database: %v", err)
	}
	b.Cleanup(func() { _ = db.Close() })

	users, err := dsql.StructModel[user]()
	if err != nil {
		b.Fatalf("model: %v", err)
	}
	if err := users.CreateTable(context.Background(), db); err != nil {
		b.Fatalf("create table: %v", err)
	}
	return db, users
}

func makeUsers(n int) []user {
	out := make([]user, n)
	for i := range out {
		out[i] = user{
			ID:    int64(i + 1),
			Name:  fmt.Sprintf("User %d", i),
			Email: fmt.Sprintf("user%d@example.com", i),
			Age:   int32(20 + i%50),
		}
	}
	return out
}

func benchmarkInsertMultiple(b *testing.B, n int) {
	ctx := context.Background()
	db, users := setupBenchDB(b)
	rows := makeUsers(n)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := users.InsertMultiple(ctx, db, rows); err != nil {
			b.Fatalf("insert: %v", err)
		}
		b.StopTimer()
		if err := users.Delete(ctx, db); err != nil {
			b.Fatalf("delete: %v", err)
		}
		b.StartTimer()
	}
}

func BenchmarkInsertMultiple_10rows(b *testing.B)   { benchmarkInsertMultiple(b, 10) }
func BenchmarkInsertMultiple_100rows(b *testing.B)  { benchmarkInsertMultiple(b, 100) }
func BenchmarkInsertMultiple_1000rows(b *testing.B) { benchmarkInsertMultiple(b, 1000) }

// BenchmarkInsert_100rows inserts the same rows one statement at a time for
// comparison with BenchmarkInsertMultiple_100rows.
func BenchmarkInsert_100rows(b *testing.B) {
	ctx := context.Background()
	db, users := setupBenchDB(b)
	rows := makeUsers(100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, u := range rows {
			if err := users.Insert(ctx, db, u); err != nil {
				b.Fatalf("insert: %v", err)
			}
		}
		b.StopTimer()
		if err := users.Delete(ctx, db); err != nil {
			b.Fatalf("delete: %v", err)
		}
		b.StartTimer()
	}
}
