package duckdb

import (
	"context"
	"testing"

	"filmsurvey/internal/storage"
)

func newMemRepo(tb testing.TB) *Repository {
	tb.Helper()
	r, closeFn, err := NewRepository(context.Background(), ":memory:")
	if err != nil {
		tb.Fatalf("open duckdb :memory:: %v", err)
	}
	tb.Cleanup(closeFn)
	return r
}

func TestNewRepository_EmptyDSN(t *testing.T) {
	t.Parallel()

	if _, _, err := NewRepository(context.Background(), ""); err == nil {
		t.Fatal("NewRepository should reject an empty DSN")
	}
}

func TestCopyFromAndQuery(t *testing.T) {
	t.Parallel()

	r := newMemRepo(t)
	ctx := context.Background()
	if err := r.Exec(ctx, storage.ReviewsTable.CreateSQL()); err != nil {
		t.Fatalf("create table: %v", err)
	}

	five := int64(5)
	rows := [][]any{
		{"Keith", "Oppenheimer", "Great", five},
		{nil, "Barbie", "Meh", nil},
	}
	n, err := r.CopyFrom(ctx, "reviews", storage.ReviewsTable.ColumnNames(), rows)
	if err != nil {
		t.Fatalf("CopyFrom: %v", err)
	}
	if n != 2 {
		t.Errorf("inserted = %d, want 2", n)
	}

	cols, got, err := r.Query(ctx, `SELECT film, num_rating FROM "reviews" ORDER BY film`)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(cols) != 2 || len(got) != 2 {
		t.Fatalf("result shape: cols=%v rows=%d", cols, len(got))
	}
	if got[0][0] != "Barbie" || got[0][1] != nil {
		t.Errorf("row 0 = %v, want Barbie with NULL num_rating", got[0])
	}
}

func TestCopyFrom_Misaligned(t *testing.T) {
	t.Parallel()

	r := newMemRepo(t)
	ctx := context.Background()
	if err := r.Exec(ctx, storage.MoviesTable.CreateSQL()); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := r.CopyFrom(ctx, "movies", []string{"film"}, [][]any{{"Dune", "extra"}}); err == nil {
		t.Error("CopyFrom should reject misaligned rows")
	}
}

// TestReplace_Idempotent exercises the shared replace path against DuckDB.
func TestReplace_Idempotent(t *testing.T) {
	t.Parallel()

	repo, err := storage.New(context.Background(), storage.Config{Kind: "duckdb", DSN: ":memory:"})
	if err != nil {
		t.Fatalf("storage.New(duckdb): %v", err)
	}
	defer repo.Close()
	ctx := context.Background()

	rows := [][]any{{"Dune"}, {"Heat"}}
	for run := 0; run < 2; run++ {
		if _, err := storage.Replace(ctx, repo, storage.MoviesTable, rows); err != nil {
			t.Fatalf("Replace run %d: %v", run, err)
		}
	}

	_, got, err := repo.Query(ctx, `SELECT count(*) FROM "movies"`)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if got[0][0] != int64(2) {
		t.Errorf("count after rerun = %v, want 2", got[0][0])
	}
}
