package etl

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"filmsurvey/internal/config"
	"filmsurvey/internal/storage"

	_ "filmsurvey/internal/storage/sqlite"
)

const surveyCSV = `Timestamp,Name,Favorite Movie,Oppenheimer,Barbie,Dune
2023/10/02,Keith,Lord of the Rings,Great,,
2023/10/02,Ana,Barbie,Okay,Good,
2023/10/03,,,Poor,,Bad
`

// writeSurvey drops the fixture CSV into a temp dir and returns its path.
func writeSurvey(tb testing.TB, content string) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), "survey.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		tb.Fatalf("write fixture: %v", err)
	}
	return path
}

func testPipeline(tb testing.TB, srcPath, dbPath string) config.Pipeline {
	tb.Helper()
	p := config.Pipeline{
		Job:    "film_survey_test",
		Source: config.Source{Path: srcPath},
		Storage: config.Storage{
			Kind: "sqlite",
			DB:   config.DBConfig{DSN: dbPath},
		},
	}
	p.ApplyDefaults()
	return p
}

// query reopens the store read-only and runs one statement.
func query(tb testing.TB, dbPath, sqlStmt string) [][]any {
	tb.Helper()
	repo, err := storage.New(context.Background(), storage.Config{Kind: "sqlite", DSN: dbPath})
	if err != nil {
		tb.Fatalf("reopen store: %v", err)
	}
	defer repo.Close()
	_, rows, err := repo.Query(context.Background(), sqlStmt)
	if err != nil {
		tb.Fatalf("query %q: %v", sqlStmt, err)
	}
	return rows
}

func TestRun_EndToEnd(t *testing.T) {
	t.Parallel()

	src := writeSurvey(t, surveyCSV)
	dbPath := filepath.Join(t.TempDir(), "survey.db")

	sum, err := Run(context.Background(), testPipeline(t, src, dbPath))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if sum.RowsRead != 3 || sum.RowsSkipped != 0 {
		t.Errorf("summary rows = %+v", sum)
	}
	// Non-missing movie cells: 1 + 2 + 2.
	if sum.Reviews != 5 {
		t.Errorf("Reviews = %d, want 5", sum.Reviews)
	}
	// Columns Oppenheimer/Barbie/Dune plus favorite "Lord of the Rings"
	// (Barbie collapses into the column set).
	if sum.Movies != 4 {
		t.Errorf("Movies = %d, want 4", sum.Movies)
	}
	if sum.Reviewers != 3 {
		t.Errorf("Reviewers = %d, want 3", sum.Reviewers)
	}
	if len(sum.SourceHash) != 16 {
		t.Errorf("SourceHash = %q, want 16 hex chars", sum.SourceHash)
	}

	rows := query(t, dbPath, `SELECT reviewer_name, rating, num_rating FROM "reviews" WHERE film = 'Oppenheimer' ORDER BY reviewer_name`)
	if len(rows) != 3 {
		t.Fatalf("Oppenheimer reviews = %d, want 3", len(rows))
	}
	// NULLs sort first in SQLite, so Keith is last.
	if rows[2][0] != "Keith" || rows[2][1] != "Great" || rows[2][2] != int64(5) {
		t.Errorf("Keith row = %v, want (Keith, Great, 5)", rows[2])
	}

	// The nameless row's facts survive with NULL reviewer_name.
	rows = query(t, dbPath, `SELECT count(*) FROM "reviews" WHERE reviewer_name IS NULL`)
	if rows[0][0] != int64(2) {
		t.Errorf("NULL-reviewer facts = %v, want 2", rows[0][0])
	}

	rows = query(t, dbPath, `SELECT job, rows_read, reviews FROM "load_audit"`)
	if len(rows) != 1 || rows[0][0] != "film_survey_test" || rows[0][1] != int64(3) || rows[0][2] != int64(5) {
		t.Errorf("load_audit = %v", rows)
	}
}

// TestRun_RerunIdempotent verifies running the same pipeline twice leaves
// identical table contents, not a union of two runs.
func TestRun_RerunIdempotent(t *testing.T) {
	t.Parallel()

	src := writeSurvey(t, surveyCSV)
	dbPath := filepath.Join(t.TempDir(), "survey.db")
	p := testPipeline(t, src, dbPath)

	for run := 0; run < 2; run++ {
		if _, err := Run(context.Background(), p); err != nil {
			t.Fatalf("Run %d: %v", run, err)
		}
	}

	for table, want := range map[string]int64{
		"movies":     4,
		"reviewers":  3,
		"reviews":    5,
		"load_audit": 1,
	} {
		rows := query(t, dbPath, `SELECT count(*) FROM "`+table+`"`)
		if rows[0][0] != want {
			t.Errorf("%s count after rerun = %v, want %d", table, rows[0][0], want)
		}
	}
}

func TestRun_MissingSourceFile(t *testing.T) {
	t.Parallel()

	p := testPipeline(t, filepath.Join(t.TempDir(), "nope.csv"), filepath.Join(t.TempDir(), "s.db"))
	if _, err := Run(context.Background(), p); err == nil {
		t.Fatal("Run should fail on a missing source file")
	}
}

// TestRun_LayoutErrorBeforeWrite checks a misdeclared layout aborts before
// the store file is even created.
func TestRun_LayoutErrorBeforeWrite(t *testing.T) {
	t.Parallel()

	src := writeSurvey(t, "When,Who,Liked,Dune\nt,K,H,Good\n")
	dbPath := filepath.Join(t.TempDir(), "s.db")

	_, err := Run(context.Background(), testPipeline(t, src, dbPath))
	if err == nil || !strings.Contains(err.Error(), "survey layout") {
		t.Fatalf("Run = %v, want layout error", err)
	}
	if _, statErr := os.Stat(dbPath); !os.IsNotExist(statErr) {
		t.Error("store file exists after a pre-load failure")
	}
}

func TestRun_StrictScaleAborts(t *testing.T) {
	t.Parallel()

	src := writeSurvey(t, "Timestamp,Name,Favorite Movie,Dune\nt,K,,Stellar\n")
	p := testPipeline(t, src, filepath.Join(t.TempDir(), "s.db"))
	p.Survey.StrictScale = true

	if _, err := Run(context.Background(), p); err == nil {
		t.Fatal("Run should fail under strict_scale for an off-scale rating")
	}
}

func TestRun_SourceHashStable(t *testing.T) {
	t.Parallel()

	src := writeSurvey(t, surveyCSV)
	db1 := filepath.Join(t.TempDir(), "a.db")
	db2 := filepath.Join(t.TempDir(), "b.db")

	s1, err := Run(context.Background(), testPipeline(t, src, db1))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	s2, err := Run(context.Background(), testPipeline(t, src, db2))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if s1.SourceHash != s2.SourceHash {
		t.Errorf("hash differs across runs of identical input: %s vs %s", s1.SourceHash, s2.SourceHash)
	}
}
