// Package etl executes a full survey load: read the wide export, reshape it
// into the normalized three-table model, and replace the tables in the
// configured store.
//
// The run is single-pass and sequential. The store connection is a scoped
// resource: opened after the reshape succeeds, closed on every exit path.
// Tables are written in a fixed order (movies, reviewers, reviews,
// load_audit) with no cross-table transaction; a mid-sequence failure leaves
// earlier tables replaced and later ones stale, and the error says which
// write failed.
package etl

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/zeebo/xxh3"

	"filmsurvey/internal/config"
	"filmsurvey/internal/metrics"
	"filmsurvey/internal/parser/csv"
	"filmsurvey/internal/reshape"
	"filmsurvey/internal/schema"
	"filmsurvey/internal/storage"
)

// Summary reports what a run did, for logging and the audit row.
type Summary struct {
	RowsRead    int64
	RowsSkipped int64
	Movies      int64
	Reviewers   int64
	Reviews     int64
	SourceHash  string
}

// nowFn is a test seam for the audit timestamp.
var nowFn = time.Now

// Run executes the pipeline described by p. Storage backends must have been
// registered with the factory (typically via a blank import of
// internal/storage/all in the binary's main package).
func Run(ctx context.Context, p config.Pipeline) (Summary, error) {
	var sum Summary

	// Parse: read the wide table, hashing the raw bytes on the way through
	// for the audit fingerprint.
	parseStart := time.Now()
	table, hash, err := readSource(p.Source)
	metrics.RecordStep(p.Job, "parse", err, time.Since(parseStart))
	if err != nil {
		return sum, err
	}
	sum.RowsRead = int64(len(table.Rows))
	sum.RowsSkipped = int64(table.Skipped)
	sum.SourceHash = hash
	metrics.RecordRows(p.Job, "rows_read", sum.RowsRead)
	metrics.RecordRows(p.Job, "rows_skipped", sum.RowsSkipped)

	// Reshape: classify columns, then derive the three tables in memory.
	reshapeStart := time.Now()
	movies, reviewers, reviews, err := reshapeTable(table, p.Survey)
	metrics.RecordStep(p.Job, "reshape", err, time.Since(reshapeStart))
	if err != nil {
		return sum, err
	}
	sum.Movies = int64(len(movies))
	sum.Reviewers = int64(len(reviewers))
	sum.Reviews = int64(len(reviews))
	metrics.RecordRows(p.Job, "movies", sum.Movies)
	metrics.RecordRows(p.Job, "reviewers", sum.Reviewers)
	metrics.RecordRows(p.Job, "reviews", sum.Reviews)

	// Load: open the store only now, so a parse/reshape failure never
	// touches it, and close it on every exit path.
	loadStart := time.Now()
	err = load(ctx, p, sum, movies, reviewers, reviews)
	metrics.RecordStep(p.Job, "load", err, time.Since(loadStart))
	if err != nil {
		return sum, err
	}

	log.Printf("etl: job=%s rows_read=%d rows_skipped=%d movies=%d reviewers=%d reviews=%d source_hash=%s",
		p.Job, sum.RowsRead, sum.RowsSkipped, sum.Movies, sum.Reviewers, sum.Reviews, sum.SourceHash)
	return sum, nil
}

// readSource opens the export and parses it, returning the wide table and
// the xxh3-64 hex fingerprint of the raw bytes.
func readSource(src config.Source) (*csv.Table, string, error) {
	f, err := os.Open(src.Path)
	if err != nil {
		return nil, "", fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	h := xxh3.New()
	table, err := csv.ReadTable(io.TeeReader(f, h), csv.Options{
		Comma:     src.Comma(),
		TrimSpace: true,
	})
	if err != nil {
		return nil, "", fmt.Errorf("parse %s: %w", src.Path, err)
	}
	return table, fmt.Sprintf("%016x", h.Sum64()), nil
}

// reshapeTable runs the three reshape steps over the parsed table.
func reshapeTable(t *csv.Table, s config.Survey) ([]schema.Movie, []schema.Reviewer, []schema.Review, error) {
	lay, err := reshape.Classify(t.Header, reshape.Labels{
		Timestamp: s.TimestampLabel,
		Reviewer:  s.ReviewerLabel,
		Favorite:  s.FavoriteLabel,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	reviews, err := reshape.Unpivot(t, lay, s.StrictScale)
	if err != nil {
		return nil, nil, nil, err
	}
	return reshape.BuildCatalog(t, lay), reshape.BuildReviewers(t, lay), reviews, nil
}

// load replaces the destination tables in the configured store.
func load(
	ctx context.Context,
	p config.Pipeline,
	sum Summary,
	movies []schema.Movie,
	reviewers []schema.Reviewer,
	reviews []schema.Review,
) error {
	repo, err := storage.New(ctx, storage.Config{Kind: p.Storage.Kind, DSN: p.Storage.DB.DSN})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer repo.Close()

	if _, err := storage.Replace(ctx, repo, storage.MoviesTable, movieRows(movies)); err != nil {
		return err
	}
	if _, err := storage.Replace(ctx, repo, storage.ReviewersTable, reviewerRows(reviewers)); err != nil {
		return err
	}
	if _, err := storage.Replace(ctx, repo, storage.ReviewsTable, reviewRows(reviews)); err != nil {
		return err
	}

	audit := [][]any{{
		p.Job,
		p.Source.Path,
		sum.SourceHash,
		sum.RowsRead,
		sum.RowsSkipped,
		sum.Movies,
		sum.Reviewers,
		sum.Reviews,
		nowFn().UTC().Format(time.RFC3339),
	}}
	if _, err := storage.Replace(ctx, repo, storage.LoadAuditTable, audit); err != nil {
		return err
	}
	return nil
}

// Row converters: pointer fields become NULL (untyped nil) when nil so every
// backend maps them uniformly.

func movieRows(movies []schema.Movie) [][]any {
	rows := make([][]any, len(movies))
	for i, m := range movies {
		rows[i] = []any{m.Film}
	}
	return rows
}

func reviewerRows(reviewers []schema.Reviewer) [][]any {
	rows := make([][]any, len(reviewers))
	for i, r := range reviewers {
		rows[i] = []any{nullable(r.Name), nullable(r.FavoriteMovie)}
	}
	return rows
}

func reviewRows(reviews []schema.Review) [][]any {
	rows := make([][]any, len(reviews))
	for i, r := range reviews {
		rows[i] = []any{nullable(r.ReviewerName), r.Film, r.Rating, nullableInt(r.NumRating)}
	}
	return rows
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableInt(n *int64) any {
	if n == nil {
		return nil
	}
	return *n
}
