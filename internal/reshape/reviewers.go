package reshape

import (
	"filmsurvey/internal/parser/csv"
	"filmsurvey/internal/schema"
)

// BuildReviewers projects each source row down to (name, favorite movie):
// exactly one output row per input row, in input order. Nothing is dropped
// or merged; duplicate names stay as distinct rows, and both fields may be
// absent.
func BuildReviewers(t *csv.Table, lay Layout) []schema.Reviewer {
	reviewers := make([]schema.Reviewer, len(t.Rows))
	for r := range t.Rows {
		reviewers[r] = schema.Reviewer{
			Name:          optional(t.Cell(r, lay.ReviewerCol)),
			FavoriteMovie: optional(t.Cell(r, lay.FavoriteCol)),
		}
	}
	return reviewers
}
