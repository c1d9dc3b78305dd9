package reshape

import (
	"fmt"

	"filmsurvey/internal/parser/csv"
	"filmsurvey/internal/schema"
)

// ScaleError identifies a rating cell whose value is off the ordinal scale.
// It is returned only in strict mode; the default is to keep the review with
// a nil numeric rating.
type ScaleError struct {
	Row    int // zero-based body row index
	Film   string
	Rating string
}

func (e *ScaleError) Error() string {
	return fmt.Sprintf("row %d, movie %q: rating %q is not on the ordinal scale", e.Row, e.Film, e.Rating)
}

// Unpivot transforms the wide reviewer-by-movie matrix into long-format
// review facts. One Review is emitted per non-missing (row, movie-column)
// cell; missing cells emit nothing, so the output is sparse rather than
// null-padded. A missing reviewer name does not drop the row.
//
// The derived numeric rating comes from the fixed ordinal scale. Off-scale
// values produce a nil NumRating, or a *ScaleError when strict is true.
func Unpivot(t *csv.Table, lay Layout, strict bool) ([]schema.Review, error) {
	var reviews []schema.Review
	for r := range t.Rows {
		name := optional(t.Cell(r, lay.ReviewerCol))
		for _, c := range lay.MovieCols {
			rating := t.Cell(r, c)
			if rating == "" {
				continue
			}
			rv := schema.Review{
				ReviewerName: name,
				Film:         t.Header[c],
				Rating:       rating,
			}
			if n, ok := schema.NumRating(rating); ok {
				rv.NumRating = &n
			} else if strict {
				return nil, &ScaleError{Row: r, Film: rv.Film, Rating: rating}
			}
			reviews = append(reviews, rv)
		}
	}
	return reviews, nil
}

// optional maps the empty string to nil and anything else to a pointer to
// its own copy of the value.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
