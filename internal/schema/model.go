// Package schema defines the normalized data model produced by the survey
// pipeline: the movie catalog, the reviewer roster, and the long-format
// review facts, plus the fixed ordinal rating scale.
//
// Nullable attributes are pointer-typed. A nil pointer means the source cell
// was absent; there are no in-band sentinel values.
package schema

// Movie is one row of the movies table. Title is the natural key; no
// surrogate id and no normalization beyond exact string identity.
type Movie struct {
	Film string `db:"film"`
}

// Reviewer is one row of the reviewers table: one per source survey row,
// in source order. Names are not deduplicated; duplicate names stay as
// separate rows.
type Reviewer struct {
	Name          *string `db:"reviewer_name"`
	FavoriteMovie *string `db:"favorite_movie"`
}

// Review is one rating fact: a single reviewer's ordinal rating of a single
// movie. NumRating is nil when the ordinal string is not on the scale.
// ReviewerName is nil when the source row had no name; the fact is still
// emitted.
type Review struct {
	ReviewerName *string `db:"reviewer_name"`
	Film         string  `db:"film"`
	Rating       string  `db:"rating"`
	NumRating    *int64  `db:"num_rating"`
}

// ratingScale is the fixed ordinal-to-numeric mapping. Any string outside
// this set has no numeric equivalent.
var ratingScale = map[string]int64{
	"Bad":   1,
	"Poor":  2,
	"Okay":  3,
	"Good":  4,
	"Great": 5,
}

// NumRating maps an ordinal rating label to its numeric value. The second
// return is false for labels outside the five-value scale.
func NumRating(ordinal string) (int64, bool) {
	n, ok := ratingScale[ordinal]
	return n, ok
}

// ScaleLabels returns the recognized ordinal labels in ascending numeric
// order. Useful for diagnostics and config scaffolding.
func ScaleLabels() []string {
	return []string{"Bad", "Poor", "Okay", "Good", "Great"}
}
