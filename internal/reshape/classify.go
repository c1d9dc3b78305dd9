// Package reshape converts the wide survey table into the normalized
// three-table model: it classifies columns, builds the movie catalog,
// unpivots the reviewer-by-movie rating matrix into long-format review
// facts, and projects the reviewer roster.
//
// All steps are pure, in-memory transformations over the parsed table;
// nothing here touches storage.
package reshape

import (
	"fmt"
	"sort"
	"strings"
)

// Labels declares the export's non-movie column headers. Every header cell
// not matching one of these (by exact string comparison) is a movie title.
type Labels struct {
	Timestamp string
	Reviewer  string
	Favorite  string
}

// Layout is the classified column structure of a survey table: positions of
// the three declared columns and of every movie column, in header order.
type Layout struct {
	TimestampCol int
	ReviewerCol  int
	FavoriteCol  int
	MovieCols    []int
}

// LayoutError reports declared labels that could not be resolved against the
// header, or labels that matched more than one column. It carries enough to
// print one actionable message instead of failing label by label.
type LayoutError struct {
	Missing    []string
	Duplicated []string
}

func (e *LayoutError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing columns: %s", strings.Join(e.Missing, ", ")))
	}
	if len(e.Duplicated) > 0 {
		parts = append(parts, fmt.Sprintf("duplicated columns: %s", strings.Join(e.Duplicated, ", ")))
	}
	return "survey layout: " + strings.Join(parts, "; ")
}

// Classify resolves the declared labels against the header and returns the
// resulting Layout. Labels are matched exactly; a label that is absent, or
// that appears in more than one header cell, yields a *LayoutError rather
// than a silently wrong classification.
func Classify(header []string, labels Labels) (Layout, error) {
	find := func(label string) (int, int) {
		idx, n := -1, 0
		for i, h := range header {
			if h == label {
				if idx < 0 {
					idx = i
				}
				n++
			}
		}
		return idx, n
	}

	var lerr LayoutError
	lay := Layout{}
	for _, c := range []struct {
		label string
		dst   *int
	}{
		{labels.Timestamp, &lay.TimestampCol},
		{labels.Reviewer, &lay.ReviewerCol},
		{labels.Favorite, &lay.FavoriteCol},
	} {
		idx, n := find(c.label)
		switch {
		case n == 0:
			lerr.Missing = append(lerr.Missing, fmt.Sprintf("%q", c.label))
		case n > 1:
			lerr.Duplicated = append(lerr.Duplicated, fmt.Sprintf("%q", c.label))
		default:
			*c.dst = idx
		}
	}
	if len(lerr.Missing) > 0 || len(lerr.Duplicated) > 0 {
		return Layout{}, &lerr
	}

	for i := range header {
		if i == lay.TimestampCol || i == lay.ReviewerCol || i == lay.FavoriteCol {
			continue
		}
		lay.MovieCols = append(lay.MovieCols, i)
	}
	return lay, nil
}

// sortedTitles returns the keys of set in lexical order. Catalog output is
// deterministic regardless of row order so that reruns compare equal.
func sortedTitles(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
