// Package probe inspects a raw survey export and proposes a pipeline
// configuration for it: it canonicalizes the header labels and guesses which
// columns are the timestamp, reviewer, and favorite-movie columns, leaving
// the rest as movie titles.
//
// The guesses are scaffolding, not classification: the emitted config is for
// a human to review and edit, and the pipeline itself still resolves labels
// exactly at run time.
package probe

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"filmsurvey/internal/config"
	"filmsurvey/internal/parser/csv"
)

// Guess is the result of probing an export header.
type Guess struct {
	// Survey holds the guessed label declarations. A field is empty when no
	// header matched its heuristics.
	Survey config.Survey

	// MovieTitles lists the headers left over after the guessed labels, in
	// header order.
	MovieTitles []string
}

// Header reads only the header row from r and applies the heuristics.
func Header(r io.Reader, comma rune) (Guess, error) {
	header, err := csv.ReadHeader(r, csv.Options{Comma: comma, TrimSpace: true})
	if err != nil {
		return Guess{}, fmt.Errorf("probe: %w", err)
	}
	return guessHeader(header), nil
}

// keyword sets matched against canonicalized header labels.
var (
	timestampWords = []string{"timestamp", "date", "submitted"}
	reviewerWords  = []string{"name", "reviewer", "who"}
	favoriteWords  = []string{"favorite", "favourite"}
)

func guessHeader(header []string) Guess {
	var g Guess
	taken := make([]bool, len(header))

	pick := func(words []string) string {
		for i, h := range header {
			if taken[i] {
				continue
			}
			c := canonicalize(h)
			for _, w := range words {
				if strings.Contains(c, w) {
					taken[i] = true
					return h
				}
			}
		}
		return ""
	}

	// Favorite first: its label often contains "movie" words that would
	// otherwise be plausible reviewer matches ("What is your favorite...").
	g.Survey.FavoriteLabel = pick(favoriteWords)
	g.Survey.TimestampLabel = pick(timestampWords)
	g.Survey.ReviewerLabel = pick(reviewerWords)

	for i, h := range header {
		if !taken[i] {
			g.MovieTitles = append(g.MovieTitles, h)
		}
	}
	return g
}

// canonicalize converts arbitrary header text into a lowercase ASCII
// identifier for keyword matching:
//  1. lowercase
//  2. strip accents (NFD → remove Mn → NFC)
//  3. keep [a-z0-9_]; convert space/dash/dot to underscore; drop others
func canonicalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	// Decompose → remove nonspacing marks (accents) → recompose.
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	ascii, _, _ := transform.String(t, s)

	var b strings.Builder
	prevUnderscore := false
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevUnderscore = false
		case r == '_' || r == ' ' || r == '-' || r == '.':
			if !prevUnderscore {
				b.WriteRune('_')
				prevUnderscore = true
			}
		default:
			// drop anything else
		}
	}
	return strings.Trim(b.String(), "_")
}

// Scaffold builds a full pipeline config around a guess, filling defaults
// for anything the heuristics could not place.
func Scaffold(job, sourcePath string, g Guess) config.Pipeline {
	p := config.Pipeline{
		Job:    job,
		Source: config.Source{Path: sourcePath},
		Survey: g.Survey,
		Storage: config.Storage{
			Kind: config.DefaultStorageKind,
			DB:   config.DBConfig{DSN: job + ".duckdb"},
		},
	}
	p.ApplyDefaults()
	return p
}
