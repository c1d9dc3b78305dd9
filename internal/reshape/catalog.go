package reshape

import (
	"filmsurvey/internal/parser/csv"
	"filmsurvey/internal/schema"
)

// BuildCatalog produces the movie entity set: the union of movie-column
// headers and every distinct non-missing favorite-movie value. Matching is
// exact string equality; output is sorted for deterministic reruns.
//
// Favorites are free text and are included even when no rating column exists
// for them, so the reviewers table's favorite_movie values always have a
// catalog row to join against.
func BuildCatalog(t *csv.Table, lay Layout) []schema.Movie {
	set := make(map[string]struct{}, len(lay.MovieCols))
	for _, c := range lay.MovieCols {
		set[t.Header[c]] = struct{}{}
	}
	for r := range t.Rows {
		if fav := t.Cell(r, lay.FavoriteCol); fav != "" {
			set[fav] = struct{}{}
		}
	}

	titles := sortedTitles(set)
	movies := make([]schema.Movie, len(titles))
	for i, title := range titles {
		movies[i] = schema.Movie{Film: title}
	}
	return movies
}
