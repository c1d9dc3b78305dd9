// surveyprobe inspects a raw survey export and prints a suggested pipeline
// config JSON on stdout:
//
//	surveyprobe -in export.csv -job film_survey > configs/film_survey.json
//
// The guesses (which column is the timestamp, the reviewer, the favorite
// movie) are heuristics over the header labels; review the output before
// running the loader.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"filmsurvey/internal/config"
	"filmsurvey/internal/probe"
)

func main() {
	inPath := flag.String("in", "", "survey export CSV path")
	job := flag.String("job", "film_survey", "job name for the scaffolded config")
	delim := flag.String("delimiter", ",", "field delimiter (first rune used)")
	flag.Parse()

	if *inPath == "" {
		fatalf("usage: surveyprobe -in export.csv [-job name] [-delimiter c]")
	}

	f, err := os.Open(*inPath)
	if err != nil {
		fatalf("open export: %v", err)
	}
	defer f.Close()

	comma := ','
	if *delim != "" {
		comma = []rune(*delim)[0]
	}

	g, err := probe.Header(f, comma)
	if err != nil {
		fatalf("%v", err)
	}

	if g.Survey.TimestampLabel == "" || g.Survey.ReviewerLabel == "" || g.Survey.FavoriteLabel == "" {
		log.Printf("probe: some labels were not guessed and fall back to defaults; edit the output before running")
	}
	log.Printf("probe: %d movie columns detected", len(g.MovieTitles))

	out, err := config.Marshal(probe.Scaffold(*job, *inPath, g))
	if err != nil {
		fatalf("marshal config: %v", err)
	}
	fmt.Println(string(out))
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
