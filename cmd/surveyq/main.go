// surveyq runs one ad-hoc read-only SQL statement against a survey store and
// prints the result as CSV on stdout. It is an exploration convenience, not
// a stable API:
//
//	surveyq -config configs/sample.json "SELECT film, avg(num_rating) FROM reviews GROUP BY film"
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strings"

	"filmsurvey/internal/config"
	"filmsurvey/internal/storage"

	_ "filmsurvey/internal/storage/all"
)

func main() {
	cfgPath := flag.String("config", "configs/sample.json", "pipeline config JSON path")
	flag.Parse()

	if flag.NArg() != 1 {
		fatalf("usage: surveyq [-config path] <SQL>")
	}
	stmt := flag.Arg(0)
	if !readOnly(stmt) {
		fatalf("surveyq only runs read-only statements (got %q)", firstWord(stmt))
	}

	p, err := config.LoadFile(*cfgPath)
	if err != nil {
		fatalf("%v", err)
	}

	ctx := context.Background()
	repo, err := storage.New(ctx, storage.Config{Kind: p.Storage.Kind, DSN: p.Storage.DB.DSN})
	if err != nil {
		fatalf("open store: %v", err)
	}
	defer repo.Close()

	cols, rows, err := repo.Query(ctx, stmt)
	if err != nil {
		fatalf("%v", err)
	}

	w := csv.NewWriter(os.Stdout)
	if err := w.Write(cols); err != nil {
		fatalf("write header: %v", err)
	}
	for _, row := range rows {
		rec := make([]string, len(row))
		for i, v := range row {
			rec[i] = format(v)
		}
		if err := w.Write(rec); err != nil {
			fatalf("write row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		fatalf("flush: %v", err)
	}
}

// readOnly accepts SELECT and WITH statements only. The store is the
// pipeline's output; mutating it by hand defeats overwrite idempotence.
func readOnly(stmt string) bool {
	switch strings.ToUpper(firstWord(stmt)) {
	case "SELECT", "WITH":
		return true
	}
	return false
}

func firstWord(s string) string {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// format renders a scanned value for CSV output; NULL becomes the empty
// string.
func format(v any) string {
	if v == nil {
		return ""
	}
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return fmt.Sprintf("%v", v)
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
