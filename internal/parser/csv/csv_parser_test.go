package csv

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
	"testing/iotest"
)

func TestReadTable_Basic(t *testing.T) {
	t.Parallel()

	in := "Timestamp,Name,Favorite Movie,Oppenheimer,Barbie\n" +
		"2023/10/02,Keith,Lord of the Rings,Great,\n" +
		"2023/10/02,Ana,,Okay,Good\n"

	tbl, err := ReadTable(strings.NewReader(in), Options{TrimSpace: true})
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	wantHeader := []string{"Timestamp", "Name", "Favorite Movie", "Oppenheimer", "Barbie"}
	if !reflect.DeepEqual(tbl.Header, wantHeader) {
		t.Errorf("Header = %v, want %v", tbl.Header, wantHeader)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(tbl.Rows))
	}
	if got := tbl.Cell(0, 3); got != "Great" {
		t.Errorf("Cell(0,3) = %q, want %q", got, "Great")
	}
	if got := tbl.Cell(1, 2); got != "" {
		t.Errorf("Cell(1,2) = %q, want empty", got)
	}
	if tbl.Skipped != 0 {
		t.Errorf("Skipped = %d, want 0", tbl.Skipped)
	}
}

func TestReadTable_StripsBOM(t *testing.T) {
	t.Parallel()

	in := "\uFEFFTimestamp,Name\n2023/10/02,Keith\n"
	tbl, err := ReadTable(strings.NewReader(in), Options{})
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if tbl.Header[0] != "Timestamp" {
		t.Errorf("Header[0] = %q, BOM not stripped", tbl.Header[0])
	}
}

func TestReadTable_SkipsDeviantWidth(t *testing.T) {
	t.Parallel()

	in := "a,b,c\n1,2,3\nonly,two\n4,5,6\n"
	tbl, err := ReadTable(strings.NewReader(in), Options{})
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if len(tbl.Rows) != 2 {
		t.Errorf("got %d rows, want 2 (deviant row skipped)", len(tbl.Rows))
	}
	if tbl.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", tbl.Skipped)
	}
}

func TestReadTable_TrimSpace(t *testing.T) {
	t.Parallel()

	in := " a , b \n x , y \n"
	trimmed, err := ReadTable(strings.NewReader(in), Options{TrimSpace: true})
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if trimmed.Header[0] != "a" || trimmed.Cell(0, 1) != "y" {
		t.Errorf("trim not applied: header=%v rows=%v", trimmed.Header, trimmed.Rows)
	}

	raw, err := ReadTable(strings.NewReader(in), Options{})
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if raw.Cell(0, 0) != " x " {
		t.Errorf("untrimmed cell = %q, want %q", raw.Cell(0, 0), " x ")
	}
}

func TestReadTable_CustomDelimiter(t *testing.T) {
	t.Parallel()

	in := "a;b\n1;2\n"
	tbl, err := ReadTable(strings.NewReader(in), Options{Comma: ';'})
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if len(tbl.Header) != 2 || tbl.Cell(0, 1) != "2" {
		t.Errorf("semicolon parse wrong: header=%v rows=%v", tbl.Header, tbl.Rows)
	}
}

func TestReadHeader(t *testing.T) {
	t.Parallel()

	in := "\uFEFF Timestamp ,Name\n2023/10/02,Keith\n"
	header, err := ReadHeader(strings.NewReader(in), Options{TrimSpace: true})
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	want := []string{"Timestamp", "Name"}
	if !reflect.DeepEqual(header, want) {
		t.Errorf("header = %v, want %v", header, want)
	}
}

// TestReadHeader_StopsAtHeader feeds a reader that errors after the header
// line; only a full-file parse would trip over it.
func TestReadHeader_StopsAtHeader(t *testing.T) {
	t.Parallel()

	r := io.MultiReader(
		strings.NewReader("a,b,c\n"),
		iotest.ErrReader(errors.New("body unreadable")),
	)
	header, err := ReadHeader(r, Options{})
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if len(header) != 3 {
		t.Errorf("header = %v, want 3 fields", header)
	}
}

func TestReadTable_EmptyInput(t *testing.T) {
	t.Parallel()

	if _, err := ReadTable(strings.NewReader(""), Options{}); err == nil {
		t.Fatal("ReadTable on empty input should fail")
	}
}
