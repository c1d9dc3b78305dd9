package metrics

import (
	"errors"
	"testing"
	"time"
)

// captureBackend records every call for assertions.
type captureBackend struct {
	counters   map[string]float64
	histograms map[string][]float64
	lastLabels Labels
	flushed    int
}

func newCapture() *captureBackend {
	return &captureBackend{
		counters:   map[string]float64{},
		histograms: map[string][]float64{},
	}
}

func (c *captureBackend) IncCounter(name string, delta float64, labels Labels) {
	c.counters[name] += delta
	c.lastLabels = labels
}

func (c *captureBackend) ObserveHistogram(name string, value float64, labels Labels) {
	c.histograms[name] = append(c.histograms[name], value)
	c.lastLabels = labels
}

func (c *captureBackend) Flush() error {
	c.flushed++
	return nil
}

// swap installs b for the duration of the test. These tests share the global
// backend, so they must not run in parallel.
func swap(t *testing.T, b Backend) {
	t.Helper()
	SetBackend(b)
	t.Cleanup(func() { SetBackend(nopBackend{}) })
}

func TestRecordStep(t *testing.T) {
	c := newCapture()
	swap(t, c)

	RecordStep("film_survey", "reshape", nil, 40*time.Millisecond)
	if c.counters["survey_step_total"] != 1 {
		t.Errorf("step counter = %v", c.counters)
	}
	if c.lastLabels["status"] != "success" || c.lastLabels["step"] != "reshape" {
		t.Errorf("labels = %v", c.lastLabels)
	}

	RecordStep("film_survey", "load", errors.New("boom"), time.Millisecond)
	if c.lastLabels["status"] != "failure" {
		t.Errorf("failure status not recorded: %v", c.lastLabels)
	}
	if got := len(c.histograms["survey_step_duration_seconds"]); got != 2 {
		t.Errorf("duration observations = %d, want 2", got)
	}
}

func TestRecordRows(t *testing.T) {
	c := newCapture()
	swap(t, c)

	RecordRows("film_survey", "reviews", 7)
	RecordRows("film_survey", "reviews", 0)  // ignored
	RecordRows("film_survey", "reviews", -3) // ignored
	if c.counters["survey_rows_total"] != 7 {
		t.Errorf("rows counter = %v, want 7", c.counters["survey_rows_total"])
	}
}

func TestSetBackend_NilKeepsCurrent(t *testing.T) {
	c := newCapture()
	swap(t, c)

	SetBackend(nil)
	RecordRows("j", "rows_read", 1)
	if c.counters["survey_rows_total"] != 1 {
		t.Error("nil SetBackend should keep the existing backend")
	}
}

func TestFlush_Delegates(t *testing.T) {
	c := newCapture()
	swap(t, c)

	if err := Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if c.flushed != 1 {
		t.Errorf("flushed = %d, want 1", c.flushed)
	}
}
