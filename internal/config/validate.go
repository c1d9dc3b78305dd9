// Package config provides configuration models and helpers for survey
// pipelines.
//
// This file adds a lightweight linter/validator for Pipeline values. It
// performs static checks over a decoded Pipeline and returns a list of issues
// (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "storage.kind",
// "survey.reviewer_label"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect one.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// knownStorageKinds lists the backends the storage factory registers.
var knownStorageKinds = map[string]bool{
	"duckdb":   true,
	"sqlite":   true,
	"postgres": true,
}

// Validate performs static validation / linting of a Pipeline.
//
// It does not mutate the pipeline. Instead it returns a slice of Issue values.
// Callers may decide whether to treat warnings as fatal or not.
func Validate(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it labels metrics and the load audit row",
		})
	}

	if strings.TrimSpace(p.Source.Path) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.path",
			Message:  "source.path must name the survey export file",
		})
	}
	if len(p.Source.Delimiter) > 1 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "source.delimiter",
			Message:  fmt.Sprintf("delimiter %q is longer than one character; only the first rune is used", p.Source.Delimiter),
		})
	}

	issues = append(issues, validateSurvey(p.Survey)...)
	issues = append(issues, validateStorage(p.Storage)...)

	return issues
}

// validateSurvey checks the declared column labels.
func validateSurvey(s Survey) []Issue {
	var issues []Issue

	labels := map[string]string{
		"survey.timestamp_label": s.TimestampLabel,
		"survey.reviewer_label":  s.ReviewerLabel,
		"survey.favorite_label":  s.FavoriteLabel,
	}
	for path, v := range labels {
		if strings.TrimSpace(v) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path,
				Message:  "label must not be empty (ApplyDefaults fills documented defaults)",
			})
		}
	}

	// The three labels must be distinct; a shared label would make the
	// classifier ambiguous.
	seen := map[string]string{}
	for path, v := range labels {
		if v == "" {
			continue
		}
		if prev, dup := seen[v]; dup {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path,
				Message:  fmt.Sprintf("label %q duplicates %s", v, prev),
			})
		}
		seen[v] = path
	}

	return issues
}

// validateStorage checks the sink selection and its options.
func validateStorage(s Storage) []Issue {
	var issues []Issue

	if !knownStorageKinds[s.Kind] {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q (want duckdb, sqlite, or postgres)", s.Kind),
		})
	}
	if strings.TrimSpace(s.DB.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.dsn",
			Message:  "dsn must not be empty",
		})
	}
	if s.Kind == "postgres" && strings.HasSuffix(s.DB.DSN, ".duckdb") {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.db.dsn",
			Message:  "dsn looks like an embedded database file but storage.kind is postgres",
		})
	}

	return issues
}

// HasErrors reports whether any issue in the slice is severity error.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}
