package domain

import "strings"

// Severity classifies a static-analysis finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ParseSeverity normalizes a linter-reported severity string.
// Common aliases map onto the three canonical levels; anything
// unrecognized maps to SeverityInfo so it never gates a build.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error", "err", "fatal", "critical", "high":
		return SeverityError
	case "warning", "warn", "medium":
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// Reportable reports whether findings of this severity participate in
// review reporting. Informational findings are never posted.
func (s Severity) Reportable() bool {
	return s == SeverityError || s == SeverityWarning
}

// Finding is a single static-analysis result produced by an external
// analyzer. Findings are read-only inputs to a report run.
type Finding struct {
	File     string
	Line     int
	Severity Severity
	Message  string
}

// DiffEntry is one changed file in the reviewed request, as supplied by
// the hosting platform. Patch holds the file's unified diff; the set of
// changed line numbers is derived from it.
type DiffEntry struct {
	Path  string
	Patch string
}

// CommentGroup aggregates the findings sharing an exact (file, line)
// location into one postable inline comment. A group always contains at
// least one finding, so Errors+Warnings >= 1.
type CommentGroup struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Errors   int    `json:"errors"`
	Warnings int    `json:"warnings"`
	Message  string `json:"message"`
}

// ReportArtifact captures one completed report run for local output.
type ReportArtifact struct {
	OutputDir string         `json:"-"`
	Platform  string         `json:"platform"`
	Revision  string         `json:"revision"`
	Groups    []CommentGroup `json:"groups"`
	Errors    int            `json:"errors"`
	Warnings  int            `json:"warnings"`
	Clean     bool           `json:"clean"`
}
