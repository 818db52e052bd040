// Package findings parses linter output into domain findings.
//
// Two formats are supported: the JSON report emitted by golangci-lint
// (--out-format json) and the line-oriented "path:line:col: message"
// format most compiler-style linters print. The format can be forced
// or sniffed from the payload.
package findings

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/bkyoung/lintgate/internal/domain"
)

// Supported input formats.
const (
	FormatAuto         = "auto"
	FormatGolangciLint = "golangci-lint"
	FormatText         = "text"
)

// golangciReport mirrors the subset of golangci-lint's JSON report the
// reporter needs.
type golangciReport struct {
	Issues []golangciIssue `json:"Issues"`
}

type golangciIssue struct {
	FromLinter string `json:"FromLinter"`
	Text       string `json:"Text"`
	Severity   string `json:"Severity"`
	Pos        struct {
		Filename string `json:"Filename"`
		Line     int    `json:"Line"`
	} `json:"Pos"`
}

// textLine matches "path:line[:col][: severity]: message". The severity
// token is optional; most linters omit it.
var textLine = regexp.MustCompile(`^(.+?):(\d+)(?::\d+)?:\s*(?:(error|warning|info)\s*:\s*)?(.+)$`)

// Parse converts raw linter output to findings. With FormatAuto the
// payload is treated as golangci-lint JSON when it starts with '{',
// text otherwise.
func Parse(data []byte, format string) ([]domain.Finding, error) {
	switch format {
	case FormatGolangciLint:
		return parseGolangci(data)
	case FormatText:
		return parseText(data)
	case FormatAuto, "":
		if bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("{")) {
			return parseGolangci(data)
		}
		return parseText(data)
	default:
		return nil, fmt.Errorf("unsupported findings format %q", format)
	}
}

func parseGolangci(data []byte) ([]domain.Finding, error) {
	var report golangciReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse golangci-lint report: %w", err)
	}

	findings := make([]domain.Finding, 0, len(report.Issues))
	for _, issue := range report.Issues {
		severity := domain.ParseSeverity(issue.Severity)
		if issue.Severity == "" {
			// golangci-lint leaves severity empty for most linters;
			// an unannotated issue fails the run.
			severity = domain.SeverityError
		}
		message := issue.Text
		if issue.FromLinter != "" {
			message = fmt.Sprintf("%s (%s)", issue.Text, issue.FromLinter)
		}
		findings = append(findings, domain.Finding{
			File:     issue.Pos.Filename,
			Line:     issue.Pos.Line,
			Severity: severity,
			Message:  message,
		})
	}
	return findings, nil
}

func parseText(data []byte) ([]domain.Finding, error) {
	var findings []domain.Finding

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		m := textLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		lineNo, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		severity := domain.SeverityError
		if m[3] != "" {
			severity = domain.ParseSeverity(m[3])
		}
		findings = append(findings, domain.Finding{
			File:     m[1],
			Line:     lineNo,
			Severity: severity,
			Message:  strings.TrimSpace(m[4]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan linter output: %w", err)
	}
	return findings, nil
}
