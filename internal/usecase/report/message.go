package report

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/bkyoung/lintgate/internal/domain"
)

var titleCaser = cases.Title(language.English)

// GroupComment formats the findings of one (file, line) group as a
// single GitHub/GitLab-flavored Markdown comment body. Messages keep
// their first-seen order.
func GroupComment(findings []domain.Finding) string {
	if len(findings) == 1 {
		f := findings[0]
		return fmt.Sprintf("**%s:** %s", titleCaser.String(string(f.Severity)), f.Message)
	}

	var sb strings.Builder
	for i, f := range findings {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "- **%s:** %s", titleCaser.String(string(f.Severity)), f.Message)
	}
	return sb.String()
}

// OverviewMessage builds the summary comment for a run with at least
// one reported finding. Deterministic, no I/O.
func OverviewMessage(errors, warnings int) string {
	var sb strings.Builder
	sb.WriteString("## Lint Results\n\n")
	fmt.Fprintf(&sb, "Static analysis reported %s and %s on changed lines.\n\n",
		countPhrase(errors, "error"), countPhrase(warnings, "warning"))
	sb.WriteString("| Severity | Count |\n")
	sb.WriteString("| --- | --- |\n")
	fmt.Fprintf(&sb, "| %s | %d |\n", titleCaser.String(string(domain.SeverityError)), errors)
	fmt.Fprintf(&sb, "| %s | %d |\n", titleCaser.String(string(domain.SeverityWarning)), warnings)
	return sb.String()
}

// StatusDescription builds the short commit-status description.
func StatusDescription(errors int) string {
	if errors > 0 {
		return fmt.Sprintf("Lint reported %s on changed lines", countPhrase(errors, "error"))
	}
	return "No lint errors on changed lines"
}

func countPhrase(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
