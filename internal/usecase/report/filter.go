package report

import (
	"github.com/bkyoung/lintgate/internal/diff"
	"github.com/bkyoung/lintgate/internal/domain"
)

// FilterByDiff retains the findings worth reporting on this request:
// severity error or warning, located on a line the diff added.
// Input order is preserved. Empty findings or an empty diff yield an
// empty result. Unparseable patches are skipped, which excludes their
// findings the same way an untouched file would.
//
// The function is pure; neither input is modified.
func FilterByDiff(findings []domain.Finding, entries []domain.DiffEntry) []domain.Finding {
	if len(findings) == 0 || len(entries) == 0 {
		return nil
	}

	changed := make(map[string]diff.FileDiff, len(entries))
	for _, entry := range entries {
		fd, err := diff.Parse(entry.Patch)
		if err != nil {
			continue
		}
		changed[entry.Path] = fd
	}

	var kept []domain.Finding
	for _, f := range findings {
		if !f.Severity.Reportable() {
			continue
		}
		fd, ok := changed[f.File]
		if !ok || !fd.Changed(f.Line) {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}
