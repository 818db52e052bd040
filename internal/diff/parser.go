package diff

import (
	"fmt"
	"strconv"
	"strings"
)

// lineKind marks how a diff line changed the file.
type lineKind int

const (
	kindContext lineKind = iota
	kindAddition
	kindDeletion
)

// line is a single line of a parsed patch. NewLine is the new-side line
// number, zero for deletions. Position is 1-indexed from the first @@.
type line struct {
	kind     lineKind
	newLine  int
	position int
}

// FileDiff is the parsed patch for a single file.
type FileDiff struct {
	lines []line
}

// Parse parses a unified diff patch. File headers (diff --git, index,
// ---, +++) and "\ No newline" markers are tolerated and skipped; an
// empty patch parses to an empty FileDiff. A malformed hunk header is
// an error.
func Parse(patch string) (FileDiff, error) {
	var fd FileDiff
	if patch == "" {
		return fd, nil
	}

	inHunk := false
	position := 0
	newLine := 0

	rows := strings.Split(patch, "\n")
	if rows[len(rows)-1] == "" {
		rows = rows[:len(rows)-1]
	}

	for _, raw := range rows {
		if raw == "" {
			// A blank context line whose leading space the platform
			// stripped. It still occupies a new-side line and a diff
			// position. Outside a hunk, blank lines are separator noise.
			if inHunk {
				position++
				fd.lines = append(fd.lines, line{kind: kindContext, newLine: newLine, position: position})
				newLine++
			}
			continue
		}
		if strings.HasPrefix(raw, "diff --git") ||
			strings.HasPrefix(raw, "index ") ||
			strings.HasPrefix(raw, "--- ") ||
			strings.HasPrefix(raw, "+++ ") ||
			strings.HasPrefix(raw, "\\ ") {
			continue
		}
		if strings.HasPrefix(raw, "@@") {
			start, ok := parseHunkHeader(raw)
			if !ok {
				return FileDiff{}, fmt.Errorf("malformed hunk header %q", raw)
			}
			inHunk = true
			newLine = start
			continue
		}
		if !inHunk {
			continue
		}

		position++
		switch raw[0] {
		case '+':
			fd.lines = append(fd.lines, line{kind: kindAddition, newLine: newLine, position: position})
			newLine++
		case '-':
			fd.lines = append(fd.lines, line{kind: kindDeletion, position: position})
		default:
			// ' ' context, or unprefixed lines some platforms emit.
			fd.lines = append(fd.lines, line{kind: kindContext, newLine: newLine, position: position})
			newLine++
		}
	}

	return fd, nil
}

// Changed reports whether newLine was added by the request.
func (fd FileDiff) Changed(newLine int) bool {
	for _, l := range fd.lines {
		if l.kind == kindAddition && l.newLine == newLine {
			return true
		}
	}
	return false
}

// ChangedLines returns the set of added new-side line numbers.
func (fd FileDiff) ChangedLines() map[int]bool {
	changed := make(map[int]bool)
	for _, l := range fd.lines {
		if l.kind == kindAddition {
			changed[l.newLine] = true
		}
	}
	return changed
}

// Position returns the diff position of the given new-side line number.
// The second result is false when the line is not present in the patch
// (deleted lines, or regions outside every hunk).
func (fd FileDiff) Position(newLine int) (int, bool) {
	if newLine <= 0 {
		return 0, false
	}
	for _, l := range fd.lines {
		if l.kind != kindDeletion && l.newLine == newLine {
			return l.position, true
		}
	}
	return 0, false
}

// parseHunkHeader extracts the new-side start line from a header such
// as "@@ -10,7 +12,8 @@ optional context".
func parseHunkHeader(header string) (newStart int, ok bool) {
	parts := strings.Split(header, "@@")
	if len(parts) < 2 {
		return 0, false
	}
	for _, field := range strings.Fields(strings.TrimSpace(parts[1])) {
		if !strings.HasPrefix(field, "+") {
			continue
		}
		spec := strings.TrimPrefix(field, "+")
		if idx := strings.Index(spec, ","); idx >= 0 {
			spec = spec[:idx]
		}
		start, err := strconv.Atoi(spec)
		if err != nil {
			return 0, false
		}
		return start, true
	}
	return 0, false
}
