package report

import "github.com/bkyoung/lintgate/internal/domain"

// GroupByLocation aggregates findings by exact (file, line) into one
// comment group per location. Grouping is stable: the first occurrence
// of a location determines its group's output position, and messages
// within a group keep first-seen order. Counts are order-independent.
func GroupByLocation(findings []domain.Finding) []domain.CommentGroup {
	type key struct {
		file string
		line int
	}

	index := make(map[key]int)
	var groups []domain.CommentGroup
	members := make([][]domain.Finding, 0)

	for _, f := range findings {
		k := key{file: f.File, line: f.Line}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, domain.CommentGroup{File: f.File, Line: f.Line})
			members = append(members, nil)
		}
		switch f.Severity {
		case domain.SeverityError:
			groups[i].Errors++
		case domain.SeverityWarning:
			groups[i].Warnings++
		}
		members[i] = append(members[i], f)
	}

	for i := range groups {
		groups[i].Message = GroupComment(members[i])
	}
	return groups
}

// Totals sums error and warning counts across all groups.
func Totals(groups []domain.CommentGroup) (errors, warnings int) {
	for _, g := range groups {
		errors += g.Errors
		warnings += g.Warnings
	}
	return errors, warnings
}
