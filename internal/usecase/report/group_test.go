package report_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bkyoung/lintgate/internal/domain"
	"github.com/bkyoung/lintgate/internal/usecase/report"
)

func TestGroupByLocation_Empty(t *testing.T) {
	assert.Empty(t, report.GroupByLocation(nil))
}

func TestGroupByLocation_OneGroupPerLocation(t *testing.T) {
	findings := []domain.Finding{
		{File: "a.go", Line: 10, Severity: domain.SeverityError, Message: "unused var"},
		{File: "a.go", Line: 10, Severity: domain.SeverityWarning, Message: "long line"},
		{File: "a.go", Line: 20, Severity: domain.SeverityError, Message: "shadowed"},
		{File: "b.go", Line: 10, Severity: domain.SeverityWarning, Message: "naming"},
	}

	groups := report.GroupByLocation(findings)
	require.Len(t, groups, 3)

	assert.Equal(t, "a.go", groups[0].File)
	assert.Equal(t, 10, groups[0].Line)
	assert.Equal(t, 1, groups[0].Errors)
	assert.Equal(t, 1, groups[0].Warnings)

	assert.Equal(t, "a.go", groups[1].File)
	assert.Equal(t, 20, groups[1].Line)
	assert.Equal(t, 1, groups[1].Errors)
	assert.Equal(t, 0, groups[1].Warnings)

	assert.Equal(t, "b.go", groups[2].File)
	assert.Equal(t, 0, groups[2].Errors)
	assert.Equal(t, 1, groups[2].Warnings)
}

func TestGroupByLocation_CountsOrderIndependent(t *testing.T) {
	forward := []domain.Finding{
		{File: "a.go", Line: 1, Severity: domain.SeverityError, Message: "one"},
		{File: "a.go", Line: 1, Severity: domain.SeverityWarning, Message: "two"},
	}
	reversed := []domain.Finding{forward[1], forward[0]}

	g1 := report.GroupByLocation(forward)
	g2 := report.GroupByLocation(reversed)
	require.Len(t, g1, 1)
	require.Len(t, g2, 1)

	assert.Equal(t, g1[0].Errors, g2[0].Errors)
	assert.Equal(t, g1[0].Warnings, g2[0].Warnings)
}

func TestGroupByLocation_MessageKeepsFirstSeenOrder(t *testing.T) {
	findings := []domain.Finding{
		{File: "a.go", Line: 1, Severity: domain.SeverityWarning, Message: "came first"},
		{File: "a.go", Line: 1, Severity: domain.SeverityError, Message: "came second"},
	}

	groups := report.GroupByLocation(findings)
	require.Len(t, groups, 1)

	first := groups[0].Message
	assert.Less(t, strings.Index(first, "came first"), strings.Index(first, "came second"))
}

func TestTotals(t *testing.T) {
	groups := []domain.CommentGroup{
		{Errors: 2, Warnings: 1},
		{Errors: 0, Warnings: 3},
	}
	errs, warns := report.Totals(groups)
	assert.Equal(t, 2, errs)
	assert.Equal(t, 4, warns)
}
