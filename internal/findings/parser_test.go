package findings_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bkyoung/lintgate/internal/domain"
	"github.com/bkyoung/lintgate/internal/findings"
)

const golangciSample = `{
  "Issues": [
    {
      "FromLinter": "unused",
      "Text": "var x is unused",
      "Severity": "",
      "Pos": {"Filename": "pkg/a.go", "Line": 12}
    },
    {
      "FromLinter": "gocritic",
      "Text": "consider simplifying",
      "Severity": "warning",
      "Pos": {"Filename": "pkg/b.go", "Line": 3}
    }
  ]
}`

func TestParseGolangciLint(t *testing.T) {
	parsed, err := findings.Parse([]byte(golangciSample), findings.FormatGolangciLint)
	require.NoError(t, err)
	require.Len(t, parsed, 2)

	assert.Equal(t, "pkg/a.go", parsed[0].File)
	assert.Equal(t, 12, parsed[0].Line)
	assert.Equal(t, domain.SeverityError, parsed[0].Severity) // empty severity blocks
	assert.Equal(t, "var x is unused (unused)", parsed[0].Message)

	assert.Equal(t, domain.SeverityWarning, parsed[1].Severity)
}

func TestParseGolangciLint_Invalid(t *testing.T) {
	_, err := findings.Parse([]byte("not json"), findings.FormatGolangciLint)
	require.Error(t, err)
}

func TestParseText(t *testing.T) {
	input := `pkg/a.go:10:5: error: something broke
pkg/b.go:20: warning: looks off
pkg/c.go:30:1: no severity token

not a finding line`

	parsed, err := findings.Parse([]byte(input), findings.FormatText)
	require.NoError(t, err)
	require.Len(t, parsed, 3)

	assert.Equal(t, domain.Finding{File: "pkg/a.go", Line: 10, Severity: domain.SeverityError, Message: "something broke"}, parsed[0])
	assert.Equal(t, domain.Finding{File: "pkg/b.go", Line: 20, Severity: domain.SeverityWarning, Message: "looks off"}, parsed[1])
	// Without a severity token the finding blocks.
	assert.Equal(t, domain.SeverityError, parsed[2].Severity)
	assert.Equal(t, "no severity token", parsed[2].Message)
}

func TestParseAuto(t *testing.T) {
	fromJSON, err := findings.Parse([]byte(golangciSample), findings.FormatAuto)
	require.NoError(t, err)
	assert.Len(t, fromJSON, 2)

	fromText, err := findings.Parse([]byte("a.go:1: warning: w"), "")
	require.NoError(t, err)
	require.Len(t, fromText, 1)
	assert.Equal(t, domain.SeverityWarning, fromText[0].Severity)
}

func TestParseUnknownFormat(t *testing.T) {
	_, err := findings.Parse(nil, "sarif")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported findings format")
}

func TestParseText_Empty(t *testing.T) {
	parsed, err := findings.Parse([]byte(""), findings.FormatText)
	require.NoError(t, err)
	assert.Empty(t, parsed)
}
