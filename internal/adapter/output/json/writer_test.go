package json

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bkyoung/lintgate/internal/domain"
)

func testArtifact(dir string) domain.ReportArtifact {
	return domain.ReportArtifact{
		OutputDir: dir,
		Platform:  "github",
		Revision:  "abc123",
		Groups: []domain.CommentGroup{
			{File: "main.go", Line: 5, Errors: 1, Warnings: 0, Message: "**Error:** unused variable"},
		},
		Errors:   1,
		Warnings: 0,
		Clean:    false,
	}
}

func TestWriter_Write(t *testing.T) {
	t.Run("writes artifact to timestamped file", func(t *testing.T) {
		dir := t.TempDir()
		writer := NewWriter(func() string { return "20260829-120000" })

		path, err := writer.Write(context.Background(), testArtifact(dir))

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "lint-report-github-20260829-120000.json"), path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var got domain.ReportArtifact
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, "github", got.Platform)
		assert.Equal(t, "abc123", got.Revision)
		assert.Len(t, got.Groups, 1)
		assert.Equal(t, 1, got.Errors)
		assert.False(t, got.Clean)
	})

	t.Run("creates missing output directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "reports")
		writer := NewWriter(func() string { return "ts" })

		path, err := writer.Write(context.Background(), testArtifact(dir))

		require.NoError(t, err)
		assert.FileExists(t, path)
	})

	t.Run("fails when output directory path is a file", func(t *testing.T) {
		base := t.TempDir()
		blocker := filepath.Join(base, "occupied")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

		writer := NewWriter(func() string { return "ts" })
		_, err := writer.Write(context.Background(), testArtifact(blocker))

		assert.Error(t, err)
	})
}
