package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bkyoung/lintgate/internal/adapter/repository"
)

func TestParseRemoteURL(t *testing.T) {
	tests := []struct {
		name   string
		remote string
		owner  string
		repo   string
		ok     bool
	}{
		{name: "https", remote: "https://github.com/bkyoung/lintgate.git", owner: "bkyoung", repo: "lintgate", ok: true},
		{name: "https no suffix", remote: "https://github.com/bkyoung/lintgate", owner: "bkyoung", repo: "lintgate", ok: true},
		{name: "scp style", remote: "git@gitlab.com:group/project.git", owner: "group", repo: "project", ok: true},
		{name: "ssh with subgroup", remote: "ssh://git@gitlab.example.com/group/sub/project.git", owner: "group/sub", repo: "project", ok: true},
		{name: "no path", remote: "https://github.com", ok: false},
		{name: "bare name", remote: "lintgate", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, ok := repository.ParseRemoteURL(tt.remote)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.owner, owner)
				assert.Equal(t, tt.repo, repo)
			}
		})
	}
}

func TestDescribe_NotARepository(t *testing.T) {
	_, err := repository.Describe(t.TempDir())
	require.Error(t, err)
}
