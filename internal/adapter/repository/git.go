// Package repository resolves defaults from the local git checkout:
// the current HEAD commit and the owner/repo (or group/project) slug of
// the origin remote. The hosting platform stays the source of truth for
// the report itself; these values only fill in missing configuration.
package repository

import (
	"fmt"
	"strings"

	goGit "github.com/go-git/go-git/v5"
)

// Info describes the local checkout.
type Info struct {
	HeadSHA string
	Owner   string
	Repo    string
}

// Describe inspects the repository containing dir.
func Describe(dir string) (Info, error) {
	repo, err := goGit.PlainOpenWithOptions(dir, &goGit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return Info{}, fmt.Errorf("open repo: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return Info{}, fmt.Errorf("resolve HEAD: %w", err)
	}

	info := Info{HeadSHA: head.Hash().String()}

	remote, err := repo.Remote("origin")
	if err != nil {
		// No origin remote: HEAD alone is still useful.
		return info, nil
	}
	urls := remote.Config().URLs
	if len(urls) > 0 {
		if owner, name, ok := ParseRemoteURL(urls[0]); ok {
			info.Owner = owner
			info.Repo = name
		}
	}
	return info, nil
}

// ParseRemoteURL extracts the owner and repository name from an https,
// ssh, or scp-style git remote URL.
//
//	https://github.com/owner/repo.git  -> owner, repo
//	git@gitlab.com:group/project.git   -> group, project
//	ssh://git@host/group/sub/project   -> group/sub, project
func ParseRemoteURL(remote string) (owner, repo string, ok bool) {
	path := remote

	switch {
	case strings.Contains(path, "://"):
		// https:// or ssh:// form: strip scheme and host.
		idx := strings.Index(path, "://")
		path = path[idx+3:]
		slash := strings.Index(path, "/")
		if slash < 0 {
			return "", "", false
		}
		path = path[slash+1:]
	case strings.Contains(path, ":"):
		// scp-style: git@host:owner/repo.git
		path = path[strings.Index(path, ":")+1:]
	}

	path = strings.TrimSuffix(path, ".git")
	path = strings.Trim(path, "/")

	slash := strings.LastIndex(path, "/")
	if slash <= 0 || slash == len(path)-1 {
		return "", "", false
	}
	return path[:slash], path[slash+1:], true
}
