// Package report correlates static-analysis findings with a review
// request's diff and publishes them to the hosting platform as inline
// comments, a summary comment, and a commit status.
package report

import (
	"context"

	"github.com/bkyoung/lintgate/internal/domain"
)

// Comment is a platform-side comment record, reduced to what stale
// comment cleanup needs. System is true for platform-generated notes
// (GitLab system notes); those are never deleted.
type Comment struct {
	ID       int64
	AuthorID int64
	System   bool
}

// Platform is the capability set a hosting platform adapter must
// provide. Implementations exist for GitHub pull requests and GitLab
// merge requests; the reporter is identical over both.
//
// All mutation happens through this interface. Authentication,
// pagination, and wire formats are the adapter's concern; retries live
// in the adapter's HTTP layer, never in the reporter.
type Platform interface {
	// LatestRevision returns the identifier the platform uses to anchor
	// inline comments and statuses (commit SHA).
	LatestRevision(ctx context.Context) (string, error)

	// Diff returns the request's changed files with their patches.
	Diff(ctx context.Context) ([]domain.DiffEntry, error)

	CreateSummaryComment(ctx context.Context, body string) error
	CreateInlineComment(ctx context.Context, revision, body, path string, line int) error
	SetStatus(ctx context.Context, revision string, success bool, description string) error

	CurrentUserID(ctx context.Context) (int64, error)
	ListTopLevelComments(ctx context.Context) ([]Comment, error)
	ListInlineComments(ctx context.Context) ([]Comment, error)
	DeleteTopLevelComment(ctx context.Context, id int64) error
	DeleteInlineComment(ctx context.Context, id int64) error
}

// Logger is the structured logging dependency of the reporter.
type Logger interface {
	LogInfo(ctx context.Context, message string, fields map[string]interface{})
	LogWarning(ctx context.Context, message string, fields map[string]interface{})
	LogError(ctx context.Context, message string, fields map[string]interface{})
}

// ArtifactWriter optionally persists a completed run as a local file.
type ArtifactWriter interface {
	Write(ctx context.Context, artifact domain.ReportArtifact) (string, error)
}
