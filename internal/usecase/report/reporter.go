package report

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/bkyoung/lintgate/internal/domain"
)

// Options configures a Reporter.
type Options struct {
	// RemoveOldComments deletes the tool's own comments from previous
	// runs before publishing, keeping re-reports idempotent.
	RemoveOldComments bool

	// PlatformName labels log entries and the optional artifact.
	PlatformName string

	// OutputDir receives the optional artifact file.
	OutputDir string
}

// Reporter publishes findings onto one review request. It holds no
// per-run state: totals are threaded through the run as values, so a
// single Reporter is safe to reuse across invocations.
type Reporter struct {
	platform  Platform
	logger    Logger
	artifacts ArtifactWriter
	opts      Options
}

// NewReporter creates a Reporter over the given platform adapter.
// Logger and artifact writer are optional.
func NewReporter(platform Platform, logger Logger, opts Options) *Reporter {
	return &Reporter{platform: platform, logger: logger, opts: opts}
}

// WithArtifactWriter enables writing a local JSON artifact per run.
func (r *Reporter) WithArtifactWriter(w ArtifactWriter) *Reporter {
	r.artifacts = w
	return r
}

// Report runs the full reporting sequence and returns true iff the run
// is clean: no error-severity finding landed on a changed line. The
// polarity is the same on every platform. Warnings never fail the
// status.
//
// Any platform call failing aborts the remaining steps; the error is
// logged and returned without retries or compensation. Effects of
// operations already in flight in the same batch are not rolled back.
func (r *Reporter) Report(ctx context.Context, findings []domain.Finding) (bool, error) {
	revision, err := r.platform.LatestRevision(ctx)
	if err != nil {
		return false, r.fail(ctx, "fetch revision", err)
	}

	entries, err := r.platform.Diff(ctx)
	if err != nil {
		return false, r.fail(ctx, "fetch diff", err)
	}

	matched := FilterByDiff(findings, entries)
	groups := GroupByLocation(matched)
	errorCount, warningCount := Totals(groups)

	r.logInfo(ctx, "correlated findings with diff", map[string]interface{}{
		"platform": r.opts.PlatformName,
		"revision": revision,
		"findings": len(findings),
		"matched":  len(matched),
		"groups":   len(groups),
		"errors":   errorCount,
		"warnings": warningCount,
	})

	if r.opts.RemoveOldComments {
		if err := r.removeOwnComments(ctx); err != nil {
			return false, r.fail(ctx, "remove old comments", err)
		}
	}

	if err := r.publish(ctx, revision, groups, errorCount, warningCount); err != nil {
		return false, err
	}

	clean := errorCount == 0
	if r.artifacts != nil {
		if _, err := r.artifacts.Write(ctx, domain.ReportArtifact{
			OutputDir: r.opts.OutputDir,
			Platform:  r.opts.PlatformName,
			Revision:  revision,
			Groups:    groups,
			Errors:    errorCount,
			Warnings:  warningCount,
			Clean:     clean,
		}); err != nil {
			// Artifact is a local convenience; the report already
			// succeeded, so only warn.
			r.logWarning(ctx, "write report artifact", map[string]interface{}{"error": err.Error()})
		}
	}

	return clean, nil
}

// removeOwnComments deletes every comment the current user authored on
// the request. The identity and comment listings are fetched
// concurrently, then all deletions fan out concurrently. Both batches
// are fail-fast with no rollback. Platform-generated system notes are
// kept even when attributed to the current user.
func (r *Reporter) removeOwnComments(ctx context.Context) error {
	var (
		userID  int64
		top     []Comment
		inline  []Comment
		deleted int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		id, err := r.platform.CurrentUserID(gctx)
		userID = id
		return err
	})
	g.Go(func() error {
		comments, err := r.platform.ListTopLevelComments(gctx)
		top = comments
		return err
	})
	g.Go(func() error {
		comments, err := r.platform.ListInlineComments(gctx)
		inline = comments
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	g, gctx = errgroup.WithContext(ctx)
	for _, c := range top {
		if c.AuthorID != userID || c.System {
			continue
		}
		deleted++
		g.Go(func() error {
			return r.platform.DeleteTopLevelComment(gctx, c.ID)
		})
	}
	for _, c := range inline {
		if c.AuthorID != userID {
			continue
		}
		deleted++
		g.Go(func() error {
			return r.platform.DeleteInlineComment(gctx, c.ID)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	r.logInfo(ctx, "removed old comments", map[string]interface{}{"deleted": deleted})
	return nil
}

// publish posts one inline comment per group (concurrent, fail-fast),
// then the summary comment when anything was reported, then the commit
// status derived from the error total.
func (r *Reporter) publish(ctx context.Context, revision string, groups []domain.CommentGroup, errorCount, warningCount int) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, group := range groups {
		g.Go(func() error {
			return r.platform.CreateInlineComment(gctx, revision, group.Message, group.File, group.Line)
		})
	}
	if err := g.Wait(); err != nil {
		return r.fail(ctx, "post inline comments", err)
	}

	if errorCount+warningCount > 0 {
		if err := r.platform.CreateSummaryComment(ctx, OverviewMessage(errorCount, warningCount)); err != nil {
			return r.fail(ctx, "post summary comment", err)
		}
	}

	if err := r.platform.SetStatus(ctx, revision, errorCount == 0, StatusDescription(errorCount)); err != nil {
		return r.fail(ctx, "set commit status", err)
	}

	return nil
}

func (r *Reporter) fail(ctx context.Context, step string, err error) error {
	r.logError(ctx, step+" failed", map[string]interface{}{
		"platform": r.opts.PlatformName,
		"error":    err.Error(),
	})
	return fmt.Errorf("%s: %w", step, err)
}

func (r *Reporter) logInfo(ctx context.Context, msg string, fields map[string]interface{}) {
	if r.logger != nil {
		r.logger.LogInfo(ctx, msg, fields)
	}
}

func (r *Reporter) logWarning(ctx context.Context, msg string, fields map[string]interface{}) {
	if r.logger != nil {
		r.logger.LogWarning(ctx, msg, fields)
	}
}

func (r *Reporter) logError(ctx context.Context, msg string, fields map[string]interface{}) {
	if r.logger != nil {
		r.logger.LogError(ctx, msg, fields)
	}
}
