package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bkyoung/lintgate/internal/adapter/cli"
	githubadapter "github.com/bkyoung/lintgate/internal/adapter/github"
	gitlabadapter "github.com/bkyoung/lintgate/internal/adapter/gitlab"
	"github.com/bkyoung/lintgate/internal/adapter/httpx"
	"github.com/bkyoung/lintgate/internal/adapter/observability"
	"github.com/bkyoung/lintgate/internal/adapter/output/json"
	"github.com/bkyoung/lintgate/internal/adapter/repository"
	"github.com/bkyoung/lintgate/internal/config"
	"github.com/bkyoung/lintgate/internal/usecase/report"
	"github.com/bkyoung/lintgate/internal/version"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, cli.ErrFindingsReported) {
			// The report itself succeeded; the exit code carries the verdict.
			os.Exit(2)
		}
		// Redact tokens from URLs in error messages before logging
		log.Println(httpx.RedactURLSecrets(err.Error()))
		os.Exit(1)
	}
}

func run() error {
	// Create cancellable context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: defaultConfigPaths(),
		FileName:    "lintgate",
		EnvPrefix:   "LINTGATE",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	logger := buildLogger(cfg.Observability)

	var reportLogger report.Logger
	if logger != nil {
		reportLogger = observability.NewReportLogger(logger)
	}

	// Timestamp function for deterministic output file naming
	nowFunc := func() string {
		return time.Now().UTC().Format("20060102T150405Z")
	}

	factory := func(ctx context.Context, overrides cli.Overrides) (cli.Reporter, error) {
		return buildReporter(ctx, cfg, overrides, reportLogger, json.NewWriter(nowFunc))
	}

	root := cli.NewRootCommand(cli.Dependencies{
		NewReporter:   factory,
		DefaultFormat: cfg.Report.Format,
		Version:       version.Value(),
	})

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, cli.ErrVersionRequested) {
			return nil
		}
		if errors.Is(err, cli.ErrFindingsReported) {
			return err
		}
		return fmt.Errorf("command failed: %w", err)
	}
	return nil
}

// buildReporter resolves the platform target from configuration, CLI
// overrides, and the local git remote, then wires the reporting use case
// around the matching API client.
func buildReporter(ctx context.Context, cfg config.Config, overrides cli.Overrides, logger report.Logger, artifacts report.ArtifactWriter) (cli.Reporter, error) {
	platform := overrides.Platform
	if platform == "" {
		platform = cfg.Platform
	}
	if platform == "" {
		platform = "github"
	}

	removeOld := cfg.Report.RemoveOldComments
	if overrides.RemoveOldComments != nil {
		removeOld = *overrides.RemoveOldComments
	}

	timeout := parseDurationOr(cfg.HTTP.Timeout, 30*time.Second)
	retryConf := buildRetryConfig(cfg.HTTP)

	var platformClient report.Platform
	switch platform {
	case "github":
		target, err := resolveGitHubTarget(cfg, overrides)
		if err != nil {
			return nil, err
		}
		if logger != nil {
			logger.LogInfo(ctx, "resolved github target", map[string]interface{}{
				"owner": target.Owner,
				"repo":  target.Repo,
				"pull":  target.PullNumber,
				"token": httpx.RedactToken(target.Token),
			})
		}
		client := githubadapter.NewClient(target)
		client.SetTimeout(timeout)
		client.SetRetryConfig(retryConf)
		platformClient = client
	case "gitlab":
		target, err := resolveGitLabTarget(cfg.GitLab, overrides)
		if err != nil {
			return nil, err
		}
		if logger != nil {
			logger.LogInfo(ctx, "resolved gitlab target", map[string]interface{}{
				"project": target.Project,
				"mr":      target.MergeRequestIID,
				"token":   httpx.RedactToken(target.Token),
			})
		}
		client := gitlabadapter.NewClient(target)
		client.SetTimeout(timeout)
		client.SetRetryConfig(retryConf)
		platformClient = client
	default:
		return nil, fmt.Errorf("unsupported platform %q (expected github or gitlab)", platform)
	}

	reporter := report.NewReporter(platformClient, logger, report.Options{
		RemoveOldComments: removeOld,
		PlatformName:      platform,
		OutputDir:         cfg.Output.Directory,
	})
	if cfg.Report.WriteArtifact {
		reporter.WithArtifactWriter(artifacts)
	}
	return reporter, nil
}

// resolveGitHubTarget merges CLI overrides over config, falling back to
// the origin remote of the local repository for owner and repo.
func resolveGitHubTarget(cfg config.Config, overrides cli.Overrides) (githubadapter.Config, error) {
	target := githubadapter.Config{
		Token:         cfg.GitHub.Token,
		BaseURL:       cfg.GitHub.BaseURL,
		Owner:         cfg.GitHub.Owner,
		Repo:          cfg.GitHub.Repo,
		PullNumber:    cfg.GitHub.PullNumber,
		StatusContext: cfg.GitHub.StatusContext,
	}
	if overrides.Owner != "" {
		target.Owner = overrides.Owner
	}
	if overrides.Repo != "" {
		target.Repo = overrides.Repo
	}
	if overrides.PullNumber != 0 {
		target.PullNumber = overrides.PullNumber
	}

	if target.Owner == "" || target.Repo == "" {
		repoDir := cfg.Git.RepositoryDir
		if repoDir == "" {
			repoDir = "."
		}
		if info, err := repository.Describe(repoDir); err == nil {
			if target.Owner == "" {
				target.Owner = info.Owner
			}
			if target.Repo == "" {
				target.Repo = info.Repo
			}
		}
	}

	if target.Token == "" {
		target.Token = os.Getenv("GITHUB_TOKEN")
	}
	if target.Token == "" {
		return githubadapter.Config{}, fmt.Errorf("github token not configured (set github.token or GITHUB_TOKEN)")
	}
	if target.Owner == "" || target.Repo == "" {
		return githubadapter.Config{}, fmt.Errorf("github owner and repo not configured and not detectable from the git remote")
	}
	if target.PullNumber <= 0 {
		return githubadapter.Config{}, fmt.Errorf("github pull request number not configured (set github.pullNumber or --pr-number)")
	}
	return target, nil
}

// resolveGitLabTarget merges CLI overrides over config.
func resolveGitLabTarget(cfg config.GitLabConfig, overrides cli.Overrides) (gitlabadapter.Config, error) {
	target := gitlabadapter.Config{
		Token:           cfg.Token,
		BaseURL:         cfg.BaseURL,
		Project:         cfg.Project,
		MergeRequestIID: cfg.MergeRequestIID,
		StatusContext:   cfg.StatusContext,
	}
	if overrides.Project != "" {
		target.Project = overrides.Project
	}
	if overrides.MergeRequestIID != 0 {
		target.MergeRequestIID = overrides.MergeRequestIID
	}

	if target.Token == "" {
		target.Token = os.Getenv("GITLAB_TOKEN")
	}
	if target.Token == "" {
		return gitlabadapter.Config{}, fmt.Errorf("gitlab token not configured (set gitlab.token or GITLAB_TOKEN)")
	}
	if target.Project == "" {
		return gitlabadapter.Config{}, fmt.Errorf("gitlab project not configured (set gitlab.project or --project)")
	}
	if target.MergeRequestIID <= 0 {
		return gitlabadapter.Config{}, fmt.Errorf("gitlab merge request IID not configured (set gitlab.mergeRequestIID or --mr-iid)")
	}
	return target, nil
}

// buildLogger creates the diagnostic logger based on configuration.
// With no configured format, human output is used on a terminal and
// JSON otherwise, so CI logs stay machine readable.
func buildLogger(cfg config.ObservabilityConfig) httpx.Logger {
	if !cfg.Logging.Enabled {
		return nil
	}

	format := cfg.Logging.Format
	if format == "" {
		format = "json"
		if cli.IsOutputTerminal() {
			format = "human"
		}
	}

	return httpx.NewDefaultLogger(httpx.ParseLogLevel(cfg.Logging.Level), httpx.ParseLogFormat(format))
}

func buildRetryConfig(cfg config.HTTPConfig) httpx.RetryConfig {
	conf := httpx.DefaultRetryConfig()
	if cfg.MaxRetries > 0 {
		conf.MaxRetries = cfg.MaxRetries
	}
	if d := parseDurationOr(cfg.InitialBackoff, 0); d > 0 {
		conf.InitialBackoff = d
	}
	if d := parseDurationOr(cfg.MaxBackoff, 0); d > 0 {
		conf.MaxBackoff = d
	}
	if cfg.BackoffMultiplier > 0 {
		conf.Multiplier = cfg.BackoffMultiplier
	}
	return conf
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("warning: invalid duration %q, using default %s", s, fallback)
		return fallback
	}
	return d
}

func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "lintgate"))
	}
	return paths
}

// Compile-time interface compliance checks
var _ report.Platform = (*githubadapter.Client)(nil)
var _ report.Platform = (*gitlabadapter.Client)(nil)
var _ report.ArtifactWriter = (*json.Writer)(nil)
