package main

import (
	"context"
	"testing"
	"time"

	"github.com/bkyoung/lintgate/internal/adapter/cli"
	"github.com/bkyoung/lintgate/internal/config"
)

func TestResolveGitHubTarget(t *testing.T) {
	base := config.Config{
		GitHub: config.GitHubConfig{
			Token:      "tok",
			Owner:      "acme",
			Repo:       "widgets",
			PullNumber: 7,
		},
		Git: config.GitConfig{RepositoryDir: t.TempDir()},
	}

	t.Run("config values pass through", func(t *testing.T) {
		target, err := resolveGitHubTarget(base, cli.Overrides{})
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		if target.Owner != "acme" || target.Repo != "widgets" || target.PullNumber != 7 {
			t.Fatalf("unexpected target: %+v", target)
		}
	})

	t.Run("overrides win over config", func(t *testing.T) {
		target, err := resolveGitHubTarget(base, cli.Overrides{Owner: "other", PullNumber: 99})
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		if target.Owner != "other" {
			t.Fatalf("expected override owner, got %s", target.Owner)
		}
		if target.Repo != "widgets" {
			t.Fatalf("expected config repo to survive, got %s", target.Repo)
		}
		if target.PullNumber != 99 {
			t.Fatalf("expected override pull number, got %d", target.PullNumber)
		}
	})

	t.Run("missing token rejected", func(t *testing.T) {
		cfg := base
		cfg.GitHub.Token = ""
		if _, err := resolveGitHubTarget(cfg, cli.Overrides{}); err == nil {
			t.Fatal("expected error for missing token")
		}
	})

	t.Run("missing pull number rejected", func(t *testing.T) {
		cfg := base
		cfg.GitHub.PullNumber = 0
		if _, err := resolveGitHubTarget(cfg, cli.Overrides{}); err == nil {
			t.Fatal("expected error for missing pull number")
		}
	})
}

func TestResolveGitLabTarget(t *testing.T) {
	base := config.GitLabConfig{
		Token:           "glpat",
		Project:         "group/app",
		MergeRequestIID: 3,
	}

	t.Run("config values pass through", func(t *testing.T) {
		target, err := resolveGitLabTarget(base, cli.Overrides{})
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		if target.Project != "group/app" || target.MergeRequestIID != 3 {
			t.Fatalf("unexpected target: %+v", target)
		}
	})

	t.Run("overrides win over config", func(t *testing.T) {
		target, err := resolveGitLabTarget(base, cli.Overrides{Project: "group/other", MergeRequestIID: 8})
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		if target.Project != "group/other" || target.MergeRequestIID != 8 {
			t.Fatalf("unexpected target: %+v", target)
		}
	})

	t.Run("missing project rejected", func(t *testing.T) {
		cfg := base
		cfg.Project = ""
		if _, err := resolveGitLabTarget(cfg, cli.Overrides{}); err == nil {
			t.Fatal("expected error for missing project")
		}
	})
}

func TestBuildReporterRejectsUnknownPlatform(t *testing.T) {
	cfg := config.Config{Platform: "bitbucket"}
	if _, err := buildReporter(context.Background(), cfg, cli.Overrides{}, nil, nil); err == nil {
		t.Fatal("expected error for unsupported platform")
	}
}

type logRecorder struct {
	fields []map[string]interface{}
}

func (l *logRecorder) LogInfo(ctx context.Context, message string, fields map[string]interface{}) {
	l.fields = append(l.fields, fields)
}

func (l *logRecorder) LogWarning(ctx context.Context, message string, fields map[string]interface{}) {
}

func (l *logRecorder) LogError(ctx context.Context, message string, fields map[string]interface{}) {
}

func TestBuildReporterLogsRedactedToken(t *testing.T) {
	cfg := config.Config{
		Platform: "github",
		GitHub: config.GitHubConfig{
			Token:      "ghp_123456789",
			Owner:      "acme",
			Repo:       "widgets",
			PullNumber: 7,
		},
	}

	recorder := &logRecorder{}
	if _, err := buildReporter(context.Background(), cfg, cli.Overrides{}, recorder, nil); err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if len(recorder.fields) == 0 {
		t.Fatal("expected target resolution to be logged")
	}
	token, ok := recorder.fields[0]["token"].(string)
	if !ok {
		t.Fatal("expected token field in log")
	}
	if token != "****6789" {
		t.Fatalf("expected redacted token, got %q", token)
	}
}

func TestBuildRetryConfig(t *testing.T) {
	conf := buildRetryConfig(config.HTTPConfig{
		MaxRetries:        5,
		InitialBackoff:    "1s",
		MaxBackoff:        "10s",
		BackoffMultiplier: 3.0,
	})

	if conf.MaxRetries != 5 {
		t.Fatalf("expected 5 retries, got %d", conf.MaxRetries)
	}
	if conf.InitialBackoff != time.Second {
		t.Fatalf("expected 1s initial backoff, got %s", conf.InitialBackoff)
	}
	if conf.MaxBackoff != 10*time.Second {
		t.Fatalf("expected 10s max backoff, got %s", conf.MaxBackoff)
	}
	if conf.Multiplier != 3.0 {
		t.Fatalf("expected multiplier 3.0, got %f", conf.Multiplier)
	}
}

func TestBuildRetryConfigDefaults(t *testing.T) {
	conf := buildRetryConfig(config.HTTPConfig{InitialBackoff: "nonsense"})
	if conf.MaxRetries != 3 {
		t.Fatalf("expected default retries, got %d", conf.MaxRetries)
	}
	if conf.InitialBackoff != 2*time.Second {
		t.Fatalf("expected default initial backoff, got %s", conf.InitialBackoff)
	}
}
