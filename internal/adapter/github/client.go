package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bkyoung/lintgate/internal/adapter/httpx"
	"github.com/bkyoung/lintgate/internal/diff"
	"github.com/bkyoung/lintgate/internal/domain"
	"github.com/bkyoung/lintgate/internal/usecase/report"
)

const (
	defaultBaseURL       = "https://api.github.com"
	defaultTimeout       = 30 * time.Second
	defaultStatusContext = "lintgate"
)

// Config identifies the pull request a Client reports to.
type Config struct {
	Token         string
	BaseURL       string
	Owner         string
	Repo          string
	PullNumber    int
	StatusContext string
}

// Client is an HTTP client for the GitHub pull request API implementing
// report.Platform. The token should be a personal access token or the
// GITHUB_TOKEN provided by Actions.
type Client struct {
	cfg        Config
	httpClient *http.Client
	retryConf  httpx.RetryConfig

	// patches caches the parsed patch per file from the last Diff call,
	// for resolving inline comment positions. Written only by Diff,
	// read by concurrent CreateInlineComment calls.
	mu      sync.RWMutex
	patches map[string]diff.FileDiff
}

// NewClient creates a GitHub API client for one pull request.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.StatusContext == "" {
		cfg.StatusContext = defaultStatusContext
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: defaultTimeout},
		retryConf:  httpx.DefaultRetryConfig(),
	}
}

// SetTimeout sets the HTTP timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.httpClient.Timeout = timeout
}

// SetRetryConfig replaces the retry policy.
func (c *Client) SetRetryConfig(conf httpx.RetryConfig) {
	c.retryConf = conf
}

// LatestRevision returns the pull request's head commit SHA.
func (c *Client) LatestRevision(ctx context.Context) (string, error) {
	var pr pullRequest
	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d", c.cfg.BaseURL, c.cfg.Owner, c.cfg.Repo, c.cfg.PullNumber)
	if err := c.do(ctx, http.MethodGet, url, nil, &pr); err != nil {
		return "", err
	}
	return pr.Head.SHA, nil
}

// Diff returns the pull request's changed files. Parsed patches are
// cached for later inline comment anchoring.
func (c *Client) Diff(ctx context.Context) ([]domain.DiffEntry, error) {
	var files []pullFile
	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d/files?per_page=100", c.cfg.BaseURL, c.cfg.Owner, c.cfg.Repo, c.cfg.PullNumber)
	if err := c.do(ctx, http.MethodGet, url, nil, &files); err != nil {
		return nil, err
	}

	entries := make([]domain.DiffEntry, 0, len(files))
	patches := make(map[string]diff.FileDiff, len(files))
	for _, f := range files {
		entries = append(entries, domain.DiffEntry{Path: f.Filename, Patch: f.Patch})
		parsed, err := diff.Parse(f.Patch)
		if err != nil {
			continue
		}
		patches[f.Filename] = parsed
	}

	c.mu.Lock()
	c.patches = patches
	c.mu.Unlock()

	return entries, nil
}

// CreateInlineComment posts a review comment at the given file and
// new-side line of the pull request's diff.
func (c *Client) CreateInlineComment(ctx context.Context, revision, body, path string, line int) error {
	position, err := c.position(ctx, path, line)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d/comments", c.cfg.BaseURL, c.cfg.Owner, c.cfg.Repo, c.cfg.PullNumber)
	return c.do(ctx, http.MethodPost, url, createCommentRequest{
		Body:     body,
		CommitID: revision,
		Path:     path,
		Position: position,
	}, nil)
}

// CreateSummaryComment posts a top-level conversation comment.
func (c *Client) CreateSummaryComment(ctx context.Context, body string) error {
	url := fmt.Sprintf("%s/repos/%s/%s/issues/%d/comments", c.cfg.BaseURL, c.cfg.Owner, c.cfg.Repo, c.cfg.PullNumber)
	return c.do(ctx, http.MethodPost, url, createIssueCommentRequest{Body: body}, nil)
}

// SetStatus sets the commit status on the given revision.
func (c *Client) SetStatus(ctx context.Context, revision string, success bool, description string) error {
	state := "failure"
	if success {
		state = "success"
	}
	url := fmt.Sprintf("%s/repos/%s/%s/statuses/%s", c.cfg.BaseURL, c.cfg.Owner, c.cfg.Repo, revision)
	return c.do(ctx, http.MethodPost, url, createStatusRequest{
		State:       state,
		Description: description,
		Context:     c.cfg.StatusContext,
	}, nil)
}

// CurrentUserID returns the id of the authenticated user.
func (c *Client) CurrentUserID(ctx context.Context) (int64, error) {
	var u user
	if err := c.do(ctx, http.MethodGet, c.cfg.BaseURL+"/user", nil, &u); err != nil {
		return 0, err
	}
	return u.ID, nil
}

// ListTopLevelComments lists the pull request's conversation comments.
func (c *Client) ListTopLevelComments(ctx context.Context) ([]report.Comment, error) {
	var comments []issueComment
	url := fmt.Sprintf("%s/repos/%s/%s/issues/%d/comments?per_page=100", c.cfg.BaseURL, c.cfg.Owner, c.cfg.Repo, c.cfg.PullNumber)
	if err := c.do(ctx, http.MethodGet, url, nil, &comments); err != nil {
		return nil, err
	}

	result := make([]report.Comment, 0, len(comments))
	for _, cm := range comments {
		result = append(result, report.Comment{ID: cm.ID, AuthorID: cm.User.ID})
	}
	return result, nil
}

// ListInlineComments lists the pull request's review comments.
func (c *Client) ListInlineComments(ctx context.Context) ([]report.Comment, error) {
	var comments []reviewComment
	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d/comments?per_page=100", c.cfg.BaseURL, c.cfg.Owner, c.cfg.Repo, c.cfg.PullNumber)
	if err := c.do(ctx, http.MethodGet, url, nil, &comments); err != nil {
		return nil, err
	}

	result := make([]report.Comment, 0, len(comments))
	for _, cm := range comments {
		result = append(result, report.Comment{ID: cm.ID, AuthorID: cm.User.ID})
	}
	return result, nil
}

// DeleteTopLevelComment deletes a conversation comment by id.
func (c *Client) DeleteTopLevelComment(ctx context.Context, id int64) error {
	url := fmt.Sprintf("%s/repos/%s/%s/issues/comments/%d", c.cfg.BaseURL, c.cfg.Owner, c.cfg.Repo, id)
	return c.do(ctx, http.MethodDelete, url, nil, nil)
}

// DeleteInlineComment deletes a review comment by id.
func (c *Client) DeleteInlineComment(ctx context.Context, id int64) error {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls/comments/%d", c.cfg.BaseURL, c.cfg.Owner, c.cfg.Repo, id)
	return c.do(ctx, http.MethodDelete, url, nil, nil)
}

// position resolves the diff position for a file/line, fetching the
// diff first if no cached patches exist yet.
func (c *Client) position(ctx context.Context, path string, line int) (int, error) {
	c.mu.RLock()
	patches := c.patches
	c.mu.RUnlock()

	if patches == nil {
		if _, err := c.Diff(ctx); err != nil {
			return 0, err
		}
		c.mu.RLock()
		patches = c.patches
		c.mu.RUnlock()
	}

	fd, ok := patches[path]
	if !ok {
		return 0, httpx.NewInvalidRequestError(platformName, fmt.Sprintf("file %s is not part of the diff", path))
	}
	position, ok := fd.Position(line)
	if !ok {
		return 0, httpx.NewInvalidRequestError(platformName, fmt.Sprintf("line %d of %s is not part of the diff", line, path))
	}
	return position, nil
}

// do executes one API call with retry, decoding the JSON response into
// out when out is non-nil.
func (c *Client) do(ctx context.Context, method, url string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		payload = data
	}

	var resp *http.Response
	err := httpx.RetryWithBackoff(ctx, func(ctx context.Context) error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, reqErr := http.NewRequestWithContext(ctx, method, url, reader)
		if reqErr != nil {
			return &httpx.Error{
				Type:      httpx.ErrTypeUnknown,
				Message:   reqErr.Error(),
				Retryable: false,
				Platform:  platformName,
			}
		}

		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
		req.Header.Set("Accept", "application/vnd.github+json")
		req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		var callErr error
		resp, callErr = c.httpClient.Do(req)
		if callErr != nil {
			// Could be a timeout or a network error.
			return &httpx.Error{
				Type:      httpx.ErrTypeTimeout,
				Message:   callErr.Error(),
				Retryable: true,
				Platform:  platformName,
			}
		}

		if resp.StatusCode >= 400 {
			bodyBytes, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if readErr != nil {
				return &httpx.Error{
					Type:       httpx.ErrTypeUnknown,
					Message:    fmt.Sprintf("HTTP %d (failed to read response: %v)", resp.StatusCode, readErr),
					StatusCode: resp.StatusCode,
					Retryable:  resp.StatusCode >= 500,
					Platform:   platformName,
				}
			}
			return mapHTTPError(resp.StatusCode, bodyBytes)
		}

		return nil
	}, c.retryConf)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
