package gitlab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bkyoung/lintgate/internal/adapter/httpx"
	"github.com/bkyoung/lintgate/internal/domain"
	"github.com/bkyoung/lintgate/internal/usecase/report"
)

const (
	defaultBaseURL       = "https://gitlab.com/api/v4"
	defaultTimeout       = 30 * time.Second
	defaultStatusContext = "lintgate"
)

// Config identifies the merge request a Client reports to. Project may
// be a numeric id or a URL-encodable "group/project" path.
type Config struct {
	Token           string
	BaseURL         string
	Project         string
	MergeRequestIID int
	StatusContext   string
}

// Client is an HTTP client for the GitLab merge request API
// implementing report.Platform.
type Client struct {
	cfg        Config
	httpClient *http.Client
	retryConf  httpx.RetryConfig

	// version caches the merge request's latest diff version; its SHAs
	// are required for anchoring diff discussions. Written by
	// LatestRevision, read by concurrent CreateInlineComment calls.
	mu      sync.RWMutex
	version *mrVersion
}

// NewClient creates a GitLab API client for one merge request.
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

func (c *Client) projectPath() string {
	return url.PathEscape(c.cfg.Project)
}

func (c *Client) mrURL(suffix string) string {
	return fmt.Sprintf("%s/projects/%s/merge_requests/%d%s", c.cfg.BaseURL, c.projectPath(), c.cfg.MergeRequestIID, suffix)
}

// LatestRevision returns the head commit SHA of the merge request's
// latest diff version.
func (c *Client) LatestRevision(ctx context.Context) (string, error) {
	version, err := c.latestVersion(ctx)
	if err != nil {
		return "", err
	}
	return version.HeadCommitSHA, nil
}

// Diff returns the merge request's changed files.
func (c *Client) Diff(ctx context.Context) ([]domain.DiffEntry, error) {
	var changes mrChanges
	if err := c.do(ctx, http.MethodGet, c.mrURL("/changes"), nil, &changes); err != nil {
		return nil, err
	}

	entries := make([]domain.DiffEntry, 0, len(changes.Changes))
	for _, change := range changes.Changes {
		if change.DeletedFile {
			continue
		}
		entries = append(entries, domain.DiffEntry{Path: change.NewPath, Patch: change.Diff})
	}
	return entries, nil
}

// CreateInlineComment opens a diff discussion at the given file and
// new-side line of the merge request.
func (c *Client) CreateInlineComment(ctx context.Context, revision, body, path string, line int) error {
	version, err := c.latestVersion(ctx)
	if err != nil {
		return err
	}

	return c.do(ctx, http.MethodPost, c.mrURL("/discussions"), createDiscussionRequest{
		Body: body,
		Position: notePosition{
			PositionType: "text",
			BaseSHA:      version.BaseCommitSHA,
			StartSHA:     version.StartCommitSHA,
			HeadSHA:      revision,
			NewPath:      path,
			NewLine:      line,
		},
	}, nil)
}

// CreateSummaryComment posts a top-level note on the merge request.
func (c *Client) CreateSummaryComment(ctx context.Context, body string) error {
	return c.do(ctx, http.MethodPost, c.mrURL("/notes"), createNoteRequest{Body: body}, nil)
}

// SetStatus sets the commit status on the given revision. GitLab uses
// "failed" where GitHub uses "failure".
func (c *Client) SetStatus(ctx context.Context, revision string, success bool, description string) error {
	state := "failed"
	if success {
		state = "success"
	}
	statusURL := fmt.Sprintf("%s/projects/%s/statuses/%s", c.cfg.BaseURL, c.projectPath(), revision)
	return c.do(ctx, http.MethodPost, statusURL, createStatusRequest{
		State:       state,
		Description: description,
		Context:     c.cfg.StatusContext,
	}, nil)
}

// CurrentUserID returns the id of the authenticated user.
func (c *Client) CurrentUserID(ctx context.Context) (int64, error) {
	var u currentUser
	if err := c.do(ctx, http.MethodGet, c.cfg.BaseURL+"/user", nil, &u); err != nil {
		return 0, err
	}
	return u.ID, nil
}

// ListTopLevelComments lists the merge request's plain notes. Diff
// notes are excluded; system notes are flagged so the reporter never
// deletes them.
func (c *Client) ListTopLevelComments(ctx context.Context) ([]report.Comment, error) {
	notes, err := c.listNotes(ctx)
	if err != nil {
		return nil, err
	}

	var result []report.Comment
	for _, n := range notes {
		if n.Position != nil {
			continue
		}
		result = append(result, report.Comment{ID: n.ID, AuthorID: n.Author.ID, System: n.System})
	}
	return result, nil
}

// ListInlineComments lists the merge request's diff notes.
func (c *Client) ListInlineComments(ctx context.Context) ([]report.Comment, error) {
	notes, err := c.listNotes(ctx)
	if err != nil {
		return nil, err
	}

	var result []report.Comment
	for _, n := range notes {
		if n.Position == nil {
			continue
		}
		result = append(result, report.Comment{ID: n.ID, AuthorID: n.Author.ID, System: n.System})
	}
	return result, nil
}

// DeleteTopLevelComment deletes a note by id.
func (c *Client) DeleteTopLevelComment(ctx context.Context, id int64) error {
	return c.deleteNote(ctx, id)
}

// DeleteInlineComment deletes a diff note by id. Both kinds share the
// notes endpoint on GitLab.
func (c *Client) DeleteInlineComment(ctx context.Context, id int64) error {
	return c.deleteNote(ctx, id)
}

func (c *Client) deleteNote(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, c.mrURL(fmt.Sprintf("/notes/%d", id)), nil, nil)
}

func (c *Client) listNotes(ctx context.Context) ([]note, error) {
	var notes []note
	if err := c.do(ctx, http.MethodGet, c.mrURL("/notes?per_page=100"), nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// latestVersion fetches and caches the newest merge request diff
// version.
func (c *Client) latestVersion(ctx context.Context) (mrVersion, error) {
	c.mu.RLock()
	cached := c.version
	c.mu.RUnlock()
	if cached != nil {
		return *cached, nil
	}

	var versions []mrVersion
	if err := c.do(ctx, http.MethodGet, c.mrURL("/versions"), nil, &versions); err != nil {
		return mrVersion{}, err
	}
	if len(versions) == 0 {
		return mrVersion{}, httpx.NewInvalidRequestError(platformName, "merge request has no diff versions")
	}

	c.mu.Lock()
	c.version = &versions[0]
	c.mu.Unlock()
	return versions[0], nil
}

// do executes one API call with retry, decoding the JSON response into
// out when out is non-nil.
func (c *Client) do(ctx context.Context, method, reqURL string, body, out interface{}) error {
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
		req, reqErr := http.NewRequestWithContext(ctx, method, reqURL, reader)
		if reqErr != nil {
			return &httpx.Error{
				Type:      httpx.ErrTypeUnknown,
				Message:   reqErr.Error(),
				Retryable: false,
				Platform:  platformName,
			}
		}

		req.Header.Set("PRIVATE-TOKEN", c.cfg.Token)
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
