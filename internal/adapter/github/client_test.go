package github_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bkyoung/lintgate/internal/adapter/github"
	"github.com/bkyoung/lintgate/internal/adapter/httpx"
)

const filesPatch = `@@ -1,2 +1,3 @@
 package main
+var x = 1
 // end`

func newTestClient(t *testing.T, handler http.Handler) (*github.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := github.NewClient(github.Config{
		Token:      "test-token",
		BaseURL:    server.URL + "/", // trailing slash must be normalized
		Owner:      "owner",
		Repo:       "repo",
		PullNumber: 42,
	})
	client.SetRetryConfig(httpx.RetryConfig{
		MaxRetries:     1,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     time.Millisecond,
		Multiplier:     1.0,
	})
	return client, server
}

func TestLatestRevision(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/repos/owner/repo/pulls/42", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		assert.Equal(t, "2022-11-28", r.Header.Get("X-GitHub-Api-Version"))

		_, _ = w.Write([]byte(`{"number":42,"head":{"sha":"deadbeef"}}`))
	}))

	sha, err := client.LatestRevision(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", sha)
}

func TestDiff(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/owner/repo/pulls/42/files", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))

		_ = json.NewEncoder(w).Encode([]map[string]string{
			{"filename": "main.go", "status": "modified", "patch": filesPatch},
		})
	}))

	entries, err := client.Diff(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "main.go", entries[0].Path)
	assert.Equal(t, filesPatch, entries[0].Patch)
}

func TestCreateInlineComment_ResolvesDiffPosition(t *testing.T) {
	var posted map[string]interface{}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/owner/repo/pulls/42/files":
			_ = json.NewEncoder(w).Encode([]map[string]string{
				{"filename": "main.go", "patch": filesPatch},
			})
		case "/repos/owner/repo/pulls/42/comments":
			assert.Equal(t, "POST", r.Method)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&posted))
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":1}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	// Line 2 is the added line, at diff position 2.
	err := client.CreateInlineComment(context.Background(), "deadbeef", "**Error:** bad", "main.go", 2)
	require.NoError(t, err)

	assert.Equal(t, "deadbeef", posted["commit_id"])
	assert.Equal(t, "main.go", posted["path"])
	assert.Equal(t, float64(2), posted["position"])
	assert.Equal(t, "**Error:** bad", posted["body"])
}

func TestCreateInlineComment_LineOutsideDiff(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]string{
			{"filename": "main.go", "patch": filesPatch},
		})
	}))

	err := client.CreateInlineComment(context.Background(), "deadbeef", "body", "main.go", 99)
	require.Error(t, err)
	assert.ErrorIs(t, err, httpx.NewInvalidRequestError("github", ""))
}

func TestCreateSummaryComment(t *testing.T) {
	var body map[string]string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/repos/owner/repo/issues/42/comments", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":9}`))
	}))

	require.NoError(t, client.CreateSummaryComment(context.Background(), "## Lint Results"))
	assert.Equal(t, "## Lint Results", body["body"])
}

func TestSetStatus(t *testing.T) {
	var body map[string]string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/owner/repo/statuses/deadbeef", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1}`))
	}))

	require.NoError(t, client.SetStatus(context.Background(), "deadbeef", false, "Lint reported 2 errors on changed lines"))
	assert.Equal(t, "failure", body["state"])
	assert.Equal(t, "lintgate", body["context"])
	assert.Equal(t, "Lint reported 2 errors on changed lines", body["description"])
}

func TestSetStatus_Success(t *testing.T) {
	var body map[string]string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1}`))
	}))

	require.NoError(t, client.SetStatus(context.Background(), "deadbeef", true, "clean"))
	assert.Equal(t, "success", body["state"])
}

func TestCurrentUserID(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":1234,"login":"lintgate[bot]"}`))
	}))

	id, err := client.CurrentUserID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1234), id)
}

func TestListAndDeleteComments(t *testing.T) {
	var deleted []string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "GET" && r.URL.Path == "/repos/owner/repo/issues/42/comments":
			_, _ = w.Write([]byte(`[{"id":1,"user":{"id":7}},{"id":2,"user":{"id":8}}]`))
		case r.Method == "GET" && r.URL.Path == "/repos/owner/repo/pulls/42/comments":
			_, _ = w.Write([]byte(`[{"id":3,"user":{"id":7}}]`))
		case r.Method == "DELETE":
			deleted = append(deleted, r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	top, err := client.ListTopLevelComments(context.Background())
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, int64(7), top[0].AuthorID)

	inline, err := client.ListInlineComments(context.Background())
	require.NoError(t, err)
	require.Len(t, inline, 1)

	require.NoError(t, client.DeleteTopLevelComment(context.Background(), 1))
	require.NoError(t, client.DeleteInlineComment(context.Background(), 3))
	assert.Equal(t, []string{
		"/repos/owner/repo/issues/comments/1",
		"/repos/owner/repo/pulls/comments/3",
	}, deleted)
}

func TestRetriesServerErrors(t *testing.T) {
	attempts := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"number":42,"head":{"sha":"retry-sha"}}`))
	}))

	sha, err := client.LatestRevision(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "retry-sha", sha)
	assert.Equal(t, 2, attempts)
}

func TestAuthErrorNotRetried(t *testing.T) {
	attempts := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
	}))

	_, err := client.LatestRevision(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, attempts)

	var apiErr *httpx.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, httpx.ErrTypeAuthentication, apiErr.Type)
	assert.Contains(t, apiErr.Message, "Bad credentials")
}
