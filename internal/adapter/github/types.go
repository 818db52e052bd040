package github

// GitHub REST API request/response types, reduced to the fields the
// reporter needs.

// user identifies a GitHub account.
type user struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
}

// pullRequest is the response from GET /repos/{owner}/{repo}/pulls/{number}.
type pullRequest struct {
	Number int `json:"number"`
	Head   struct {
		SHA string `json:"sha"`
	} `json:"head"`
}

// pullFile is one entry from GET /repos/{owner}/{repo}/pulls/{number}/files.
type pullFile struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
	Patch    string `json:"patch"`
}

// issueComment is a top-level conversation comment.
type issueComment struct {
	ID   int64 `json:"id"`
	User user  `json:"user"`
}

// reviewComment is an inline pull-request comment.
type reviewComment struct {
	ID   int64 `json:"id"`
	User user  `json:"user"`
}

// createCommentRequest is the body for POST /repos/{owner}/{repo}/pulls/{number}/comments.
type createCommentRequest struct {
	Body     string `json:"body"`
	CommitID string `json:"commit_id"`
	Path     string `json:"path"`
	// Position is the 1-indexed line offset from the first @@ hunk
	// header of the file's diff.
	Position int `json:"position"`
}

// createIssueCommentRequest is the body for POST /repos/{owner}/{repo}/issues/{number}/comments.
type createIssueCommentRequest struct {
	Body string `json:"body"`
}

// createStatusRequest is the body for POST /repos/{owner}/{repo}/statuses/{sha}.
type createStatusRequest struct {
	State       string `json:"state"`
	Description string `json:"description"`
	Context     string `json:"context"`
}

// errorResponse is GitHub's standard error body.
type errorResponse struct {
	Message string `json:"message"`
	Errors  []struct {
		Resource string `json:"resource"`
		Field    string `json:"field"`
		Code     string `json:"code"`
	} `json:"errors"`
	DocumentationURL string `json:"documentation_url"`
}
