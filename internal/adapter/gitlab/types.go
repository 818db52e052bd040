package gitlab

// GitLab REST API request/response types, reduced to the fields the
// reporter needs.

// mrVersion is one entry from
// GET /projects/{id}/merge_requests/{iid}/versions, newest first.
type mrVersion struct {
	ID             int64  `json:"id"`
	HeadCommitSHA  string `json:"head_commit_sha"`
	BaseCommitSHA  string `json:"base_commit_sha"`
	StartCommitSHA string `json:"start_commit_sha"`
}

// mrChanges is the response from
// GET /projects/{id}/merge_requests/{iid}/changes.
type mrChanges struct {
	Changes []mrChange `json:"changes"`
}

// mrChange is one changed file of a merge request.
type mrChange struct {
	OldPath     string `json:"old_path"`
	NewPath     string `json:"new_path"`
	Diff        string `json:"diff"`
	NewFile     bool   `json:"new_file"`
	DeletedFile bool   `json:"deleted_file"`
}

// note is a merge request note. Notes with a position are diff notes
// (inline); notes with System true were generated by GitLab itself.
type note struct {
	ID     int64 `json:"id"`
	System bool  `json:"system"`
	Author struct {
		ID int64 `json:"id"`
	} `json:"author"`
	Position *notePosition `json:"position"`
}

// notePosition anchors a diff note to a line of the diff.
type notePosition struct {
	PositionType string `json:"position_type"`
	BaseSHA      string `json:"base_sha"`
	StartSHA     string `json:"start_sha"`
	HeadSHA      string `json:"head_sha"`
	NewPath      string `json:"new_path"`
	NewLine      int    `json:"new_line"`
}

// createNoteRequest is the body for POST .../notes.
type createNoteRequest struct {
	Body string `json:"body"`
}

// createDiscussionRequest is the body for POST .../discussions.
type createDiscussionRequest struct {
	Body     string       `json:"body"`
	Position notePosition `json:"position"`
}

// createStatusRequest is the body for POST /projects/{id}/statuses/{sha}.
type createStatusRequest struct {
	State       string `json:"state"`
	Description string `json:"description"`
	Context     string `json:"context"`
}

// currentUser is the response from GET /user.
type currentUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// errorResponse is GitLab's standard error body; message may be a
// string or a structured object, so it is kept raw.
type errorResponse struct {
	Message interface{} `json:"message"`
	Error   string      `json:"error"`
}
