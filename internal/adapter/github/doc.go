// Package github implements the report.Platform interface over the
// GitHub REST API for pull requests.
//
// Inline comments are anchored by diff position: the 1-indexed line
// offset from the first @@ hunk header of the file's patch, which is
// what the pull-request comments endpoint expects. Positions are
// resolved from the patches returned by the files endpoint.
package github
