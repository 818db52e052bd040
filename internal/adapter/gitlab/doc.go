// Package gitlab implements the report.Platform interface over the
// GitLab REST API for merge requests.
//
// Inline comments are posted as diff discussions, which require the
// base, start, and head SHAs of the merge request's latest version in
// addition to the file path and new-side line number. Those SHAs are
// fetched from the versions endpoint and cached for the run.
package gitlab
