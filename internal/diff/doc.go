// Package diff parses unified diff patches as supplied by hosting
// platforms for a pull/merge request.
//
// Two questions are answered per file: which new-side line numbers were
// changed by the request (added lines), and at which diff position a
// given new-side line sits. The former drives finding filtering, the
// latter is required by GitHub's review-comment API, where position is
// 1-indexed from the first @@ hunk header counting every diff line.
package diff
