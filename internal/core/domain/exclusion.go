package domain

import "strings"

// PathSeparator delimits segments in an exclusion path.
const PathSeparator = "."

// ExclusionSpec is an ordered set of dot-delimited paths identifying
// fields to remove from a ticket document, e.g. "statusCategory.colorName"
// or "comments.author.active". When an intermediate segment resolves to
// an array, the remaining segments apply to every element of that array.
type ExclusionSpec []string

// FieldExclusions maps a top-level ticket field name to the exclusion
// paths that apply within the subtree rooted at that field. The entry
// for "comment" carries paths like "comments.author.self", where
// "comments" is the array nested inside the comment field.
type FieldExclusions map[string]ExclusionSpec

// SplitPath breaks an exclusion path into its segments. It returns false
// when the path is malformed: empty, or containing an empty segment
// (leading, trailing or doubled separator).
func SplitPath(path string) ([]string, bool) {
	if path == "" {
		return nil, false
	}
	segments := strings.Split(path, PathSeparator)
	for _, s := range segments {
		if s == "" {
			return nil, false
		}
	}
	return segments, true
}
