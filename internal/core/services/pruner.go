package services

import (
	"github.com/halcyon-tools/jirafetch/internal/core/domain"
	"github.com/halcyon-tools/jirafetch/internal/logger"
)

// Pruner removes fields from decoded-JSON ticket documents by
// dot-delimited exclusion path. Traversal descends mappings by key; when
// an intermediate value is a sequence, the remaining path segments are
// applied to every element (array fan-out), so a single path can strip a
// field from each item of an array without enumerating indices.
//
// Pruning never mutates its input: it works on a deep copy. A key missing
// at any step silently short-circuits that path, because one exclusion
// set is reused across tickets that may not all carry every optional
// field. Malformed paths are logged and skipped.
type Pruner struct{}

// NewPruner creates a new pruner.
func NewPruner() *Pruner {
	return &Pruner{}
}

// Prune returns a copy of doc with every field named by paths removed.
func (p *Pruner) Prune(doc domain.Ticket, paths domain.ExclusionSpec) domain.Ticket {
	if doc == nil {
		return nil
	}
	copied, ok := copyValue(doc).(map[string]any)
	if !ok {
		return doc
	}
	applyPaths(copied, paths)
	return copied
}

// PruneValue prunes paths relative to an arbitrary subtree root. It is
// used by the ticket filter, whose exclusion paths are rooted at a named
// top-level field rather than at the document itself. The returned value
// is a pruned deep copy of v.
func (p *Pruner) PruneValue(v any, paths domain.ExclusionSpec) any {
	copied := copyValue(v)
	applyPaths(copied, paths)
	return copied
}

// applyPaths removes each well-formed path from root, in order.
// Each path is applied exactly once per traversal.
func applyPaths(root any, paths domain.ExclusionSpec) {
	for _, path := range paths {
		segments, ok := domain.SplitPath(path)
		if !ok {
			logger.Warn("skipping malformed exclusion path %q", path)
			continue
		}
		removeAt(root, segments)
	}
}

// removeAt walks v along segments and deletes the field named by the
// final segment. Deleting a key whose value is itself a mapping or
// sequence removes that entire subtree.
func removeAt(v any, segments []string) {
	switch node := v.(type) {
	case map[string]any:
		if len(segments) == 1 {
			delete(node, segments[0])
			return
		}
		child, ok := node[segments[0]]
		if !ok {
			return
		}
		removeAt(child, segments[1:])
	case []any:
		// Array fan-out: the remaining segments apply independently to
		// every element of the sequence.
		for _, elem := range node {
			removeAt(elem, segments)
		}
	default:
		// Scalar mid-path: nothing to descend into.
	}
}

// copyValue deep-copies a decoded-JSON value. Scalars are immutable and
// returned as-is.
func copyValue(v any) any {
	switch node := v.(type) {
	case map[string]any:
		copied := make(map[string]any, len(node))
		for k, child := range node {
			copied[k] = copyValue(child)
		}
		return copied
	case domain.Ticket:
		copied := make(map[string]any, len(node))
		for k, child := range node {
			copied[k] = copyValue(child)
		}
		return copied
	case []any:
		copied := make([]any, len(node))
		for i, child := range node {
			copied[i] = copyValue(child)
		}
		return copied
	default:
		return node
	}
}
