package driven

// ArtifactWriter persists one serialized export artifact under a name.
// The core never touches the filesystem directly; the file adapter decides
// where names resolve to.
type ArtifactWriter interface {
	// Write stores data under name, replacing any previous artifact of
	// the same name.
	Write(name string, data []byte) error
}
