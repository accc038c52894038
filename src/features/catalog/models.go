package catalog

// Plan is the work queue for one pass together with the count at each
// filtering stage. Counts are derived by difference for display.
type Plan struct {
	Root               string
	Candidates         []string
	Found              int
	Supported          int
	PreviouslyImported int
	PreviouslyErrored  int
	IgnoredExtensions  []string
	// Unrecordable are supported files whose names cannot be written to the
	// record files. They are never dispatched.
	Unrecordable []string
}

// Remaining is the number of files left to dispatch.
func (p Plan) Remaining() int {
	return len(p.Candidates)
}
