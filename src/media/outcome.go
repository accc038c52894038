package media

// Outcome is the classified result of importing a single file.
type Outcome string

const (
	Success          Outcome = "success"
	SuccessDuplicate Outcome = "duplicate"
	Failure          Outcome = "failure"
	TimedOut         Outcome = "timed_out"
)

// Succeeded reports whether the outcome belongs in the Imported set.
func (o Outcome) Succeeded() bool {
	return o == Success || o == SuccessDuplicate
}

// RecordSet returns the persisted set an outcome is recorded in.
func (o Outcome) RecordSet() RecordSet {
	if o.Succeeded() {
		return Imported
	}
	return Errored
}
