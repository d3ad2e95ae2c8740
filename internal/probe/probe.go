// Package probe implements the storage smoke-test steps. Each probe is a
// total function: it logs its own diagnostics and reports failure through a
// Result, never through a returned error.
package probe

// Cause classifies why a probe failed.
type Cause int

const (
	// CauseNone is the zero value for a successful probe.
	CauseNone Cause = iota
	// CauseUnreachable means the bucket does not exist or could not be
	// reached at all.
	CauseUnreachable
	// CausePrecondition means a local requirement was not met and no remote
	// call was attempted.
	CausePrecondition
	// CauseLocal means a local filesystem operation failed.
	CauseLocal
	// CauseRemote means the remote storage operation failed.
	CauseRemote
)

func (c Cause) String() string {
	switch c {
	case CauseNone:
		return "none"
	case CauseUnreachable:
		return "unreachable"
	case CausePrecondition:
		return "precondition"
	case CauseLocal:
		return "local"
	case CauseRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// Result is the outcome of a single probe. Key is set by upload probes,
// LocalPath by the download probe. PublicURL is the derived public address of
// the object a probe touched.
type Result struct {
	Probe     string
	OK        bool
	Key       string
	LocalPath string
	PublicURL string
	Cause     Cause
	Err       error
}

func failure(name string, cause Cause, err error) Result {
	return Result{Probe: name, Cause: cause, Err: err}
}
