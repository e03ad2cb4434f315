package replica

import "github.com/dmitrijs2005/gophdocs/internal/client/models"

// Decision is the outcome of comparing a synced local document with the
// server copy.
type Decision int

const (
	// DecisionNone: both replicas agree and there are no local edits.
	DecisionNone Decision = iota
	// DecisionPush: the local copy was edited after the last known server
	// state.
	DecisionPush
	// DecisionAdopt: the server moved ahead and there are no local edits
	// after it.
	DecisionAdopt
	// DecisionFork: the server moved ahead and the local copy has edits the
	// server never saw.
	DecisionFork
	// DecisionStale: the server is behind the local copy. Unreachable while
	// last_modified only advances to server-confirmed values.
	DecisionStale
)

func (d Decision) String() string {
	switch d {
	case DecisionNone:
		return "none"
	case DecisionPush:
		return "push"
	case DecisionAdopt:
		return "adopt"
	case DecisionFork:
		return "fork"
	case DecisionStale:
		return "stale"
	default:
		return "unknown"
	}
}

// Decide compares remote last_modified R with local last_modified L and
// last_local_persist P. A zero P means the document has no stamped edit.
func Decide(local models.Document, remoteLastModified int64) Decision {
	r, l, p := remoteLastModified, local.LastModified, local.LastLocalPersist

	switch {
	case r == l:
		if p > r {
			return DecisionPush
		}
		return DecisionNone
	case r > l:
		if p == 0 || r > p {
			return DecisionAdopt
		}
		return DecisionFork
	default:
		return DecisionStale
	}
}
