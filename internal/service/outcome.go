package service

import "fmt"

// Outcome is the terminal state of one job run through the pipeline.
type Outcome int

const (
	// OutcomeFailed means the job was dropped before anything was persisted.
	OutcomeFailed Outcome = iota
	// OutcomeSkipped means the dedup cache already held a completion marker.
	OutcomeSkipped
	// OutcomeStored means the job reached both durable stores. The cache marker
	// may still be missing if the final cache write failed.
	OutcomeStored
	// OutcomePartial means the relational row exists but the document write failed.
	OutcomePartial
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeStored:
		return "stored"
	case OutcomePartial:
		return "partial"
	default:
		return "failed"
	}
}

// MarshalText renders the outcome by name in JSON payloads.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText parses an outcome name produced by MarshalText.
func (o *Outcome) UnmarshalText(text []byte) error {
	for _, v := range []Outcome{OutcomeFailed, OutcomeSkipped, OutcomeStored, OutcomePartial} {
		if v.String() == string(text) {
			*o = v
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", text)
}
