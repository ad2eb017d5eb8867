// Package source reads job feeds: JSON documents shaped {"jobs":[{"data":{...}}, ...]}.
package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"jobsink/internal/model"
)

type feed struct {
	Jobs []struct {
		Data json.RawMessage `json:"data"`
	} `json:"jobs"`
}

// Entry is one feed position. Err is set when the entry's data object could not be
// decoded into a job; Job then carries whatever req_id could still be read.
type Entry struct {
	Job *model.Job
	Err error
}

// Decode reads one feed document from r and returns its entries in document order.
// Only a malformed document fails as a whole; each data object is decoded on its own,
// so one bad record never costs the others. An entry without a data object yields an
// empty job, which the pipeline later rejects for its missing req_id.
func Decode(r io.Reader) ([]Entry, error) {
	var f feed
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	entries := make([]Entry, 0, len(f.Jobs))
	for i, e := range f.Jobs {
		entries = append(entries, decodeEntry(i, e.Data))
	}
	return entries, nil
}

func decodeEntry(i int, data json.RawMessage) Entry {
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return Entry{Job: &model.Job{}}
	}

	var job model.Job
	if err := json.Unmarshal(data, &job); err != nil {
		var id struct {
			ReqID string `json:"req_id"`
		}
		_ = json.Unmarshal(data, &id)
		return Entry{
			Job: &model.Job{ReqID: id.ReqID},
			Err: fmt.Errorf("decode job %d: %w", i, err),
		}
	}
	return Entry{Job: &job}
}

// ReadFile decodes the feed stored at path.
func ReadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}
