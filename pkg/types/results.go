package types

import (
	"time"
)

// EntryStatus is the outcome of deploying a single entry
type EntryStatus string

const (
	// EntryCopied means the destination was written
	EntryCopied EntryStatus = "copied"

	// EntryUnchanged means the destination already held identical bytes
	EntryUnchanged EntryStatus = "unchanged"

	// EntryPlanned means a dry run would have written the destination
	EntryPlanned EntryStatus = "planned"

	// EntryFailed means the entry could not be deployed
	EntryFailed EntryStatus = "failed"
)

// EntryResult records what happened to one mapping entry
type EntryResult struct {
	ResolvedEntry
	Status      EntryStatus `json:"status"`
	Bytes       int64       `json:"bytes"`
	Checksum    string      `json:"checksum,omitempty"`
	CreatedDirs []string    `json:"createdDirs,omitempty"`
	Error       error       `json:"-"`
	ErrorText   string      `json:"error,omitempty"`
}

// DeployResult is the outcome of a full deployment run
type DeployResult struct {
	RunID           string        `json:"runId"`
	SourceRoot      string        `json:"sourceRoot"`
	DestinationRoot string        `json:"destinationRoot"`
	DryRun          bool          `json:"dryRun"`
	Entries         []EntryResult `json:"entries"`
	StartedAt       time.Time     `json:"startedAt"`
	Duration        time.Duration `json:"duration"`
}

// Count returns the number of entries with the given status
func (r *DeployResult) Count(status EntryStatus) int {
	n := 0
	for _, e := range r.Entries {
		if e.Status == status {
			n++
		}
	}
	return n
}

// Failed returns the entries that failed
func (r *DeployResult) Failed() []EntryResult {
	var failed []EntryResult
	for _, e := range r.Entries {
		if e.Status == EntryFailed {
			failed = append(failed, e)
		}
	}
	return failed
}

// Succeeded reports whether every entry deployed
func (r *DeployResult) Succeeded() bool {
	return r.Count(EntryFailed) == 0
}
