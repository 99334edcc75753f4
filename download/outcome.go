package download

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/alanbriolat/media-archiver"
	"github.com/alanbriolat/media-archiver/generic"
	"github.com/alanbriolat/media-archiver/quality"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusFetching Status = "fetching"
	StatusSaved    Status = "saved"
	StatusFailed   Status = "failed"
)

var terminalStatuses = generic.NewSet(StatusSaved, StatusFailed)

// IsTerminal returns true once nothing further will happen to the item.
func (s Status) IsTerminal() bool {
	return terminalStatuses.Contains(s)
}

// An Item is one asset to acquire: the post it came from, its identity, and the variant chosen to fetch.
type Item struct {
	media_archiver.MediaReference
	Asset     media_archiver.AssetID
	Selection quality.Selection
}

// An Outcome records what happened to one Item. URL is the variant actually fetched, if any.
type Outcome struct {
	SourceURL   string
	URL         string
	Title       string
	CanonicalID string
	Status      Status
	FilePath    string
	Size        int64
	Err         error
}

func (o Outcome) Success() bool {
	return o.Status == StatusSaved
}

func (o Outcome) Error() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// ReplayURL is the URL to record for a later retry.
func (o Outcome) ReplayURL() string {
	if o.URL != "" {
		return o.URL
	}
	return o.SourceURL
}

// A Report holds the outcomes of a run, in input order.
type Report struct {
	RunID    string
	Outcomes []Outcome
}

func (r *Report) Saved() []Outcome {
	return r.filter(StatusSaved)
}

func (r *Report) Failed() []Outcome {
	return r.filter(StatusFailed)
}

// Pending returns the items never attempted because the run was cancelled.
func (r *Report) Pending() []Outcome {
	return r.filter(StatusPending)
}

func (r *Report) filter(status Status) []Outcome {
	var res []Outcome
	for _, o := range r.Outcomes {
		if o.Status == status {
			res = append(res, o)
		}
	}
	return res
}

// Err aggregates every item error, or returns nil if there were none.
func (r *Report) Err() error {
	var result error
	for _, o := range r.Outcomes {
		if o.Err != nil {
			result = multierror.Append(result, fmt.Errorf("%v: %w", o.ReplayURL(), o.Err))
		}
	}
	return result
}
