package sync

import (
	"net/url"
	"time"

	"github.com/offlinesync/notekeeper/models"
)

// Query parameter names understood by the protocol layer.
const (
	AtParam    = "at"
	SinceParam = "since"
	UntilParam = "until"
)

// Granularity is the timestamp resolution of the store. All updated values
// are truncated to it before being written or compared, so that a timestamp
// read back from the store compares equal to the one that was written.
const Granularity = time.Microsecond

// layouts used only to distinguish "no timezone" from "not a timestamp" in
// the error message.
var nakedLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp extracts the named timestamp query parameter from values.
//
// Returns nil when the parameter is absent. Fails with [ErrValidation] when
// the parameter appears more than once, cannot be parsed, or lacks timezone
// information.
func ParseTimestamp(values url.Values, name string) (*time.Time, error) {
	reprs := values[name]

	if len(reprs) > 1 {
		return nil, validationError(name, "multiple timestamp values")
	}
	if len(reprs) == 0 {
		return nil, nil
	}

	if ts, err := time.Parse(time.RFC3339Nano, reprs[0]); err == nil {
		ts = ts.Truncate(Granularity)
		return &ts, nil
	}

	for _, layout := range nakedLayouts {
		if _, err := time.Parse(layout, reprs[0]); err == nil {
			return nil, validationError(name, "timestamp without timezone")
		}
	}

	return nil, validationError(name, "invalid timestamp format")
}

// ParseWindow parses the since/until query parameters into a sync window.
// until defaults to now (the request-processing time) when absent. The
// window bounds are [since, until): since inclusive, until exclusive.
func ParseWindow(values url.Values, now time.Time) (models.Window, error) {
	since, err := ParseTimestamp(values, SinceParam)
	if err != nil {
		return models.Window{}, err
	}

	until, err := ParseTimestamp(values, UntilParam)
	if err != nil {
		return models.Window{}, err
	}
	if until == nil {
		def := now.Truncate(Granularity)
		until = &def
	}

	return models.Window{Since: since, Until: *until}, nil
}
