package models

import "time"

// Window is the request-scoped sync window [Since, Until). Since is optional
// (nil means "from the beginning of time"); Until always holds a value and
// defaults to the request-processing instant when the client omits it.
type Window struct {
	Since *time.Time
	Until time.Time
}

// Contains reports whether a row with the given updated timestamp falls
// inside the window: Since <= updated < Until.
func (w Window) Contains(updated time.Time) bool {
	if w.Since != nil && updated.Before(*w.Since) {
		return false
	}
	return updated.Before(w.Until)
}
