package sync

import (
	"errors"
	"fmt"
)

// QuotaKey identifies a (parent type, child type) pair in the quota table.
type QuotaKey struct {
	Parent string
	Child  string
}

// Quota caps the number of children one parent instance may own. Active
// bounds non-tombstoned children at create time; Deleted bounds retained
// tombstones, with the excess evicted oldest-first after each delete.
// Zero means unlimited.
type Quota struct {
	Active  int `json:"active"`
	Deleted int `json:"deleted"`
}

// QuotaTable maps (parent type, child type) pairs to their quotas. It is
// built from configuration once at startup and read-only afterwards.
type QuotaTable map[QuotaKey]Quota

// Get returns the quota configured for the given pair, or the zero Quota
// (unlimited) when none is configured.
func (t QuotaTable) Get(parent, child string) Quota {
	return t[QuotaKey{Parent: parent, Child: child}]
}

// Validate rejects negative limits.
func (t QuotaTable) Validate() error {
	var errs error
	for key, quota := range t {
		if quota.Active < 0 || quota.Deleted < 0 {
			errs = errors.Join(errs, fmt.Errorf("quota for %s/%s: limits must not be negative", key.Parent, key.Child))
		}
	}
	return errs
}
