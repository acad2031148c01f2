package models

import "time"

// Tracked carries the bookkeeping columns shared by every synchronizable
// row. Created is set once at insertion. Updated advances on every mutation
// and is strictly increasing over the row's history, which makes it usable
// both as a change-feed cursor and as the optimistic-concurrency token.
// Deleted marks the row as a tombstone; tombstoned rows stay in the table
// until evicted or reaped.
type Tracked struct {
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
	Deleted bool      `json:"deleted"`
}
