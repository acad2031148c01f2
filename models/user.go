package models

import "time"

// User is a plain (untracked) parent resource. Users own notebooks and are
// exposed read-only; they are never synchronized themselves.
type User struct {
	ID       int64     `json:"-"`
	Username string    `json:"username"`
	Created  time.Time `json:"created"`
}
