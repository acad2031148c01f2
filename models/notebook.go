package models

// Notebook is a tracked child of a user. The collection is reachable both
// nested under its owner (/api/users/{username}/notebooks) and as an
// aggregate root collection (/api/notebooks) where the owner reference
// travels in the request body.
type Notebook struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"-"`
	User   string `json:"user"`
	Title  string `json:"title"`

	Tracked
}

// NotebookInput is the validated request body for notebook writes. User is
// the owner's username; it is consulted only on the aggregate routes, where
// the parent reference comes from the payload instead of the path.
type NotebookInput struct {
	User  string `json:"user"`
	Title string `json:"title"`
}
