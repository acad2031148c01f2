package models

// Note is a tracked child of a notebook. Unlike notebooks, the parent here
// is itself a tracked entity, so read paths filter out notes whose notebook
// has been tombstoned.
type Note struct {
	ID         int64  `json:"id"`
	NotebookID int64  `json:"notebook"`
	Title      string `json:"title"`
	Text       string `json:"text"`

	Tracked
}

// NoteInput is the validated request body for note writes.
type NoteInput struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}
