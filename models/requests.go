package models

// Entity type names used in quota configuration keys, reaper reports and
// limit diagnostics.
const (
	TypeUser     = "user"
	TypeNotebook = "notebook"
	TypeNote     = "note"
)

// NotebookFilter narrows the notebook collection to the parent addressed by
// the request path. An empty Username means the aggregate root collection:
// no path parent, no narrowing.
type NotebookFilter struct {
	Username string
}

// NoteFilter narrows the note collection to the notebook addressed by the
// request path. The username segment is matched through the notebook's
// owner; the user row itself is never consulted (the notebook row already
// implies its existence).
type NoteFilter struct {
	Username   string
	NotebookID int64
}
