package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/offlinesync/notekeeper/models"
)

// psql builds queries with PostgreSQL-style $N placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var notebookColumns = []string{
	"notebooks.id",
	"notebooks.user_id",
	"users.username",
	"notebooks.title",
	"notebooks.created",
	"notebooks.updated",
	"notebooks.deleted",
}

var noteColumns = []string{
	"notes.id",
	"notes.notebook_id",
	"notes.title",
	"notes.text",
	"notes.created",
	"notes.updated",
	"notes.deleted",
}

const (
	listUsers = `SELECT id, username, created FROM users ORDER BY username;`

	getUserByUsername = `SELECT id, username, created FROM users WHERE username = $1;`

	lockUserByUsername = `SELECT id, username, created FROM users WHERE username = $1 FOR UPDATE;`

	countActiveNotebooks = `SELECT count(*) FROM notebooks WHERE user_id = $1 AND deleted = false;`

	countActiveNotes = `SELECT count(*) FROM notes WHERE notebook_id = $1 AND deleted = false;`

	insertNotebook = `INSERT INTO notebooks (user_id, title, created, updated, deleted)
		VALUES ($1, $2, $3, $3, false)
		RETURNING id;`

	insertNote = `INSERT INTO notes (notebook_id, title, text, created, updated, deleted)
		VALUES ($1, $2, $3, $4, $4, false)
		RETURNING id;`

	updateNotebook = `UPDATE notebooks SET user_id = $1, title = $2, updated = $3 WHERE id = $4;`

	updateNote = `UPDATE notes SET title = $1, text = $2, updated = $3 WHERE id = $4;`

	tombstoneNotebook = `UPDATE notebooks SET deleted = true, updated = $1 WHERE id = $2;`

	tombstoneNote = `UPDATE notes SET deleted = true, updated = $1 WHERE id = $2;`

	purgeNotebookTombstones = `DELETE FROM notebooks
		WHERE deleted = true AND updated < $1
		AND NOT EXISTS (SELECT 1 FROM notes WHERE notes.notebook_id = notebooks.id);`

	purgeNoteTombstones = `DELETE FROM notes WHERE deleted = true AND updated < $1;`
)

// applyWindow narrows a select to updated >= since AND updated < until.
func applyWindow(b sq.SelectBuilder, column string, w models.Window) sq.SelectBuilder {
	if w.Since != nil {
		b = b.Where(sq.GtOrEq{column: *w.Since})
	}
	return b.Where(sq.Lt{column: w.Until})
}

// buildNotebookListQuery selects the windowed notebook collection in one
// deletion state. A non-empty filter username narrows to that owner; the
// aggregate root collection spans all owners.
func buildNotebookListQuery(f models.NotebookFilter, w models.Window, deleted bool) (string, []any, error) {
	b := psql.Select(notebookColumns...).
		From("notebooks").
		Join("users ON users.id = notebooks.user_id").
		Where(sq.Eq{"notebooks.deleted": deleted})

	if f.Username != "" {
		b = b.Where(sq.Eq{"users.username": f.Username})
	}

	b = applyWindow(b, "notebooks.updated", w)
	b = b.OrderBy("notebooks.updated ASC", "notebooks.id ASC")

	return b.ToSql()
}

// buildNotebookGetQuery selects a single live notebook. Tombstones and
// rows outside the path filter read as absent.
func buildNotebookGetQuery(f models.NotebookFilter, id int64) (string, []any, error) {
	b := psql.Select(notebookColumns...).
		From("notebooks").
		Join("users ON users.id = notebooks.user_id").
		Where(sq.Eq{"notebooks.id": id, "notebooks.deleted": false})

	if f.Username != "" {
		b = b.Where(sq.Eq{"users.username": f.Username})
	}

	return b.ToSql()
}

// buildNotebookLockQuery selects a single live notebook for mutation,
// locking its row for the remainder of the enclosing transaction so the
// conditional-timestamp check cannot race a concurrent write.
func buildNotebookLockQuery(f models.NotebookFilter, id int64) (string, []any, error) {
	b := psql.Select(notebookColumns...).
		From("notebooks").
		Join("users ON users.id = notebooks.user_id").
		Where(sq.Eq{"notebooks.id": id, "notebooks.deleted": false})

	if f.Username != "" {
		b = b.Where(sq.Eq{"users.username": f.Username})
	}

	return b.Suffix("FOR UPDATE OF notebooks").ToSql()
}

// buildNotebookEvictionQuery deletes every tombstone of one owner beyond
// the keep most recent, ordered by updated descending with ties broken by
// id descending. Eviction is unconditional: it is not limited to rows in
// any request window.
func buildNotebookEvictionQuery(userID int64, keep int) (string, []any, error) {
	sub := sq.Select("id").
		From("notebooks").
		Where(sq.Eq{"user_id": userID, "deleted": true}).
		OrderBy("updated DESC", "id DESC").
		Offset(uint64(keep))

	subSQL, subArgs, err := sub.ToSql()
	if err != nil {
		return "", nil, err
	}

	return psql.Delete("notebooks").
		Where(sq.Expr("id IN ("+subSQL+")", subArgs...)).
		ToSql()
}

// buildNotebookEvictedGroupQuery reports whether any owner group inside the
// filter has ever filled its tombstone quota in a way that may have cost
// the caller data: the group holds at least deletedLimit tombstones and its
// oldest retained tombstone postdates the caller's since.
func buildNotebookEvictedGroupQuery(f models.NotebookFilter, since *time.Time, deletedLimit int) (string, []any, error) {
	b := psql.Select("notebooks.user_id").
		From("notebooks").
		Where(sq.Eq{"notebooks.deleted": true})

	if f.Username != "" {
		b = b.Join("users ON users.id = notebooks.user_id").
			Where(sq.Eq{"users.username": f.Username})
	}

	b = b.GroupBy("notebooks.user_id").
		Having(sq.Expr("count(*) >= ?", deletedLimit))

	if since != nil {
		b = b.Having(sq.Expr("min(notebooks.updated) >= ?", *since))
	}

	return b.Limit(1).ToSql()
}

// noteBase joins notes up to the users table so path filters (username,
// notebook id) can be applied in one statement.
func noteBase(f models.NoteFilter) sq.SelectBuilder {
	return psql.Select(noteColumns...).
		From("notes").
		Join("notebooks ON notebooks.id = notes.notebook_id").
		Join("users ON users.id = notebooks.user_id").
		Where(sq.Eq{
			"notes.notebook_id": f.NotebookID,
			"users.username":    f.Username,
		})
}

// buildNoteListQuery selects the windowed note collection in one deletion
// state. Read paths filter out notes whose parent notebook is tombstoned.
func buildNoteListQuery(f models.NoteFilter, w models.Window, deleted bool) (string, []any, error) {
	b := noteBase(f).
		Where(sq.Eq{"notes.deleted": deleted, "notebooks.deleted": false})

	b = applyWindow(b, "notes.updated", w)
	b = b.OrderBy("notes.updated ASC", "notes.id ASC")

	return b.ToSql()
}

// buildNoteGetQuery selects a single live note under a live notebook.
func buildNoteGetQuery(f models.NoteFilter, id int64) (string, []any, error) {
	return noteBase(f).
		Where(sq.Eq{"notes.id": id, "notes.deleted": false, "notebooks.deleted": false}).
		ToSql()
}

// buildNoteLockQuery selects a single live note for mutation, locking its
// row. Write paths deliberately skip the parent deletion filter: a
// tombstoned notebook still accepts mutations of its notes, only reads 404.
func buildNoteLockQuery(f models.NoteFilter, id int64) (string, []any, error) {
	return noteBase(f).
		Where(sq.Eq{"notes.id": id, "notes.deleted": false}).
		Suffix("FOR UPDATE OF notes").
		ToSql()
}

// buildNotebookParentQuery resolves the notebook addressed by a note route.
// lock acquires a row lock held until transaction end; deletedFilter is
// applied on read paths only.
func buildNotebookParentQuery(f models.NoteFilter, lock, deletedFilter bool) (string, []any, error) {
	b := psql.Select("notebooks.id").
		From("notebooks").
		Join("users ON users.id = notebooks.user_id").
		Where(sq.Eq{
			"notebooks.id":   f.NotebookID,
			"users.username": f.Username,
		})

	if deletedFilter {
		b = b.Where(sq.Eq{"notebooks.deleted": false})
	}
	if lock {
		b = b.Suffix("FOR UPDATE OF notebooks")
	}

	return b.ToSql()
}

// buildNoteEvictionQuery deletes every tombstone of one notebook beyond the
// keep most recent, ordered as in buildNotebookEvictionQuery.
func buildNoteEvictionQuery(notebookID int64, keep int) (string, []any, error) {
	sub := sq.Select("id").
		From("notes").
		Where(sq.Eq{"notebook_id": notebookID, "deleted": true}).
		OrderBy("updated DESC", "id DESC").
		Offset(uint64(keep))

	subSQL, subArgs, err := sub.ToSql()
	if err != nil {
		return "", nil, err
	}

	return psql.Delete("notes").
		Where(sq.Expr("id IN ("+subSQL+")", subArgs...)).
		ToSql()
}

// buildNoteEvictedGroupQuery is the note counterpart of
// buildNotebookEvictedGroupQuery, grouping tombstones by notebook.
func buildNoteEvictedGroupQuery(f models.NoteFilter, since *time.Time, deletedLimit int) (string, []any, error) {
	b := psql.Select("notes.notebook_id").
		From("notes").
		Join("notebooks ON notebooks.id = notes.notebook_id").
		Join("users ON users.id = notebooks.user_id").
		Where(sq.Eq{
			"notes.deleted":     true,
			"notes.notebook_id": f.NotebookID,
			"users.username":    f.Username,
		}).
		GroupBy("notes.notebook_id").
		Having(sq.Expr("count(*) >= ?", deletedLimit))

	if since != nil {
		b = b.Having(sq.Expr("min(notes.updated) >= ?", *since))
	}

	return b.Limit(1).ToSql()
}
