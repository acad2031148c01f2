package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/offlinesync/notekeeper/internal/logger"
	"github.com/offlinesync/notekeeper/internal/sync"
	"github.com/offlinesync/notekeeper/models"
)

func noteFilter(r *http.Request) (models.NoteFilter, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "notebookID"), 10, 64)
	if err != nil {
		return models.NoteFilter{}, sync.ErrNotFound
	}

	return models.NoteFilter{
		Username:   chi.URLParam(r, "username"),
		NotebookID: id,
	}, nil
}

func noteID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "noteID"), 10, 64)
}

func (h *Handler) listNotes(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	filter, err := noteFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}

	window, err := sync.ParseWindow(r.URL.Query(), time.Now())
	if err != nil {
		log.Err(err).Str("func", "*Handler.listNotes").Msg("invalid sync window")
		writeError(w, err)
		return
	}

	notes, err := h.services.NoteService.List(r.Context(), filter, window)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listNotes").Msg("error listing notes")
		writeError(w, err)
		return
	}

	writeJSON(w, notes, http.StatusOK)
}

func (h *Handler) archiveNotes(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	filter, err := noteFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}

	window, err := sync.ParseWindow(r.URL.Query(), time.Now())
	if err != nil {
		log.Err(err).Str("func", "*Handler.archiveNotes").Msg("invalid sync window")
		writeError(w, err)
		return
	}

	notes, partial, err := h.services.NoteService.Archive(r.Context(), filter, window)
	if err != nil {
		log.Err(err).Str("func", "*Handler.archiveNotes").Msg("error listing deleted notes")
		writeError(w, err)
		return
	}

	writeJSON(w, notes, listStatus(partial))
}

func (h *Handler) getNote(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	filter, err := noteFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}

	id, err := noteID(r)
	if err != nil {
		writeError(w, sync.ErrNotFound)
		return
	}

	note, err := h.services.NoteService.Get(r.Context(), filter, id)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getNote").Msg("error getting note")
		writeError(w, err)
		return
	}

	writeJSON(w, note, http.StatusOK)
}

func (h *Handler) createNote(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	filter, err := noteFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var input models.NoteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Err(err).Str("func", "*Handler.createNote").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	note, err := h.services.NoteService.Create(r.Context(), filter, input)
	if err != nil {
		log.Err(err).Str("func", "*Handler.createNote").Msg("error creating note")
		writeError(w, err)
		return
	}

	writeJSON(w, note, http.StatusCreated)
}

func (h *Handler) updateNote(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	filter, err := noteFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}

	id, err := noteID(r)
	if err != nil {
		writeError(w, sync.ErrNotFound)
		return
	}

	conditions, err := sync.ParseWriteConditions(r.URL.Query())
	if err != nil {
		log.Err(err).Str("func", "*Handler.updateNote").Msg("invalid write conditions")
		writeError(w, err)
		return
	}

	var input models.NoteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Err(err).Str("func", "*Handler.updateNote").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	note, err := h.services.NoteService.Update(r.Context(), filter, id, input, conditions)
	if err != nil {
		log.Err(err).Str("func", "*Handler.updateNote").Msg("error updating note")
		writeError(w, err)
		return
	}

	writeJSON(w, note, http.StatusOK)
}

func (h *Handler) deleteNote(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	filter, err := noteFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}

	id, err := noteID(r)
	if err != nil {
		writeError(w, sync.ErrNotFound)
		return
	}

	conditions, err := sync.ParseWriteConditions(r.URL.Query())
	if err != nil {
		log.Err(err).Str("func", "*Handler.deleteNote").Msg("invalid write conditions")
		writeError(w, err)
		return
	}

	if err := h.services.NoteService.Delete(r.Context(), filter, id, conditions); err != nil {
		log.Err(err).Str("func", "*Handler.deleteNote").Msg("error deleting note")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
