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

// notebookFilter reads the parent from the path. On the aggregate root
// routes there is no username segment and the filter stays empty.
func notebookFilter(r *http.Request) models.NotebookFilter {
	return models.NotebookFilter{Username: chi.URLParam(r, "username")}
}

func notebookID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "notebookID"), 10, 64)
}

func (h *Handler) listNotebooks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	window, err := sync.ParseWindow(r.URL.Query(), time.Now())
	if err != nil {
		log.Err(err).Str("func", "*Handler.listNotebooks").Msg("invalid sync window")
		writeError(w, err)
		return
	}

	notebooks, err := h.services.NotebookService.List(r.Context(), notebookFilter(r), window)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listNotebooks").Msg("error listing notebooks")
		writeError(w, err)
		return
	}

	writeJSON(w, notebooks, http.StatusOK)
}

func (h *Handler) archiveNotebooks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	window, err := sync.ParseWindow(r.URL.Query(), time.Now())
	if err != nil {
		log.Err(err).Str("func", "*Handler.archiveNotebooks").Msg("invalid sync window")
		writeError(w, err)
		return
	}

	notebooks, partial, err := h.services.NotebookService.Archive(r.Context(), notebookFilter(r), window)
	if err != nil {
		log.Err(err).Str("func", "*Handler.archiveNotebooks").Msg("error listing deleted notebooks")
		writeError(w, err)
		return
	}

	writeJSON(w, notebooks, listStatus(partial))
}

func (h *Handler) getNotebook(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	id, err := notebookID(r)
	if err != nil {
		writeError(w, sync.ErrNotFound)
		return
	}

	notebook, err := h.services.NotebookService.Get(r.Context(), notebookFilter(r), id)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getNotebook").Msg("error getting notebook")
		writeError(w, err)
		return
	}

	writeJSON(w, notebook, http.StatusOK)
}

func (h *Handler) createNotebook(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var input models.NotebookInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Err(err).Str("func", "*Handler.createNotebook").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	notebook, err := h.services.NotebookService.Create(r.Context(), notebookFilter(r), input)
	if err != nil {
		log.Err(err).Str("func", "*Handler.createNotebook").Msg("error creating notebook")
		writeError(w, err)
		return
	}

	writeJSON(w, notebook, http.StatusCreated)
}

func (h *Handler) updateNotebook(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	id, err := notebookID(r)
	if err != nil {
		writeError(w, sync.ErrNotFound)
		return
	}

	conditions, err := sync.ParseWriteConditions(r.URL.Query())
	if err != nil {
		log.Err(err).Str("func", "*Handler.updateNotebook").Msg("invalid write conditions")
		writeError(w, err)
		return
	}

	var input models.NotebookInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Err(err).Str("func", "*Handler.updateNotebook").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	notebook, err := h.services.NotebookService.Update(r.Context(), notebookFilter(r), id, input, conditions)
	if err != nil {
		log.Err(err).Str("func", "*Handler.updateNotebook").Msg("error updating notebook")
		writeError(w, err)
		return
	}

	writeJSON(w, notebook, http.StatusOK)
}

func (h *Handler) deleteNotebook(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	id, err := notebookID(r)
	if err != nil {
		writeError(w, sync.ErrNotFound)
		return
	}

	conditions, err := sync.ParseWriteConditions(r.URL.Query())
	if err != nil {
		log.Err(err).Str("func", "*Handler.deleteNotebook").Msg("invalid write conditions")
		writeError(w, err)
		return
	}

	if err := h.services.NotebookService.Delete(r.Context(), notebookFilter(r), id, conditions); err != nil {
		log.Err(err).Str("func", "*Handler.deleteNotebook").Msg("error deleting notebook")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
