package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/offlinesync/notekeeper/internal/logger"
)

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	users, err := h.services.UserService.ListUsers(r.Context())
	if err != nil {
		log.Err(err).Str("func", "*Handler.listUsers").Msg("error listing users")
		writeError(w, err)
		return
	}

	writeJSON(w, users, http.StatusOK)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	user, err := h.services.UserService.GetUser(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		log.Err(err).Str("func", "*Handler.getUser").Msg("error getting user")
		writeError(w, err)
		return
	}

	writeJSON(w, user, http.StatusOK)
}
