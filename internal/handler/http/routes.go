package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	router.Route("/api", func(r chi.Router) {
		r.Get("/users", h.listUsers)
		r.Get("/users/{username}", h.getUser)

		// aggregate root: the owner travels in the request body
		r.Route("/notebooks", h.notebookRoutes)

		r.Route("/users/{username}/notebooks", func(r chi.Router) {
			h.notebookRoutes(r)

			r.Route("/{notebookID:[0-9]+}/notes", h.noteRoutes)
		})
	})

	return router
}

func (h *Handler) notebookRoutes(r chi.Router) {
	r.Get("/", h.listNotebooks)
	r.Post("/", h.createNotebook)
	r.Get("/deleted", h.archiveNotebooks)

	r.Route("/{notebookID:[0-9]+}", func(r chi.Router) {
		r.Get("/", h.getNotebook)
		r.Put("/", h.updateNotebook)
		r.Delete("/", h.deleteNotebook)
	})
}

func (h *Handler) noteRoutes(r chi.Router) {
	r.Get("/", h.listNotes)
	r.Post("/", h.createNote)
	r.Get("/deleted", h.archiveNotes)

	r.Route("/{noteID:[0-9]+}", func(r chi.Router) {
		r.Get("/", h.getNote)
		r.Put("/", h.updateNote)
		r.Delete("/", h.deleteNote)
	})
}
