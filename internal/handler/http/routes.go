package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging)

	router.Get("/version", h.getServerVersion)

	// tree routes, addressed as {path}.json
	router.Group(func(r chi.Router) {
		r.Use(h.auth, withGZip)

		r.Get("/*", h.get)
		r.Put("/*", h.put)
		r.Patch("/*", h.patch)
		r.Post("/*", h.post)
		r.Delete("/*", h.remove)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
