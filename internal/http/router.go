package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"docsite/internal/handlers"
	"docsite/internal/storage"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	// OutDir is the built site served at the root.
	OutDir string
	// LiveReload, when set, is mounted at /livereload.
	LiveReload *LiveReload
	// Documents, when set, backs /api/search.
	Documents storage.DocumentStore
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	// Add chi middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)

	if deps.LiveReload != nil {
		r.Handle("/livereload", deps.LiveReload)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(CORS)
		r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.OutDir, deps.Documents))
		if deps.Documents != nil {
			r.Method(http.MethodGet, "/search", handlers.NewSearchHandler(deps.Documents))
		}
	})

	files := NoCache(http.FileServer(http.Dir(deps.OutDir)))
	r.Method(http.MethodGet, "/*", files)
	r.Method(http.MethodHead, "/*", files)

	return r
}
