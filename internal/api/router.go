package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/wikitree/internal/pageservice"
)

// Notifier receives change notifications from mutating handlers.
type Notifier interface {
	PublishPageEvent(kind, page string)
	PublishNavigation(pages int)
}

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
// notifier may be nil.
func NewRouter(svc *pageservice.Service, authEnabled bool, token string, sseHandler http.Handler, notifier Notifier) chi.Router {
	h := NewHandler(svc, notifier)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/pages", h.ListPages)
	r.Post("/pages", h.AddPage)
	r.Route("/pages/{name}", func(r chi.Router) {
		r.Get("/", h.GetPage)
		r.Delete("/", h.RemovePage)
		r.Get("/sidebar", h.Sidebar)
		r.Get("/footer", h.Footer)
		r.Post("/move", h.MovePage)
	})

	r.Post("/navigation", h.UpdateNavigation)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
