package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Route describes one endpoint of the docs API.
type Route struct {
	Method  string
	Pattern string
	Summary string
	handle  func(h *Handlers, w http.ResponseWriter, r *http.Request)
}

// Routes lists the docs API endpoints in registration order.
var Routes = []Route{
	{http.MethodGet, "/healthz", "503 with `{\"status\":\"loading\"}` until the first compile, then the current project id", (*Handlers).Health},
	{http.MethodGet, "/api/project", "Summary of the current project: id, compile time, metadata and counts", (*Handlers).Project},
	{http.MethodGet, "/api/nodes/{id}", "One compiled node with merged columns and test annotations; 404 for an unknown id", (*Handlers).Node},
	{http.MethodGet, "/api/tree", "Project and database trees; `?select=<id>` rebuilds them with that model selected", (*Handlers).Tree},
	{http.MethodPost, "/api/tree/select/{id}", "Moves the selection on the current trees", (*Handlers).Select},
	{http.MethodGet, "/api/search", "Models whose name or description contains `?q=`, ignoring case", (*Handlers).Search},
	{http.MethodGet, "/api/events", "Server-sent events patching a `project` signal on connect and after each recompile", (*Handlers).Events},
}

// SetupRoutes registers the API routes on the router.
func SetupRoutes(router chi.Router, h *Handlers) {
	for _, rt := range Routes {
		router.Method(rt.Method, rt.Pattern, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rt.handle(h, w, r)
		}))
	}
}
