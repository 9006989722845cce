package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/leapdocs/internal/artifact"
	"github.com/leapstack-labs/leapdocs/internal/explorer"
	"github.com/leapstack-labs/leapdocs/internal/notifier"
	"github.com/leapstack-labs/leapdocs/internal/project"
	"github.com/starfederation/datastar-go/datastar"
)

// Handlers provides the HTTP handlers of the docs API.
type Handlers struct {
	store    *project.Store
	explorer *explorer.Explorer
	notifier *notifier.Notifier
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store *project.Store, exp *explorer.Explorer, notify *notifier.Notifier, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		store:    store,
		explorer: exp,
		notifier: notify,
		logger:   logger,
	}
}

// ProjectSummary describes the current project without its nodes.
type ProjectSummary struct {
	ID         string            `json:"id"`
	CompiledAt time.Time         `json:"compiled_at"`
	Metadata   artifact.Metadata `json:"metadata"`
	Stats      project.Stats     `json:"stats"`
}

func summarize(p *project.CompiledProject) ProjectSummary {
	return ProjectSummary{
		ID:         p.ID,
		CompiledAt: p.CompiledAt,
		Metadata:   p.Metadata,
		Stats:      p.Stats(),
	}
}

// Health reports 503 until the first project is compiled.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	p := h.store.Current()
	if p == nil {
		jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "loading"})
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok", "project_id": p.ID})
}

// Project returns the current project summary.
func (h *Handlers) Project(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	p, err := h.explorer.Project(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, summarize(p))
}

// Node returns a single node by unique id.
func (h *Handlers) Node(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	node, err := h.explorer.Node(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, node)
}

// Tree returns both navigation trees. A select query parameter rebuilds them
// with that model selected; without it the current trees are returned.
func (h *Handlers) Tree(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	var (
		trees explorer.Trees
		err   error
	)
	if r.URL.Query().Has("select") {
		trees, err = h.explorer.ModelTree(r.Context(), r.URL.Query().Get("select"))
	} else {
		trees, err = h.explorer.Trees(r.Context())
	}
	if err != nil {
		h.fail(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, trees)
}

// Select moves the selection on the current trees.
func (h *Handlers) Select(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	trees, err := h.explorer.UpdateSelected(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, trees)
}

// Search matches the q query parameter against model names and descriptions.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	results, err := h.explorer.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.fail(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, results)
}

// Events is the long-lived SSE endpoint. It patches a "project" signal with
// the current summary on connect and after every recompile.
func (h *Handlers) Events(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	if p := h.store.Current(); p != nil {
		if err := sendProject(sse, p); err != nil {
			h.logger.Debug("failed to send project signal", "error", err)
			return
		}
	}

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-updates:
			if !ok {
				return
			}
			p := h.store.Current()
			if p == nil {
				continue
			}
			if err := sendProject(sse, p); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

func sendProject(sse *datastar.ServerSentEventGenerator, p *project.CompiledProject) error {
	return sse.MarshalAndPatchSignals(map[string]any{"project": summarize(p)})
}

// ready writes a 503 and reports false before the first project is compiled.
func (h *Handlers) ready(w http.ResponseWriter) bool {
	if h.store.IsReady() {
		return true
	}
	errorResponse(w, http.StatusServiceUnavailable, "project is not ready")
	return false
}

func (h *Handlers) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, project.ErrNodeNotFound):
		errorResponse(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error("request failed", "error", err)
		errorResponse(w, http.StatusInternalServerError, err.Error())
	}
}

// jsonResponse writes a JSON response.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("writing json response", "error", err)
	}
}

// errorResponse writes an error JSON response.
func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}
