// Package server exposes the compiled project over HTTP: a JSON API for
// trees, nodes and search, a health probe, and an SSE stream announcing
// recompiles. With watching enabled it recompiles when the artifacts change.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/leapstack-labs/leapdocs/internal/artifact"
	"github.com/leapstack-labs/leapdocs/internal/explorer"
	"github.com/leapstack-labs/leapdocs/internal/notifier"
	"github.com/leapstack-labs/leapdocs/internal/project"
	"golang.org/x/sync/errgroup"
)

// DefaultDebounce is how long the watcher waits for artifact writes to settle.
const DefaultDebounce = 100 * time.Millisecond

// Server serves the current project and keeps it fresh.
type Server struct {
	store    *project.Store
	explorer *explorer.Explorer
	source   artifact.Source
	notifier *notifier.Notifier
	port     int
	watch    bool
	debounce time.Duration
	logger   *slog.Logger

	// reloadMu orders loads so a slow load never publishes over a newer one.
	reloadMu sync.Mutex
}

// Config holds configuration for the server.
type Config struct {
	Store  *project.Store
	Source artifact.Source
	Port   int
	Watch  bool
	Logger *slog.Logger

	// Debounce overrides DefaultDebounce when positive.
	Debounce time.Duration
}

// New creates a Server. A nil store gets a fresh one.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	store := cfg.Store
	if store == nil {
		store = project.NewStore(logger)
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Server{
		store:    store,
		explorer: explorer.New(store, logger),
		source:   cfg.Source,
		notifier: notifier.New(),
		port:     cfg.Port,
		watch:    cfg.Watch,
		debounce: debounce,
		logger:   logger,
	}
}

// Notifier returns the server's notifier for reload events.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)
	SetupRoutes(r, NewHandlers(s.store, s.explorer, s.notifier, s.logger))
	return r
}

// Serve loads the project, starts the HTTP server and, when enabled, the
// artifact watcher. It blocks until ctx is cancelled or a component fails.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting docs server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Initial compile; the API answers 503 until it lands.
	eg.Go(func() error {
		if err := s.Reload(egctx); err != nil {
			if s.watch {
				s.logger.Warn("initial load failed, waiting for artifact changes", "error", err)
				return nil
			}
			return err
		}
		return nil
	})

	if s.watch {
		eg.Go(func() error {
			return s.watchArtifacts(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down docs server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Reload recompiles the project from the source and notifies subscribers.
// On failure the previous project stays current. Concurrent calls run one at
// a time.
func (s *Server) Reload(ctx context.Context) error {
	if s.source == nil {
		return errors.New("no artifact source configured")
	}
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	p, err := s.store.Load(ctx, s.source)
	if err != nil {
		return err
	}
	s.notifier.Broadcast(notifier.Event{ProjectID: p.ID})
	return nil
}

// watchArtifacts recompiles whenever one of the artifact files in a local
// target directory changes. Remote sources cannot be watched.
func (s *Server) watchArtifacts(ctx context.Context) error {
	dir, ok := s.source.(artifact.DirSource)
	if !ok {
		s.logger.Warn("watching is only supported for local target directories", "source", fmt.Sprint(s.source))
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir.Dir); err != nil {
		s.logger.Error("failed to watch target directory", "dir", dir.Dir, "error", err)
		// Don't fail - continue without watching
		<-ctx.Done()
		return nil
	}

	var (
		timer    *time.Timer
		debounce <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !isArtifactFile(event.Name) {
				continue
			}

			// Debounce
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(s.debounce)
			debounce = timer.C
			s.logger.Debug("artifact changed", "file", event.Name)

		case <-debounce:
			debounce = nil
			if err := s.Reload(ctx); err != nil {
				s.logger.Error("reload failed", "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

func isArtifactFile(name string) bool {
	switch filepath.Base(name) {
	case artifact.ManifestFile, artifact.CatalogFile, artifact.RunResultsFile:
		return true
	}
	return false
}
