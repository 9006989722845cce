package project

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/leapstack-labs/leapdocs/internal/artifact"
)

// Store holds the current compiled project. Each Publish replaces the project
// wholesale; readers keep whatever version they already hold.
type Store struct {
	current  atomic.Pointer[CompiledProject]
	ready    chan struct{}
	once     sync.Once
	compiler *Compiler
	logger   *slog.Logger
}

// NewStore creates an empty Store. A nil logger discards output.
func NewStore(logger *slog.Logger) *Store {
	logger = loggerOrDiscard(logger)
	return &Store{
		ready:    make(chan struct{}),
		compiler: NewCompiler(logger),
		logger:   logger,
	}
}

// Publish makes p the current project and fires readiness on the first call.
func (s *Store) Publish(p *CompiledProject) {
	if p == nil {
		return
	}
	s.current.Store(p)
	s.once.Do(func() { close(s.ready) })
	s.logger.Debug("project published", slog.String("id", p.ID))
}

// Current returns the current project, or nil before the first Publish.
func (s *Store) Current() *CompiledProject {
	return s.current.Load()
}

// Ready blocks until a project has been published and returns the current one.
// After the first publish it returns immediately.
func (s *Store) Ready(ctx context.Context) (*CompiledProject, error) {
	select {
	case <-s.ready:
		return s.current.Load(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// IsReady reports whether a project has been published.
func (s *Store) IsReady() bool {
	select {
	case <-s.ready:
		return true
	default:
		return false
	}
}

// Load fetches the artifacts from src, compiles them and publishes the
// result. On error the current project is left in place.
func (s *Store) Load(ctx context.Context, src artifact.Source) (*CompiledProject, error) {
	arts, err := artifact.Load(ctx, src, s.logger)
	if err != nil {
		s.logger.Error("failed to load artifacts", slog.String("source", src.String()), slog.Any("error", err))
		return nil, err
	}
	p := s.compiler.Compile(arts.Manifest, arts.Catalog, arts.RunResults)
	s.Publish(p)
	return p, nil
}

// FindByID waits for readiness and returns the node with uniqueID.
func (s *Store) FindByID(ctx context.Context, uniqueID string) (*artifact.Node, error) {
	p, err := s.Ready(ctx)
	if err != nil {
		return nil, err
	}
	node, ok := p.Node(uniqueID)
	if !ok {
		return nil, fmt.Errorf("node %q: %w", uniqueID, ErrNodeNotFound)
	}
	return node, nil
}
