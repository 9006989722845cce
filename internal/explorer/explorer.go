// Package explorer serves navigation trees, node lookups and search over the
// current compiled project. It keeps one pair of trees per project snapshot and
// applies selection changes to them.
package explorer

import (
	"context"
	"log/slog"
	"sync"

	"github.com/leapstack-labs/leapdocs/internal/artifact"
	"github.com/leapstack-labs/leapdocs/internal/project"
	"github.com/leapstack-labs/leapdocs/internal/search"
	"github.com/leapstack-labs/leapdocs/internal/tree"
)

// Trees is the pair of navigation trees for one snapshot.
type Trees struct {
	ProjectID string       `json:"project_id"`
	Selected  string       `json:"selected,omitempty"`
	Project   []*tree.Node `json:"project"`
	Database  []*tree.Node `json:"database"`
}

func (t Trees) clone() Trees {
	t.Project = tree.Clone(t.Project)
	t.Database = tree.Clone(t.Database)
	return t
}

// Explorer answers queries against the store's current project. All query
// methods wait for the first project to be published.
type Explorer struct {
	store  *project.Store
	logger *slog.Logger

	mu    sync.Mutex
	trees Trees
}

// New creates an Explorer reading from store. A nil logger discards output.
func New(store *project.Store, logger *slog.Logger) *Explorer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Explorer{store: store, logger: logger}
}

// Project returns the current project once one is available.
func (e *Explorer) Project(ctx context.Context) (*project.CompiledProject, error) {
	return e.store.Ready(ctx)
}

// ModelTree rebuilds both trees from the current project with selectedID
// marked, stores them as the current trees and returns a copy.
func (e *Explorer) ModelTree(ctx context.Context, selectedID string) (Trees, error) {
	p, err := e.store.Ready(ctx)
	if err != nil {
		return Trees{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.rebuild(p, selectedID)
	return e.trees.clone(), nil
}

// UpdateSelected moves the selection on the current trees to selectedID and
// returns a copy of both. Trees built from an older snapshot are rebuilt
// first.
func (e *Explorer) UpdateSelected(ctx context.Context, selectedID string) (Trees, error) {
	p, err := e.store.Ready(ctx)
	if err != nil {
		return Trees{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.trees.ProjectID != p.ID {
		e.rebuild(p, selectedID)
		return e.trees.clone(), nil
	}

	tree.UpdateSelected(selectedID, e.trees.Project)
	tree.UpdateSelected(selectedID, e.trees.Database)
	e.trees.Selected = selectedID
	return e.trees.clone(), nil
}

// Trees returns a copy of the current trees, rebuilding them with the last
// selection when the project has changed since they were built.
func (e *Explorer) Trees(ctx context.Context) (Trees, error) {
	p, err := e.store.Ready(ctx)
	if err != nil {
		return Trees{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.trees.ProjectID != p.ID {
		e.rebuild(p, e.trees.Selected)
	}
	return e.trees.clone(), nil
}

// rebuild must be called with e.mu held.
func (e *Explorer) rebuild(p *project.CompiledProject, selectedID string) {
	models := p.Models()
	e.trees = Trees{
		ProjectID: p.ID,
		Selected:  selectedID,
		Project:   tree.BuildProjectTree(models, selectedID),
		Database:  tree.BuildDatabaseTree(models, selectedID),
	}
	e.logger.Debug("trees rebuilt",
		slog.String("project_id", p.ID),
		slog.String("selected", selectedID),
		slog.Int("models", len(models)),
	)
}

// Search matches query against the current project's models.
func (e *Explorer) Search(ctx context.Context, query string) ([]search.Result, error) {
	p, err := e.store.Ready(ctx)
	if err != nil {
		return nil, err
	}
	return search.Search(p.Models(), query), nil
}

// Node returns the node with uniqueID from the current project.
func (e *Explorer) Node(ctx context.Context, uniqueID string) (*artifact.Node, error) {
	return e.store.FindByID(ctx, uniqueID)
}
