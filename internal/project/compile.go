// Package project compiles manifest, catalog and run results artifacts into a
// single queryable project and holds the current compiled version.
package project

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/leapdocs/internal/artifact"
)

// CompiledProject is one immutable compilation result. Nodes owns every node;
// Searchable is the model subset in node order and must not be modified.
type CompiledProject struct {
	ID         string            `json:"id"`
	CompiledAt time.Time         `json:"compiled_at"`
	Metadata   artifact.Metadata `json:"metadata"`
	Nodes      *artifact.NodeMap `json:"nodes"`
	Searchable []*artifact.Node  `json:"-"`
}

// Node returns the node with the given unique id.
func (p *CompiledProject) Node(uniqueID string) (*artifact.Node, bool) {
	if p == nil || p.Nodes == nil {
		return nil, false
	}
	return p.Nodes.Get(uniqueID)
}

// Models returns the model nodes in node order.
func (p *CompiledProject) Models() []*artifact.Node {
	if p == nil {
		return nil
	}
	return p.Searchable
}

// Stats summarises a compiled project.
type Stats struct {
	Nodes       int `json:"nodes"`
	Models      int `json:"models"`
	Tests       int `json:"tests"`
	Columns     int `json:"columns"`
	Annotations int `json:"annotations"`
	WithSQL     int `json:"with_sql"`
}

// Stats counts nodes, columns and attached test annotations.
func (p *CompiledProject) Stats() Stats {
	var s Stats
	if p == nil || p.Nodes == nil {
		return s
	}
	for pair := p.Nodes.Oldest(); pair != nil; pair = pair.Next() {
		n := pair.Value
		s.Nodes++
		switch {
		case n.IsModel():
			s.Models++
		case n.IsTest():
			s.Tests++
		}
		if n.InjectedSQL != nil {
			s.WithSQL++
		}
		if n.Columns == nil {
			continue
		}
		for col := n.Columns.Oldest(); col != nil; col = col.Next() {
			s.Columns++
			if col.Value != nil {
				s.Annotations += len(col.Value.Tests)
			}
		}
	}
	return s
}

// Compiler runs the merge and annotation steps.
type Compiler struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewCompiler creates a Compiler. A nil logger discards output.
func NewCompiler(logger *slog.Logger) *Compiler {
	return &Compiler{logger: loggerOrDiscard(logger), now: time.Now}
}

func loggerOrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}

// Compile builds a CompiledProject with a discarding logger.
func Compile(manifest *artifact.Manifest, catalog *artifact.Catalog, runResults *artifact.RunResults) *CompiledProject {
	return NewCompiler(nil).Compile(manifest, catalog, runResults)
}

// Compile merges the catalog into the manifest, overlays run results, attaches
// schema test annotations and indexes the models. It never fails: missing
// inputs or cross references only skip the enrichment they would provide.
// The input artifacts are not modified.
func (c *Compiler) Compile(manifest *artifact.Manifest, catalog *artifact.Catalog, runResults *artifact.RunResults) *CompiledProject {
	nodes := IncorporateCatalog(manifest, catalog, c.logger)
	overlaid := IncorporateRunResults(nodes, runResults, c.logger)
	annotated := AnnotateTests(nodes, c.logger)

	p := &CompiledProject{
		ID:         uuid.New().String(),
		CompiledAt: c.now().UTC(),
		Metadata:   compiledMetadata(manifest, catalog),
		Nodes:      nodes,
		Searchable: searchable(nodes),
	}

	c.logger.Debug("project compiled",
		slog.String("id", p.ID),
		slog.Int("nodes", nodes.Len()),
		slog.Int("models", len(p.Searchable)),
		slog.Int("run_results_applied", overlaid),
		slog.Int("tests_attached", annotated),
	)
	return p
}

func compiledMetadata(manifest *artifact.Manifest, catalog *artifact.Catalog) artifact.Metadata {
	var mm, cm *artifact.Metadata
	if manifest != nil {
		mm = withGeneratedAt(manifest.Metadata, manifest.GeneratedAt)
	}
	if catalog != nil {
		cm = withGeneratedAt(catalog.Metadata, catalog.GeneratedAt)
	}
	return mergeArtifactMetadata(cm, mm)
}

// withGeneratedAt folds a top-level generated_at (older artifact layout) into
// the metadata header.
func withGeneratedAt(md *artifact.Metadata, generatedAt string) *artifact.Metadata {
	if md == nil && generatedAt == "" {
		return nil
	}
	var out artifact.Metadata
	if md != nil {
		out = *md
	}
	if out.GeneratedAt == "" {
		out.GeneratedAt = generatedAt
	}
	return &out
}

func searchable(nodes *artifact.NodeMap) []*artifact.Node {
	models := make([]*artifact.Node, 0, nodes.Len())
	for pair := nodes.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.IsModel() {
			models = append(models, pair.Value)
		}
	}
	return models
}
