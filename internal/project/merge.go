package project

import (
	"log/slog"

	"github.com/leapstack-labs/leapdocs/internal/artifact"
)

// IncorporateCatalog combines manifest nodes with their catalog entries.
//
// Every manifest node is cloned, so the manifest itself is never modified. A
// node with a same-id catalog entry first has its column keys reconciled with
// the catalog's spelling, then the catalog record is merged underneath it:
// values set in the manifest win, catalog-only fields are added. Catalog
// entries without a manifest node are dropped.
func IncorporateCatalog(manifest *artifact.Manifest, catalog *artifact.Catalog, logger *slog.Logger) *artifact.NodeMap {
	logger = loggerOrDiscard(logger)
	nodes := artifact.NewNodeMap()
	if manifest == nil || manifest.Nodes == nil {
		return nodes
	}

	var entries *artifact.CatalogEntryMap
	if catalog != nil {
		entries = catalog.Nodes
	}

	for pair := manifest.Nodes.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value == nil {
			continue
		}
		node := pair.Value.Clone()
		if node.UniqueID == "" {
			node.UniqueID = pair.Key
		}

		if entries != nil {
			if entry, ok := entries.Get(pair.Key); ok && entry != nil {
				node.Columns = ReconcileColumns(entry.ColumnNames(), node.Columns)
				mergeCatalogEntry(node, entry)
			}
		}
		nodes.Set(pair.Key, node)
	}

	if entries != nil {
		for pair := entries.Oldest(); pair != nil; pair = pair.Next() {
			if _, ok := nodes.Get(pair.Key); !ok {
				logger.Debug("catalog entry has no manifest node", slog.String("unique_id", pair.Key))
			}
		}
	}
	return nodes
}

// mergeCatalogEntry layers node (the manifest side) over entry.
func mergeCatalogEntry(node *artifact.Node, entry *artifact.CatalogEntry) {
	node.Metadata = mergeTableMetadata(entry.Metadata, node.Metadata)
	node.Stats = mergeStats(entry.Stats, node.Stats)
	node.Columns = mergeColumns(entry.Columns, node.Columns)
}

// mergeColumns returns catalog columns in catalog order followed by the
// manifest-only columns. Columns present on both sides are merged with the
// manifest taking precedence.
func mergeColumns(catalog, manifest *artifact.ColumnMap) *artifact.ColumnMap {
	out := artifact.NewColumnMap()
	if catalog != nil {
		for pair := catalog.Oldest(); pair != nil; pair = pair.Next() {
			col := pair.Value.Clone()
			if m, ok := lookupColumn(manifest, pair.Key); ok {
				col = mergeColumn(col, m)
			}
			out.Set(pair.Key, col)
		}
	}
	if manifest != nil {
		for pair := manifest.Oldest(); pair != nil; pair = pair.Next() {
			if _, ok := out.Get(pair.Key); !ok {
				out.Set(pair.Key, pair.Value)
			}
		}
	}
	return out
}

func lookupColumn(columns *artifact.ColumnMap, key string) (*artifact.Column, bool) {
	if columns == nil {
		return nil, false
	}
	return columns.Get(key)
}

// mergeColumn overlays every field set on src onto dst.
func mergeColumn(dst, src *artifact.Column) *artifact.Column {
	if src == nil {
		return dst
	}
	if dst == nil {
		return src.Clone()
	}
	if src.Name != "" {
		dst.Name = src.Name
	}
	if src.Description != "" {
		dst.Description = src.Description
	}
	if src.DataType != "" {
		dst.DataType = src.DataType
	}
	if src.Meta != nil {
		dst.Meta = mergeMaps(dst.Meta, src.Meta)
	}
	if src.Tags != nil {
		dst.Tags = src.Tags
	}
	if src.Type != "" {
		dst.Type = src.Type
	}
	if src.Index != 0 {
		dst.Index = src.Index
	}
	if src.Comment != "" {
		dst.Comment = src.Comment
	}
	if src.Tests != nil {
		dst.Tests = append([]artifact.TestDescriptor(nil), src.Tests...)
	}
	return dst
}

func mergeTableMetadata(catalog, manifest *artifact.TableMetadata) *artifact.TableMetadata {
	switch {
	case catalog == nil && manifest == nil:
		return nil
	case catalog == nil:
		out := *manifest
		return &out
	}

	out := *catalog
	if manifest == nil {
		return &out
	}
	if manifest.Type != "" {
		out.Type = manifest.Type
	}
	if manifest.Database != "" {
		out.Database = manifest.Database
	}
	if manifest.Schema != "" {
		out.Schema = manifest.Schema
	}
	if manifest.Name != "" {
		out.Name = manifest.Name
	}
	if manifest.Comment != "" {
		out.Comment = manifest.Comment
	}
	if manifest.Owner != "" {
		out.Owner = manifest.Owner
	}
	return &out
}

// mergeStats merges stat records by id; a manifest stat replaces the catalog one.
func mergeStats(catalog, manifest map[string]artifact.Stat) map[string]artifact.Stat {
	if catalog == nil && manifest == nil {
		return nil
	}
	out := make(map[string]artifact.Stat, len(catalog)+len(manifest))
	for k, v := range catalog {
		out[k] = v
	}
	for k, v := range manifest {
		out[k] = v
	}
	return out
}

// mergeArtifactMetadata merges artifact headers, manifest winning.
func mergeArtifactMetadata(catalog, manifest *artifact.Metadata) artifact.Metadata {
	var out artifact.Metadata
	if catalog != nil {
		out = *catalog
	}
	if manifest == nil {
		return out
	}
	if manifest.GeneratedAt != "" {
		out.GeneratedAt = manifest.GeneratedAt
	}
	if manifest.DbtVersion != "" {
		out.DbtVersion = manifest.DbtVersion
	}
	if manifest.ProjectID != "" {
		out.ProjectID = manifest.ProjectID
	}
	if manifest.AdapterType != "" {
		out.AdapterType = manifest.AdapterType
	}
	return out
}

// mergeMaps deep-merges src into a copy of dst. Nested maps merge key by key,
// anything else (arrays included) is replaced by the src value.
func mergeMaps(dst, src map[string]any) map[string]any {
	out := make(map[string]any, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		srcMap, srcIsMap := v.(map[string]any)
		dstMap, dstIsMap := out[k].(map[string]any)
		if srcIsMap && dstIsMap {
			out[k] = mergeMaps(dstMap, srcMap)
			continue
		}
		out[k] = v
	}
	return out
}

// IncorporateRunResults copies injected SQL from run results onto the nodes
// they executed. Results without an embedded node, or whose node is not part of
// the project, are skipped. A nil runResults leaves nodes untouched.
func IncorporateRunResults(nodes *artifact.NodeMap, runResults *artifact.RunResults, logger *slog.Logger) int {
	if runResults == nil || nodes == nil {
		return 0
	}
	logger = loggerOrDiscard(logger)

	applied := 0
	for _, result := range runResults.Results {
		if result.Node == nil {
			continue
		}
		node, ok := nodes.Get(result.Node.UniqueID)
		if !ok || node == nil {
			logger.Debug("run result references unknown node", slog.String("unique_id", result.Node.UniqueID))
			continue
		}
		node.InjectedSQL = result.Node.InjectedSQL
		applied++
	}
	return applied
}
