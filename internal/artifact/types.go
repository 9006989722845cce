// Package artifact defines the typed shape of the three JSON artifacts a
// project run produces (manifest, catalog, run results) and loads them from a
// target directory or a remote base URL.
//
// Node and column mappings are decoded into ordered maps so that iteration
// follows the order in which the artifact lists them.
package artifact

import (
	"bytes"
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Resource types with special handling during compilation.
const (
	ResourceModel = "model"
	ResourceTest  = "test"
)

// MaterializedEphemeral marks a model that never becomes a database object.
const MaterializedEphemeral = "ephemeral"

// NodeMap is an insertion-ordered mapping of unique_id to node.
type NodeMap = orderedmap.OrderedMap[string, *Node]

// ColumnMap is an insertion-ordered mapping of column name to column.
type ColumnMap = orderedmap.OrderedMap[string, *Column]

// CatalogEntryMap is an insertion-ordered mapping of unique_id to catalog entry.
type CatalogEntryMap = orderedmap.OrderedMap[string, *CatalogEntry]

// NewNodeMap returns an empty NodeMap.
func NewNodeMap() *NodeMap {
	return orderedmap.New[string, *Node]()
}

// NewColumnMap returns an empty ColumnMap.
func NewColumnMap() *ColumnMap {
	return orderedmap.New[string, *Column]()
}

// NewCatalogEntryMap returns an empty CatalogEntryMap.
func NewCatalogEntryMap() *CatalogEntryMap {
	return orderedmap.New[string, *CatalogEntry]()
}

// Metadata is the artifact-level header shared by all three artifacts.
type Metadata struct {
	GeneratedAt string `json:"generated_at,omitempty"`
	DbtVersion  string `json:"dbt_version,omitempty"`
	ProjectID   string `json:"project_id,omitempty"`
	AdapterType string `json:"adapter_type,omitempty"`
}

// Manifest is the static description of a project's nodes.
type Manifest struct {
	Metadata    *Metadata `json:"metadata,omitempty"`
	GeneratedAt string    `json:"generated_at,omitempty"`
	Nodes       *NodeMap  `json:"nodes"`
}

// Catalog is the database-observed metadata for materialized nodes.
type Catalog struct {
	Metadata    *Metadata        `json:"metadata,omitempty"`
	GeneratedAt string           `json:"generated_at,omitempty"`
	Nodes       *CatalogEntryMap `json:"nodes"`
}

// CatalogEntry is the observed shape of one database object.
type CatalogEntry struct {
	UniqueID string          `json:"unique_id,omitempty"`
	Metadata *TableMetadata  `json:"metadata,omitempty"`
	Columns  *ColumnMap      `json:"columns,omitempty"`
	Stats    map[string]Stat `json:"stats,omitempty"`
}

// ColumnNames returns the observed column names in catalog order.
func (e *CatalogEntry) ColumnNames() []string {
	if e == nil || e.Columns == nil {
		return nil
	}
	names := make([]string, 0, e.Columns.Len())
	for pair := e.Columns.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// TableMetadata describes the database object behind a node.
type TableMetadata struct {
	Type     string `json:"type,omitempty"`
	Database string `json:"database,omitempty"`
	Schema   string `json:"schema,omitempty"`
	Name     string `json:"name,omitempty"`
	Comment  string `json:"comment,omitempty"`
	Owner    string `json:"owner,omitempty"`
}

// Stat is a single catalog statistic (row count, bytes, ...).
type Stat struct {
	ID          string `json:"id"`
	Label       string `json:"label,omitempty"`
	Value       any    `json:"value,omitempty"`
	Description string `json:"description,omitempty"`
	Include     bool   `json:"include"`
}

// RunResults is the outcome of the most recent execution.
type RunResults struct {
	Metadata    *Metadata   `json:"metadata,omitempty"`
	GeneratedAt string      `json:"generated_at,omitempty"`
	ElapsedTime float64     `json:"elapsed_time,omitempty"`
	Results     []RunResult `json:"results"`
}

// RunResult is one executed node.
type RunResult struct {
	Node          *RunResultNode `json:"node"`
	Error         *string        `json:"error,omitempty"`
	ExecutionTime float64        `json:"execution_time,omitempty"`
}

// RunResultNode is the subset of the executed node that compilation reads.
type RunResultNode struct {
	UniqueID    string  `json:"unique_id"`
	InjectedSQL *string `json:"injected_sql"`
}

// Node is a manifest node, enriched in place by compilation.
type Node struct {
	UniqueID         string     `json:"unique_id"`
	ResourceType     string     `json:"resource_type"`
	Name             string     `json:"name"`
	PackageName      string     `json:"package_name"`
	OriginalFilePath string     `json:"original_file_path"`
	Path             string     `json:"path,omitempty"`
	Database         string     `json:"database,omitempty"`
	Schema           string     `json:"schema"`
	Alias            string     `json:"alias"`
	Description      string     `json:"description,omitempty"`
	FQN              []string   `json:"fqn,omitempty"`
	Tags             []string   `json:"tags,omitempty"`
	Config           NodeConfig `json:"config"`
	Columns          *ColumnMap `json:"columns,omitempty"`
	DependsOn        DependsOn  `json:"depends_on"`
	Refs             []Ref      `json:"refs,omitempty"`
	ColumnName       string     `json:"column_name,omitempty"`
	RawSQL           string     `json:"raw_sql,omitempty"`
	RawCode          string     `json:"raw_code,omitempty"`

	// InjectedSQL is only set by the run results overlay.
	InjectedSQL *string `json:"injected_sql,omitempty"`

	// Catalog-contributed fields.
	Metadata *TableMetadata  `json:"metadata,omitempty"`
	Stats    map[string]Stat `json:"stats,omitempty"`
}

// NodeConfig holds the node configuration fields compilation reads.
type NodeConfig struct {
	Materialized string `json:"materialized,omitempty"`
	Enabled      *bool  `json:"enabled,omitempty"`
	Schema       string `json:"schema,omitempty"`
	Alias        string `json:"alias,omitempty"`
}

// DependsOn lists upstream node ids and macros.
type DependsOn struct {
	Nodes  []string `json:"nodes,omitempty"`
	Macros []string `json:"macros,omitempty"`
}

// IsModel reports whether the node is a model.
func (n *Node) IsModel() bool {
	return n.ResourceType == ResourceModel
}

// IsTest reports whether the node is a test.
func (n *Node) IsTest() bool {
	return n.ResourceType == ResourceTest
}

// RawText returns the node's uncompiled SQL. Older manifests name it raw_sql,
// newer ones raw_code.
func (n *Node) RawText() string {
	if n.RawSQL != "" {
		return n.RawSQL
	}
	return n.RawCode
}

// HasTag reports whether the node carries tag.
func (n *Node) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Column returns the column stored under the exact key name.
func (n *Node) Column(name string) (*Column, bool) {
	if n.Columns == nil {
		return nil, false
	}
	return n.Columns.Get(name)
}

// Clone returns a copy of the node whose columns can be modified without
// touching the original. Column test slices are copied as well.
func (n *Node) Clone() *Node {
	out := *n
	if n.Columns != nil {
		out.Columns = NewColumnMap()
		for pair := n.Columns.Oldest(); pair != nil; pair = pair.Next() {
			out.Columns.Set(pair.Key, pair.Value.Clone())
		}
	}
	return &out
}

// Column is a merged column record.
type Column struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	DataType    string         `json:"data_type,omitempty"`
	Meta        map[string]any `json:"meta,omitempty"`
	Tags        []string       `json:"tags,omitempty"`

	// Catalog-observed fields.
	Type    string `json:"type,omitempty"`
	Index   int    `json:"index,omitempty"`
	Comment string `json:"comment,omitempty"`

	// Tests is nil until the first descriptor is attached.
	Tests []TestDescriptor `json:"tests,omitempty"`
}

// Clone copies the column. A nil column clones to nil.
func (c *Column) Clone() *Column {
	if c == nil {
		return nil
	}
	out := *c
	if c.Tests != nil {
		out.Tests = append([]TestDescriptor(nil), c.Tests...)
	}
	return &out
}

// TestDescriptor is a schema test attached to a column.
type TestDescriptor struct {
	Column string `json:"column"`
	Label  string `json:"label"`
	Short  string `json:"short"`

	// Foreign key tests only.
	FKField   string `json:"fk_field,omitempty"`
	FKModelID string `json:"fk_model,omitempty"`
	FKModel   *Node  `json:"-"`
}

// Ref is a reference from one node to another by name. It decodes from a bare
// string ("customers"), an array (["customers"] or ["pkg", "customers"]) or an
// object ({"name": "customers", "package": "pkg", "version": null}). Any other
// shape decodes to an empty Ref, which never resolves.
type Ref []string

// refObject is the object encoding written by newer dbt versions.
type refObject struct {
	Name    string  `json:"name"`
	Package *string `json:"package"`
}

// UnmarshalJSON accepts the string, array and object encodings.
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*r = nil
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			*r = Ref{s}
		}
	case '[':
		var parts []string
		if err := json.Unmarshal(data, &parts); err == nil {
			*r = parts
		}
	case '{':
		var obj refObject
		if err := json.Unmarshal(data, &obj); err == nil && obj.Name != "" {
			if obj.Package != nil && *obj.Package != "" {
				*r = Ref{*obj.Package, obj.Name}
			} else {
				*r = Ref{obj.Name}
			}
		}
	}
	return nil
}

// Name is the referenced node name (the last element).
func (r Ref) Name() string {
	if len(r) == 0 {
		return ""
	}
	return r[len(r)-1]
}

// Package is the package qualifier of a two-part ref, or "".
func (r Ref) Package() string {
	if len(r) < 2 {
		return ""
	}
	return r[0]
}
