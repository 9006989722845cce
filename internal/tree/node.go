// Package tree derives navigation trees from compiled project models: a
// project-path tree following each model's source file location and a
// database tree grouping materialized models by schema.
//
// Trees are built fresh for one project snapshot and only mutated afterwards
// by UpdateSelected.
package tree

import "github.com/leapstack-labs/leapdocs/internal/artifact"

// Kind identifies the role of a tree node.
type Kind string

// Tree node kinds. Folders and schemas are containers, files and tables leaves.
const (
	KindFolder Kind = "folder"
	KindFile   Kind = "file"
	KindSchema Kind = "schema"
	KindTable  Kind = "table"
)

// Node is one entry of a navigation tree.
type Node struct {
	Type     Kind    `json:"type"`
	Name     string  `json:"name"`
	Active   bool    `json:"active"`
	UniqueID string  `json:"unique_id,omitempty"`
	Items    []*Node `json:"items,omitempty"`

	// Model is the project node behind a leaf. It belongs to the project.
	Model *artifact.Node `json:"-"`
}

// IsLeaf reports whether n is a file or table.
func (n *Node) IsLeaf() bool {
	return n.Type == KindFile || n.Type == KindTable
}

// Clone returns a deep copy of the subtree rooted at n. Model pointers are
// shared.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := *n
	out.Items = Clone(n.Items)
	return &out
}

// Clone deep-copies a sequence of subtrees.
func Clone(nodes []*Node) []*Node {
	if nodes == nil {
		return nil
	}
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

// Walk calls fn for every node in depth-first order with its depth, starting
// at zero for the given nodes.
func Walk(nodes []*Node, fn func(n *Node, depth int)) {
	walk(nodes, 0, fn)
}

func walk(nodes []*Node, depth int, fn func(n *Node, depth int)) {
	for _, n := range nodes {
		fn(n, depth)
		walk(n.Items, depth+1, fn)
	}
}

// Leaves returns the leaves of nodes in depth-first order.
func Leaves(nodes []*Node) []*Node {
	var out []*Node
	Walk(nodes, func(n *Node, _ int) {
		if n.IsLeaf() {
			out = append(out, n)
		}
	})
	return out
}
