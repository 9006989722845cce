package tree

import "sort"

// sortByName orders siblings by name in codepoint order. Equal names keep
// their insertion order.
func sortByName(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Name < nodes[j].Name
	})
}

// sortRecursive sorts every container's children, bottom up.
func sortRecursive(nodes []*Node) {
	for _, n := range nodes {
		if !n.IsLeaf() {
			sortRecursive(n.Items)
		}
	}
	sortByName(nodes)
}
