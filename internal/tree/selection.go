package tree

// UpdateSelected marks the leaf whose unique id is selectedID and every
// container above it active, and clears the flag everywhere else. It reports
// whether any of nodes ended up active. An empty selectedID clears the tree.
// Applying it twice with the same id leaves the same flags as applying it once.
func UpdateSelected(selectedID string, nodes []*Node) bool {
	found := false
	for _, n := range nodes {
		// every child is visited so stale flags are cleared
		if n.updateSelected(selectedID) {
			found = true
		}
	}
	return found
}

func (n *Node) updateSelected(selectedID string) bool {
	if n.IsLeaf() {
		n.Active = selectedID != "" && n.UniqueID == selectedID
		return n.Active
	}
	n.Active = UpdateSelected(selectedID, n.Items)
	return n.Active
}
