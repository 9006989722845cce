package tree

import (
	"strings"

	"github.com/leapstack-labs/leapdocs/internal/artifact"
)

// folder accumulates the children of a folder node during a build. Folders and
// files are indexed separately, by path segment.
type folder struct {
	node    *Node
	folders map[string]*folder
	files   map[string]int
}

func newFolder(name string) *folder {
	return &folder{
		node:    &Node{Type: KindFolder, Name: name, Items: []*Node{}},
		folders: make(map[string]*folder),
		files:   make(map[string]int),
	}
}

// child returns the sub-folder for segment, creating it on first use.
func (f *folder) child(segment string) *folder {
	if sub, ok := f.folders[segment]; ok {
		return sub
	}
	sub := newFolder(segment)
	f.folders[segment] = sub
	f.node.Items = append(f.node.Items, sub.node)
	return sub
}

// addFile stores leaf under segment. A second file with the same segment
// replaces the first one in place.
func (f *folder) addFile(segment string, leaf *Node) {
	if i, ok := f.files[segment]; ok {
		f.node.Items[i] = leaf
		return
	}
	f.files[segment] = len(f.node.Items)
	f.node.Items = append(f.node.Items, leaf)
}

// SplitPath splits a source file path on backslashes when it contains any,
// and on forward slashes otherwise.
func SplitPath(p string) []string {
	sep := "/"
	if strings.Contains(p, `\`) {
		sep = `\`
	}
	return strings.Split(p, sep)
}

// BuildProjectTree groups models by package and source file location. Each
// model becomes a file leaf named after the model, nested under one folder per
// directory segment of its original_file_path with the package name as the
// top folder. The selected model and every folder above it are active.
// Siblings are sorted by name at every level.
func BuildProjectTree(models []*artifact.Node, selectedID string) []*Node {
	root := newFolder("")

	for _, m := range models {
		if m == nil {
			continue
		}
		active := selectedID != "" && m.UniqueID == selectedID

		segments := append([]string{m.PackageName}, SplitPath(m.OriginalFilePath)...)
		dirs, file := segments[:len(segments)-1], segments[len(segments)-1]

		current := root
		for _, seg := range dirs {
			current = current.child(seg)
			if active {
				current.node.Active = true
			}
		}
		current.addFile(file, &Node{
			Type:     KindFile,
			Name:     m.Name,
			Active:   active,
			UniqueID: m.UniqueID,
			Model:    m,
		})
	}

	items := root.node.Items
	sortRecursive(items)
	return items
}
