package project

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/leapstack-labs/leapdocs/internal/artifact"
)

// SchemaTag marks tests declared on a column in a schema file.
const SchemaTag = "schema"

// Test name prefixes that produce column annotations.
const (
	prefixNotNull       = "not_null"
	prefixUnique        = "unique"
	prefixRelationships = "relationships"
)

// fieldFragment matches the field='<identifier>' argument of a relationships test.
var fieldFragment = regexp.MustCompile(`field='([a-zA-Z0-9_]*)'`)

// ParseFieldFragment extracts the identifier from the first field='<identifier>'
// fragment in sql, where identifier is zero or more of [a-zA-Z0-9_].
// It reports false when sql has no such fragment.
func ParseFieldFragment(sql string) (string, bool) {
	m := fieldFragment.FindStringSubmatch(sql)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// modelIndex resolves models by name. Later models shadow earlier ones with
// the same name.
type modelIndex map[string][]*artifact.Node

func newModelIndex(nodes *artifact.NodeMap) modelIndex {
	idx := make(modelIndex)
	for pair := nodes.Oldest(); pair != nil; pair = pair.Next() {
		n := pair.Value
		if n.IsModel() {
			idx[n.Name] = append(idx[n.Name], n)
		}
	}
	return idx
}

// resolve finds the model a ref points to.
func (idx modelIndex) resolve(ref artifact.Ref) (*artifact.Node, bool) {
	candidates := idx[ref.Name()]
	pkg := ref.Package()
	for i := len(candidates) - 1; i >= 0; i-- {
		if pkg == "" || candidates[i].PackageName == pkg {
			return candidates[i], true
		}
	}
	return nil, false
}

// AnnotateTests attaches a TestDescriptor to the target column of every
// eligible schema test, in node order. It returns the number of descriptors
// attached. Tests that cannot be classified or resolved are skipped.
func AnnotateTests(nodes *artifact.NodeMap, logger *slog.Logger) int {
	if nodes == nil {
		return 0
	}
	logger = loggerOrDiscard(logger)

	models := newModelIndex(nodes)
	attached := 0

	for pair := nodes.Oldest(); pair != nil; pair = pair.Next() {
		test := pair.Value
		if !test.IsTest() {
			continue
		}

		desc, ok := classifyTest(test, models)
		if !ok {
			continue
		}

		col, ok := targetColumn(test, nodes)
		if !ok {
			logger.Debug("test target not found",
				slog.String("test", test.UniqueID),
				slog.String("column", test.ColumnName),
			)
			continue
		}

		col.Tests = append(col.Tests, desc)
		attached++
	}
	return attached
}

// classifyTest builds the descriptor for an eligible schema test.
func classifyTest(test *artifact.Node, models modelIndex) (artifact.TestDescriptor, bool) {
	if !test.HasTag(SchemaTag) || test.ColumnName == "" {
		return artifact.TestDescriptor{}, false
	}

	desc := artifact.TestDescriptor{Column: test.ColumnName}

	switch {
	case strings.HasPrefix(test.Name, prefixNotNull):
		desc.Label = "Not Null"
		desc.Short = "N"
	case strings.HasPrefix(test.Name, prefixUnique):
		desc.Label = "Unique"
		desc.Short = "U"
	case strings.HasPrefix(test.Name, prefixRelationships):
		desc.Label = "Foreign Key"
		desc.Short = "F"

		if len(test.Refs) != 2 {
			return artifact.TestDescriptor{}, false
		}
		related, ok := models.resolve(test.Refs[1])
		if !ok {
			return artifact.TestDescriptor{}, false
		}
		field, ok := ParseFieldFragment(test.RawText())
		if !ok {
			return artifact.TestDescriptor{}, false
		}
		desc.FKField = field
		desc.FKModel = related
		desc.FKModelID = related.UniqueID
	default:
		// accepted_values and custom tests carry no column annotation.
		return artifact.TestDescriptor{}, false
	}
	return desc, true
}

// targetColumn resolves the column a test is attached to through the first
// depends_on node. The column key must match exactly.
func targetColumn(test *artifact.Node, nodes *artifact.NodeMap) (*artifact.Column, bool) {
	if len(test.DependsOn.Nodes) == 0 {
		return nil, false
	}
	target, ok := nodes.Get(test.DependsOn.Nodes[0])
	if !ok || target == nil {
		return nil, false
	}
	col, ok := target.Column(test.ColumnName)
	if !ok || col == nil {
		return nil, false
	}
	return col, true
}
