package project

import (
	"strings"
	"testing"

	"github.com/leapstack-labs/leapdocs/internal/artifact"
	"github.com/leapstack-labs/leapdocs/internal/testutil"
	"github.com/stretchr/testify/require"
)

func decodeFixtures(t *testing.T) (*artifact.Manifest, *artifact.Catalog, *artifact.RunResults) {
	t.Helper()

	manifest, err := artifact.DecodeManifest(strings.NewReader(testutil.ManifestJSON))
	require.NoError(t, err)
	catalog, err := artifact.DecodeCatalog(strings.NewReader(testutil.CatalogJSON))
	require.NoError(t, err)
	runResults, err := artifact.DecodeRunResults(strings.NewReader(testutil.RunResultsJSON))
	require.NoError(t, err)
	return manifest, catalog, runResults
}

func columnMap(names ...string) *artifact.ColumnMap {
	m := artifact.NewColumnMap()
	for _, name := range names {
		m.Set(name, &artifact.Column{Name: name})
	}
	return m
}

func keys(m *artifact.ColumnMap) []string {
	if m == nil {
		return nil
	}
	out := make([]string, 0, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

func nodeMap(nodes ...*artifact.Node) *artifact.NodeMap {
	m := artifact.NewNodeMap()
	for _, n := range nodes {
		m.Set(n.UniqueID, n)
	}
	return m
}
