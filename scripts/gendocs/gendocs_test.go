package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readDoc(t *testing.T, dir, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(b)
}

func TestGenerateCLIDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateCLIDocs(dir))

	index := readDoc(t, dir, "index.md")
	assert.Contains(t, index, "`LEAPDOCS_SERVER_PORT`")
	assert.Contains(t, index, "[`serve`](serve.md)")
	assert.Contains(t, index, "`-o, --output`")
	assert.Contains(t, index, "## Output Formats")

	tree := readDoc(t, dir, "tree.md")
	assert.Contains(t, tree, "`--database`")
	assert.Contains(t, tree, "`--select`")
	assert.Contains(t, tree, "## JSON Output")

	serve := readDoc(t, dir, "serve.md")
	assert.Contains(t, serve, "leapdocs serve")
	assert.Contains(t, serve, "(api.md)")
	assert.NotContains(t, serve, "## JSON Output")

	api := readDoc(t, dir, "api.md")
	assert.Contains(t, api, "| `GET` | `/api/nodes/{id}` |")
	assert.Contains(t, api, "| `POST` | `/api/tree/select/{id}` |")
	assert.Contains(t, api, "8765")
}

func TestGenerateConfigDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateConfigDocs(dir))

	doc := readDoc(t, dir, "configuration.md")
	assert.Contains(t, doc, "`http.retry_max`")
	assert.Contains(t, doc, "`LEAPDOCS_HTTP_TIMEOUT`")
	assert.Contains(t, doc, "`30s`")
}

func TestMarkdownWriter_Table(t *testing.T) {
	w := NewMarkdownWriter()
	w.Table([]string{"A", "B"}, [][]string{{"x|y", "z"}})
	assert.Equal(t, "| A | B |\n| --- | --- |\n| x\\|y | z |\n\n", string(w.Bytes()))
}

func TestDedent(t *testing.T) {
	assert.Equal(t, "# run\nleapdocs tree", dedent("  # run\n  leapdocs tree\n"))
}
