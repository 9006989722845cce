package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leapdocs/internal/artifact"
	"github.com/leapstack-labs/leapdocs/internal/project"
	"github.com/leapstack-labs/leapdocs/internal/search"
	"github.com/leapstack-labs/leapdocs/internal/tree"
)

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func renderSummary(w io.Writer, p *project.CompiledProject) {
	stats := p.Stats()

	t := newTable(w)
	t.AppendHeader(table.Row{"Property", "Value"})
	t.AppendRows([]table.Row{
		{"Project ID", p.ID},
		{"Generated", formatValue(p.Metadata.GeneratedAt)},
		{"dbt version", formatValue(p.Metadata.DbtVersion)},
		{"Nodes", stats.Nodes},
		{"Models", stats.Models},
		{"Tests", stats.Tests},
		{"Columns", stats.Columns},
		{"Column tests", stats.Annotations},
		{"Compiled SQL", stats.WithSQL},
	})
	t.Render()
}

// renderTree writes a tree as an indented list. Active entries are starred
// and folders and schemas end in a slash.
func renderTree(w io.Writer, title string, nodes []*tree.Node) {
	l := list.NewWriter()
	l.SetOutputMirror(w)
	l.SetStyle(list.StyleConnectedLight)
	if title != "" {
		l.AppendItem(title)
		l.Indent()
	}
	appendTreeItems(l, nodes)
	l.Render()
}

func appendTreeItems(l list.Writer, nodes []*tree.Node) {
	for _, n := range nodes {
		label := n.Name
		if !n.IsLeaf() {
			label += "/"
		}
		if n.Active {
			label += " *"
		}
		l.AppendItem(label)
		if len(n.Items) > 0 {
			l.Indent()
			appendTreeItems(l, n.Items)
			l.UnIndent()
		}
	}
}

func renderSearch(w io.Writer, results []search.Result) {
	if len(results) == 0 {
		_, _ = fmt.Fprintln(w, "(0 models)")
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Unique ID", "Name", "Matched"})
	for _, r := range results {
		keys := make([]string, 0, len(r.Matches))
		for _, m := range r.Matches {
			keys = append(keys, m.Key)
		}
		t.AppendRow(table.Row{r.Model.UniqueID, r.Model.Name, strings.Join(keys, ", ")})
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d models)\n", len(results))
}

func renderNode(w io.Writer, n *artifact.Node) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Property", "Value"})
	t.AppendRows([]table.Row{
		{"Unique ID", n.UniqueID},
		{"Type", n.ResourceType},
		{"Name", n.Name},
		{"Package", n.PackageName},
		{"Path", n.OriginalFilePath},
		{"Relation", relationName(n)},
		{"Materialized", formatValue(n.Config.Materialized)},
		{"Description", formatValue(n.Description)},
	})
	if n.Metadata != nil {
		t.AppendRow(table.Row{"Database type", formatValue(n.Metadata.Type)})
	}
	for _, id := range sortedStatIDs(n.Stats) {
		st := n.Stats[id]
		if st.Include {
			t.AppendRow(table.Row{st.Label, formatValue(st.Value)})
		}
	}
	t.Render()

	if n.Columns != nil && n.Columns.Len() > 0 {
		ct := newTable(w)
		ct.AppendHeader(table.Row{"Column", "Type", "Tests", "Description"})
		for pair := n.Columns.Oldest(); pair != nil; pair = pair.Next() {
			col := pair.Value
			if col == nil {
				continue
			}
			colType := col.Type
			if colType == "" {
				colType = col.DataType
			}
			ct.AppendRow(table.Row{pair.Key, formatValue(colType), formatTests(col.Tests), formatValue(col.Description)})
		}
		ct.Render()
	}

	if n.InjectedSQL != nil {
		_, _ = fmt.Fprintf(w, "\nCompiled SQL:\n%s\n", *n.InjectedSQL)
	}
}

func relationName(n *artifact.Node) string {
	if n.Schema == "" {
		return formatValue(n.Alias)
	}
	return n.Schema + "." + n.Alias
}

func sortedStatIDs(stats map[string]artifact.Stat) []string {
	ids := make([]string, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// formatTests renders column test badges, e.g. "N U F(customers.customer_id)".
func formatTests(tests []artifact.TestDescriptor) string {
	badges := make([]string, 0, len(tests))
	for _, td := range tests {
		if td.FKModelID == "" {
			badges = append(badges, td.Short)
			continue
		}
		model := td.FKModelID
		if td.FKModel != nil {
			model = td.FKModel.Name
		}
		badges = append(badges, fmt.Sprintf("%s(%s.%s)", td.Short, model, td.FKField))
	}
	return strings.Join(badges, " ")
}

func formatValue(v any) string {
	if v == nil {
		return "-"
	}
	if s, ok := v.(string); ok && s == "" {
		return "-"
	}
	return fmt.Sprintf("%v", v)
}
