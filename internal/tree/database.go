package tree

import "github.com/leapstack-labs/leapdocs/internal/artifact"

// BuildDatabaseTree groups materialized models by schema. Each model becomes a
// table leaf named by its alias; ephemeral models are left out. A schema is
// active when it holds the selected model. Schemas and their tables are sorted
// by name.
func BuildDatabaseTree(models []*artifact.Node, selectedID string) []*Node {
	schemas := make(map[string]*Node)
	var out []*Node

	for _, m := range models {
		if m == nil || m.Config.Materialized == artifact.MaterializedEphemeral {
			continue
		}
		active := selectedID != "" && m.UniqueID == selectedID

		schema, ok := schemas[m.Schema]
		if !ok {
			schema = &Node{Type: KindSchema, Name: m.Schema, Items: []*Node{}}
			schemas[m.Schema] = schema
			out = append(out, schema)
		}
		if active {
			schema.Active = true
		}
		schema.Items = append(schema.Items, &Node{
			Type:     KindTable,
			Name:     m.Alias,
			Active:   active,
			UniqueID: m.UniqueID,
			Model:    m,
		})
	}

	if out == nil {
		return []*Node{}
	}
	sortRecursive(out)
	return out
}
