// Package search matches compiled project models against a free-text query.
package search

import (
	"strings"

	"github.com/leapstack-labs/leapdocs/internal/artifact"
	"golang.org/x/text/cases"
)

// Searched fields, in match order.
const (
	FieldName        = "name"
	FieldDescription = "description"
)

// Match records that a field contained the query.
type Match struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Result is one model with the fields that matched.
type Result struct {
	Model   *artifact.Node `json:"model"`
	Matches []Match        `json:"matches"`
}

// Search returns the models whose name or description contains query,
// ignoring case. An empty query returns every model with no matches. Results
// keep the order of models and are neither ranked nor deduplicated.
func Search(models []*artifact.Node, query string) []Result {
	out := make([]Result, 0, len(models))

	if query == "" {
		for _, m := range models {
			out = append(out, Result{Model: m, Matches: []Match{}})
		}
		return out
	}

	caser := cases.Fold()
	needle := caser.String(query)

	for _, m := range models {
		var matches []Match
		for _, f := range fields(m) {
			if strings.Contains(caser.String(f.value), needle) {
				matches = append(matches, Match{Key: f.key, Value: query})
			}
		}
		if len(matches) > 0 {
			out = append(out, Result{Model: m, Matches: matches})
		}
	}
	return out
}

type field struct {
	key   string
	value string
}

func fields(m *artifact.Node) []field {
	return []field{
		{key: FieldName, value: m.Name},
		{key: FieldDescription, value: m.Description},
	}
}
