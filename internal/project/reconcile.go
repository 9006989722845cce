package project

import (
	"github.com/leapstack-labs/leapdocs/internal/artifact"
	"golang.org/x/text/cases"
)

// ReconcileColumns re-keys candidates so that every key matching a canonical
// name case-insensitively takes the canonical spelling. Unmatched keys are kept
// as is. When two canonical names fold to the same key, the first one wins.
// Output order follows candidate order.
func ReconcileColumns(canonical []string, candidates *artifact.ColumnMap) *artifact.ColumnMap {
	out := artifact.NewColumnMap()
	if candidates == nil {
		return out
	}

	caser := cases.Fold()
	lookup := make(map[string]string, len(canonical))
	for _, name := range canonical {
		key := caser.String(name)
		if _, exists := lookup[key]; !exists {
			lookup[key] = name
		}
	}

	for pair := candidates.Oldest(); pair != nil; pair = pair.Next() {
		key := pair.Key
		if name, ok := lookup[caser.String(key)]; ok {
			key = name
		}
		out.Set(key, pair.Value)
	}
	return out
}
