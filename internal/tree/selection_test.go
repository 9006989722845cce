package tree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leapstack-labs/leapdocs/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func activeNames(nodes []*Node) []string {
	var out []string
	Walk(nodes, func(n *Node, _ int) {
		if n.Active {
			out = append(out, n.Name)
		}
	})
	return out
}

func TestUpdateSelected(t *testing.T) {
	models := fixtureModels(t)

	tests := []struct {
		name     string
		selected string
		found    bool
		project  []string
		database []string
	}{
		{
			name:     "select mart",
			selected: testutil.OrdersID,
			found:    true,
			project:  []string{"analytics", "models", "marts", "orders"},
			database: []string{"analytics", "fct_orders"},
		},
		{
			name:     "select staging model",
			selected: testutil.StgCustomersID,
			found:    true,
			project:  []string{"analytics", "models", "staging", "stg_customers"},
			database: []string{"staging", "stg_customers"},
		},
		{
			name:     "ephemeral model only in project tree",
			selected: testutil.IntOrderTotalsID,
			found:    true,
			project:  []string{"analytics", "models", "intermediate", "int_order_totals"},
			database: nil,
		},
		{
			name:     "unknown id clears",
			selected: "model.analytics.unknown",
			found:    false,
		},
		{
			name:     "empty id clears",
			selected: "",
			found:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// start from a stale selection
			project := BuildProjectTree(models, testutil.CustomersID)
			database := BuildDatabaseTree(models, testutil.CustomersID)

			found := UpdateSelected(tt.selected, project)
			UpdateSelected(tt.selected, database)

			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.project, activeNames(project))
			assert.Equal(t, tt.database, activeNames(database))
		})
	}
}

func TestUpdateSelected_Idempotent(t *testing.T) {
	models := fixtureModels(t)

	once := BuildProjectTree(models, "")
	UpdateSelected(testutil.StgOrdersID, once)

	twice := BuildProjectTree(models, "")
	UpdateSelected(testutil.StgOrdersID, twice)
	UpdateSelected(testutil.StgOrdersID, twice)

	if diff := cmp.Diff(once, twice, ignoreModel); diff != "" {
		t.Errorf("second UpdateSelected changed the tree (-once +twice):\n%s", diff)
	}
}

func TestUpdateSelected_MatchesBuildSelection(t *testing.T) {
	models := fixtureModels(t)

	for _, id := range []string{testutil.OrdersID, testutil.StgOrdersID, testutil.CustomersID} {
		built := BuildProjectTree(models, id)
		updated := BuildProjectTree(models, testutil.IntOrderTotalsID)
		UpdateSelected(id, updated)

		if diff := cmp.Diff(built, updated, ignoreModel); diff != "" {
			t.Errorf("selection %s mismatch (-built +updated):\n%s", id, diff)
		}

		builtDB := BuildDatabaseTree(models, id)
		updatedDB := BuildDatabaseTree(models, "")
		UpdateSelected(id, updatedDB)
		if diff := cmp.Diff(builtDB, updatedDB, ignoreModel); diff != "" {
			t.Errorf("database selection %s mismatch (-built +updated):\n%s", id, diff)
		}
	}
}

func TestClone_Independent(t *testing.T) {
	models := fixtureModels(t)
	orig := BuildProjectTree(models, "")
	cp := Clone(orig)

	UpdateSelected(testutil.OrdersID, cp)

	assert.Nil(t, activeNames(orig))
	assert.NotNil(t, activeNames(cp))
	assert.Same(t, Leaves(orig)[0].Model, Leaves(cp)[0].Model)
}
