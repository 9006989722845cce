package project

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/leapstack-labs/leapdocs/internal/artifact"
	"github.com/leapstack-labs/leapdocs/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	manifest, catalog, runResults := decodeFixtures(t)

	c := NewCompiler(testutil.NewTestLogger(t))
	fixed := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	p := c.Compile(manifest, catalog, runResults)

	require.NotNil(t, p)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, fixed, p.CompiledAt)
	assert.Equal(t, "2026-10-01T08:00:00Z", p.Metadata.GeneratedAt)
	assert.Equal(t, "0.14.0", p.Metadata.DbtVersion)

	t.Run("searchable lists models in node order", func(t *testing.T) {
		var ids []string
		for _, m := range p.Models() {
			ids = append(ids, m.UniqueID)
		}
		assert.Equal(t, []string{
			testutil.StgOrdersID,
			testutil.StgCustomersID,
			testutil.IntOrderTotalsID,
			testutil.OrdersID,
			testutil.CustomersID,
		}, ids)
	})

	t.Run("searchable shares nodes with the mapping", func(t *testing.T) {
		orders, ok := p.Node(testutil.OrdersID)
		require.True(t, ok)
		assert.Same(t, orders, p.Searchable[3])
	})

	t.Run("stats", func(t *testing.T) {
		stats := p.Stats()
		assert.Equal(t, 13, stats.Nodes)
		assert.Equal(t, 5, stats.Models)
		assert.Equal(t, 7, stats.Tests)
		assert.Equal(t, 4, stats.Annotations)
		assert.Equal(t, 2, stats.WithSQL)
	})

	t.Run("marshals without cycles", func(t *testing.T) {
		data, err := json.Marshal(p)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"fk_model":"model.analytics.customers"`)
	})
}

func TestCompile_InputsUnchanged(t *testing.T) {
	manifest, catalog, runResults := decodeFixtures(t)

	first := Compile(manifest, catalog, runResults)
	second := Compile(manifest, catalog, runResults)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Stats(), second.Stats())

	orders, _ := manifest.Nodes.Get(testutil.OrdersID)
	col, _ := orders.Column("order_id")
	assert.Nil(t, col.Tests)
	assert.Nil(t, orders.InjectedSQL)
}

func TestCompile_WithoutRunResults(t *testing.T) {
	manifest, catalog, _ := decodeFixtures(t)

	p := Compile(manifest, catalog, nil)

	assert.Equal(t, 0, p.Stats().WithSQL)
	assert.Equal(t, 4, p.Stats().Annotations)
}

func TestCompiledProject_NilSafe(t *testing.T) {
	var p *CompiledProject
	_, ok := p.Node("x")
	assert.False(t, ok)
	assert.Nil(t, p.Models())
	assert.Equal(t, Stats{}, p.Stats())
}

func TestCompile_ModernManifest(t *testing.T) {
	manifest, err := artifact.DecodeManifest(strings.NewReader(`{
  "metadata": {"dbt_version": "1.7.4"},
  "nodes": {
    "model.shop.customers": {
      "unique_id": "model.shop.customers", "resource_type": "model", "name": "customers",
      "package_name": "shop", "original_file_path": "models/customers.sql", "schema": "analytics", "alias": "customers",
      "config": {"materialized": "table", "unique_key": ["customer_id"]},
      "columns": {"customer_id": {"name": "customer_id"}}
    },
    "model.shop.orders": {
      "unique_id": "model.shop.orders", "resource_type": "model", "name": "orders",
      "package_name": "shop", "original_file_path": "models/orders.sql", "schema": "analytics", "alias": "orders",
      "config": {"materialized": "incremental", "unique_key": ["order_id", "order_date"]},
      "refs": [{"name": "customers", "package": null, "version": null}],
      "columns": {"customer_id": {"name": "customer_id"}}
    },
    "test.shop.relationships_orders_customer_id": {
      "unique_id": "test.shop.relationships_orders_customer_id", "resource_type": "test",
      "name": "relationships_orders_customer_id", "package_name": "shop",
      "tags": ["schema"], "column_name": "customer_id",
      "refs": [{"name": "orders", "package": null, "version": null}, {"name": "customers", "package": "shop", "version": null}],
      "depends_on": {"nodes": ["model.shop.orders"]},
      "raw_code": "{{ test_relationships(to=ref('customers'), field='customer_id') }}"
    }
  }
}`))
	require.NoError(t, err)

	p := Compile(manifest, nil, nil)
	require.Len(t, p.Models(), 2)

	orders, ok := p.Node("model.shop.orders")
	require.True(t, ok)
	col, ok := orders.Column("customer_id")
	require.True(t, ok)
	require.Len(t, col.Tests, 1)
	assert.Equal(t, "F", col.Tests[0].Short)
	assert.Equal(t, "model.shop.customers", col.Tests[0].FKModelID)
	assert.Equal(t, "customer_id", col.Tests[0].FKField)
}
