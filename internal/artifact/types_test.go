package artifact

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRef_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Ref
		pkg     string
		refName string
	}{
		{name: "bare string", input: `"customers"`, want: Ref{"customers"}, refName: "customers"},
		{name: "one element", input: `["customers"]`, want: Ref{"customers"}, refName: "customers"},
		{name: "package qualified", input: `["jaffle", "customers"]`, want: Ref{"jaffle", "customers"}, pkg: "jaffle", refName: "customers"},
		{name: "object", input: `{"name": "customers", "package": null, "version": null}`, want: Ref{"customers"}, refName: "customers"},
		{name: "object with package", input: `{"name": "customers", "package": "jaffle", "version": 2}`, want: Ref{"jaffle", "customers"}, pkg: "jaffle", refName: "customers"},
		{name: "object without name", input: `{"package": "jaffle"}`},
		{name: "number", input: `42`},
		{name: "null", input: `null`},
		{name: "array of numbers", input: `[1, 2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Ref
			require.NoError(t, json.Unmarshal([]byte(tt.input), &r))
			assert.Equal(t, tt.want, r)
			assert.Equal(t, tt.pkg, r.Package())
			assert.Equal(t, tt.refName, r.Name())
		})
	}
}

func TestDecodeManifest_PreservesOrder(t *testing.T) {
	m, err := DecodeManifest(strings.NewReader(`{"nodes": {
		"model.p.z": {"unique_id": "model.p.z", "resource_type": "model", "name": "z",
			"columns": {"b": {"name": "b"}, "a": {"name": "a"}}},
		"model.p.a": {"unique_id": "model.p.a", "resource_type": "model", "name": "a"}
	}}`))
	require.NoError(t, err)

	var ids []string
	for pair := m.Nodes.Oldest(); pair != nil; pair = pair.Next() {
		ids = append(ids, pair.Key)
	}
	assert.Equal(t, []string{"model.p.z", "model.p.a"}, ids)

	z, _ := m.Nodes.Get("model.p.z")
	var cols []string
	for pair := z.Columns.Oldest(); pair != nil; pair = pair.Next() {
		cols = append(cols, pair.Key)
	}
	assert.Equal(t, []string{"b", "a"}, cols)
}

func TestDecodeManifest_EmptyNodes(t *testing.T) {
	m, err := DecodeManifest(strings.NewReader(`{}`))
	require.NoError(t, err)
	require.NotNil(t, m.Nodes)
	assert.Equal(t, 0, m.Nodes.Len())
}

func TestNode_Clone(t *testing.T) {
	n := &Node{UniqueID: "model.p.a", Columns: NewColumnMap()}
	n.Columns.Set("id", &Column{Name: "id"})

	c := n.Clone()
	col, _ := c.Column("id")
	col.Tests = append(col.Tests, TestDescriptor{Label: "Unique"})
	c.Columns.Set("extra", &Column{Name: "extra"})

	orig, _ := n.Column("id")
	assert.Nil(t, orig.Tests)
	assert.Equal(t, 1, n.Columns.Len())
}

func TestNode_HasTag(t *testing.T) {
	n := &Node{Tags: []string{"schema", "nightly"}}
	assert.True(t, n.HasTag("schema"))
	assert.False(t, n.HasTag("data"))
}

// modernManifestJSON uses the object ref encoding and a list unique_key.
const modernManifestJSON = `{
  "metadata": {"dbt_version": "1.7.4", "generated_at": "2026-10-01T08:00:00Z"},
  "nodes": {
    "model.shop.orders": {
      "unique_id": "model.shop.orders", "resource_type": "model", "name": "orders",
      "package_name": "shop", "original_file_path": "models/orders.sql",
      "schema": "analytics", "alias": "orders",
      "config": {"materialized": "incremental", "unique_key": ["order_id", "order_date"], "tags": "daily"},
      "refs": [{"name": "stg_orders", "package": null, "version": null}],
      "columns": {"customer_id": {"name": "customer_id"}}
    },
    "test.shop.relationships_orders_customer_id": {
      "unique_id": "test.shop.relationships_orders_customer_id", "resource_type": "test",
      "name": "relationships_orders_customer_id", "package_name": "shop",
      "tags": ["schema"], "column_name": "customer_id",
      "refs": [{"name": "orders", "package": null, "version": null}, {"name": "customers", "package": "shop", "version": 2}],
      "depends_on": {"nodes": ["model.shop.orders"]},
      "raw_code": "{{ test_relationships(to=ref('customers'), field='customer_id') }}"
    }
  }
}`

func TestDecodeManifest_ModernEncodings(t *testing.T) {
	m, err := DecodeManifest(strings.NewReader(modernManifestJSON))
	require.NoError(t, err)
	require.Equal(t, 2, m.Nodes.Len())

	orders, ok := m.Nodes.Get("model.shop.orders")
	require.True(t, ok)
	assert.Equal(t, "incremental", orders.Config.Materialized)
	assert.Equal(t, []Ref{{"stg_orders"}}, orders.Refs)

	test, ok := m.Nodes.Get("test.shop.relationships_orders_customer_id")
	require.True(t, ok)
	require.Len(t, test.Refs, 2)
	assert.Equal(t, "orders", test.Refs[0].Name())
	assert.Equal(t, "shop", test.Refs[1].Package())
	assert.Equal(t, "customers", test.Refs[1].Name())
}

func TestNode_RawText(t *testing.T) {
	assert.Equal(t, "a", (&Node{RawSQL: "a", RawCode: "b"}).RawText())
	assert.Equal(t, "b", (&Node{RawCode: "b"}).RawText())
	assert.Empty(t, (&Node{}).RawText())
}
