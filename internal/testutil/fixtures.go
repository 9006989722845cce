package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Unique ids of the sample project nodes.
const (
	StgOrdersID      = "model.analytics.stg_orders"
	StgCustomersID   = "model.analytics.stg_customers"
	IntOrderTotalsID = "model.analytics.int_order_totals"
	OrdersID         = "model.analytics.orders"
	CustomersID      = "model.analytics.customers"
)

// ManifestJSON is a small "analytics" project: two staging views, one
// ephemeral intermediate model (declared with a backslash path), two marts and
// a mix of eligible and ineligible schema tests.
const ManifestJSON = `{
  "metadata": {"generated_at": "2026-10-01T08:00:00Z", "dbt_version": "0.14.0"},
  "nodes": {
    "model.analytics.stg_orders": {
      "unique_id": "model.analytics.stg_orders",
      "resource_type": "model",
      "name": "stg_orders",
      "package_name": "analytics",
      "original_file_path": "models/staging/stg_orders.sql",
      "schema": "staging",
      "alias": "stg_orders",
      "description": "Staged orders from the raw source",
      "config": {"materialized": "view"},
      "columns": {
        "order_id": {"name": "order_id", "description": "Primary key"},
        "customer_id": {"name": "customer_id"}
      },
      "depends_on": {"nodes": ["seed.analytics.raw_orders"]}
    },
    "model.analytics.stg_customers": {
      "unique_id": "model.analytics.stg_customers",
      "resource_type": "model",
      "name": "stg_customers",
      "package_name": "analytics",
      "original_file_path": "models/staging/stg_customers.sql",
      "schema": "staging",
      "alias": "stg_customers",
      "description": "Staged customers",
      "config": {"materialized": "view"},
      "columns": {
        "customer_id": {"name": "customer_id"},
        "first_name": {"name": "first_name"}
      },
      "depends_on": {"nodes": []}
    },
    "model.analytics.int_order_totals": {
      "unique_id": "model.analytics.int_order_totals",
      "resource_type": "model",
      "name": "int_order_totals",
      "package_name": "analytics",
      "original_file_path": "models\\intermediate\\int_order_totals.sql",
      "schema": "analytics",
      "alias": "int_order_totals",
      "config": {"materialized": "ephemeral"},
      "columns": {},
      "depends_on": {"nodes": ["model.analytics.stg_orders"]}
    },
    "model.analytics.orders": {
      "unique_id": "model.analytics.orders",
      "resource_type": "model",
      "name": "orders",
      "package_name": "analytics",
      "original_file_path": "models/marts/orders.sql",
      "schema": "analytics",
      "alias": "fct_orders",
      "description": "One row per order",
      "config": {"materialized": "table"},
      "columns": {
        "order_id": {"name": "order_id", "description": "Order key"},
        "customer_id": {"name": "customer_id"},
        "status": {"name": "status", "description": "Current order status"}
      },
      "depends_on": {"nodes": ["model.analytics.int_order_totals"]}
    },
    "model.analytics.customers": {
      "unique_id": "model.analytics.customers",
      "resource_type": "model",
      "name": "customers",
      "package_name": "analytics",
      "original_file_path": "models/marts/customers.sql",
      "schema": "analytics",
      "alias": "dim_customers",
      "description": "Customer dimension with lifetime order value",
      "config": {"materialized": "table"},
      "columns": {
        "customer_id": {"name": "customer_id", "description": "Customer key"},
        "Lifetime_Value": {"name": "Lifetime_Value", "description": "Sum of order totals"}
      },
      "depends_on": {"nodes": ["model.analytics.stg_customers", "model.analytics.orders"]}
    },
    "seed.analytics.raw_orders": {
      "unique_id": "seed.analytics.raw_orders",
      "resource_type": "seed",
      "name": "raw_orders",
      "package_name": "analytics",
      "original_file_path": "data/raw_orders.csv",
      "schema": "raw",
      "alias": "raw_orders",
      "config": {"materialized": "seed"},
      "depends_on": {"nodes": []}
    },
    "test.analytics.not_null_orders_order_id": {
      "unique_id": "test.analytics.not_null_orders_order_id",
      "resource_type": "test",
      "name": "not_null_orders_order_id",
      "package_name": "analytics",
      "original_file_path": "models/marts/schema.yml",
      "tags": ["schema"],
      "column_name": "order_id",
      "refs": [["orders"]],
      "raw_sql": "{{ test_not_null(model=ref('orders'), column_name='order_id') }}",
      "config": {"materialized": "view"},
      "depends_on": {"nodes": ["model.analytics.orders"]}
    },
    "test.analytics.unique_orders_order_id": {
      "unique_id": "test.analytics.unique_orders_order_id",
      "resource_type": "test",
      "name": "unique_orders_order_id",
      "package_name": "analytics",
      "original_file_path": "models/marts/schema.yml",
      "tags": ["schema"],
      "column_name": "order_id",
      "refs": [["orders"]],
      "raw_sql": "{{ test_unique(model=ref('orders'), column_name='order_id') }}",
      "config": {"materialized": "view"},
      "depends_on": {"nodes": ["model.analytics.orders"]}
    },
    "test.analytics.relationships_orders_customer_id__customer_id__ref_customers_": {
      "unique_id": "test.analytics.relationships_orders_customer_id__customer_id__ref_customers_",
      "resource_type": "test",
      "name": "relationships_orders_customer_id__customer_id__ref_customers_",
      "package_name": "analytics",
      "original_file_path": "models/marts/schema.yml",
      "tags": ["schema"],
      "column_name": "customer_id",
      "refs": [["orders"], ["customers"]],
      "raw_sql": "{{ test_relationships(model=ref('orders'), to=ref('customers'), field='customer_id') }}",
      "config": {"materialized": "view"},
      "depends_on": {"nodes": ["model.analytics.orders", "model.analytics.customers"]}
    },
    "test.analytics.accepted_values_orders_status__placed__shipped": {
      "unique_id": "test.analytics.accepted_values_orders_status__placed__shipped",
      "resource_type": "test",
      "name": "accepted_values_orders_status__placed__shipped",
      "package_name": "analytics",
      "original_file_path": "models/marts/schema.yml",
      "tags": ["schema"],
      "column_name": "status",
      "refs": [["orders"]],
      "raw_sql": "{{ test_accepted_values(model=ref('orders'), field='status', values=['placed','shipped']) }}",
      "config": {"materialized": "view"},
      "depends_on": {"nodes": ["model.analytics.orders"]}
    },
    "test.analytics.not_null_customers_customer_id": {
      "unique_id": "test.analytics.not_null_customers_customer_id",
      "resource_type": "test",
      "name": "not_null_customers_customer_id",
      "package_name": "analytics",
      "original_file_path": "models/marts/schema.yml",
      "tags": ["schema"],
      "column_name": "customer_id",
      "refs": [["customers"]],
      "raw_sql": "{{ test_not_null(model=ref('customers'), column_name='customer_id') }}",
      "config": {"materialized": "view"},
      "depends_on": {"nodes": ["model.analytics.customers"]}
    },
    "test.analytics.assert_positive_totals": {
      "unique_id": "test.analytics.assert_positive_totals",
      "resource_type": "test",
      "name": "assert_positive_totals",
      "package_name": "analytics",
      "original_file_path": "tests/assert_positive_totals.sql",
      "tags": ["data"],
      "refs": [["orders"]],
      "raw_sql": "select * from {{ ref('orders') }} where amount < 0",
      "config": {"materialized": "view"},
      "depends_on": {"nodes": ["model.analytics.orders"]}
    },
    "test.analytics.relationships_orders_customer_id__customer_id__ref_missing_": {
      "unique_id": "test.analytics.relationships_orders_customer_id__customer_id__ref_missing_",
      "resource_type": "test",
      "name": "relationships_orders_customer_id__customer_id__ref_missing_",
      "package_name": "analytics",
      "original_file_path": "models/marts/schema.yml",
      "tags": ["schema"],
      "column_name": "customer_id",
      "refs": [["orders"], ["missing_model"]],
      "raw_sql": "{{ test_relationships(model=ref('orders'), to=ref('missing_model'), field='customer_id') }}",
      "config": {"materialized": "view"},
      "depends_on": {"nodes": ["model.analytics.orders"]}
    }
  }
}`

// CatalogJSON observes four of the five models. stg_customers and customers
// report upper-cased columns; dropped_model exists only in the catalog.
const CatalogJSON = `{
  "metadata": {"generated_at": "2026-10-01T08:05:00Z", "dbt_version": "0.14.0"},
  "nodes": {
    "model.analytics.orders": {
      "unique_id": "model.analytics.orders",
      "metadata": {"type": "BASE TABLE", "schema": "ANALYTICS", "name": "FCT_ORDERS", "owner": "transformer"},
      "columns": {
        "order_id": {"type": "INTEGER", "index": 1, "name": "order_id"},
        "customer_id": {"type": "INTEGER", "index": 2, "name": "customer_id"},
        "status": {"type": "VARCHAR", "index": 3, "name": "status"},
        "amount": {"type": "NUMERIC", "index": 4, "name": "amount", "comment": "Order total"}
      },
      "stats": {
        "row_count": {"id": "row_count", "label": "Row Count", "value": 99, "include": true}
      }
    },
    "model.analytics.customers": {
      "unique_id": "model.analytics.customers",
      "metadata": {"type": "BASE TABLE", "schema": "ANALYTICS", "name": "DIM_CUSTOMERS"},
      "columns": {
        "customer_id": {"type": "INTEGER", "index": 1, "name": "customer_id"},
        "LIFETIME_VALUE": {"type": "NUMERIC", "index": 2, "name": "LIFETIME_VALUE"}
      }
    },
    "model.analytics.stg_orders": {
      "unique_id": "model.analytics.stg_orders",
      "metadata": {"type": "VIEW", "schema": "STAGING", "name": "STG_ORDERS"},
      "columns": {
        "order_id": {"type": "INTEGER", "index": 1, "name": "order_id"},
        "customer_id": {"type": "INTEGER", "index": 2, "name": "customer_id"}
      }
    },
    "model.analytics.stg_customers": {
      "unique_id": "model.analytics.stg_customers",
      "metadata": {"type": "VIEW", "schema": "STAGING", "name": "STG_CUSTOMERS"},
      "columns": {
        "CUSTOMER_ID": {"type": "INTEGER", "index": 1, "name": "CUSTOMER_ID"},
        "FIRST_NAME": {"type": "VARCHAR", "index": 2, "name": "FIRST_NAME"}
      }
    },
    "model.analytics.dropped_model": {
      "unique_id": "model.analytics.dropped_model",
      "metadata": {"type": "VIEW", "schema": "ANALYTICS", "name": "DROPPED_MODEL"},
      "columns": {
        "id": {"type": "INTEGER", "index": 1, "name": "id"}
      }
    }
  }
}`

// RunResultsJSON carries compiled SQL for orders and customers, one result for
// a node that no longer exists and one result without an embedded node.
const RunResultsJSON = `{
  "generated_at": "2026-10-01T08:10:00Z",
  "elapsed_time": 3.5,
  "results": [
    {"node": {"unique_id": "model.analytics.orders", "injected_sql": "select * from analytics.int_order_totals"}, "execution_time": 1.2},
    {"node": {"unique_id": "model.analytics.customers", "injected_sql": "select customer_id from staging.stg_customers"}, "execution_time": 0.8},
    {"node": {"unique_id": "model.analytics.removed", "injected_sql": "select 1"}},
    {"node": null, "error": "compilation error"}
  ]
}`

// WriteTarget writes the sample artifacts into a fresh temporary directory and
// returns its path. run_results.json is only written when withRunResults is set.
func WriteTarget(t testing.TB, withRunResults bool) string {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"manifest.json": ManifestJSON,
		"catalog.json":  CatalogJSON,
	}
	if withRunResults {
		files["run_results.json"] = RunResultsJSON
	}

	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}
