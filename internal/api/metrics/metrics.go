// Package metrics defines all custom Prometheus metrics for the catalog API.
// It is the single source of truth for metric names, labels, and help strings.
// Metrics register themselves with the default registry at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catalog"

// ProductsCreatedTotal counts newly created products.
// Label:
//   - category: the free-form category the product was filed under
var ProductsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "products_created_total",
		Help:      "Total number of products created, by category.",
	},
	[]string{"category"},
)

// ProductMutationsTotal counts update and delete attempts.
// Labels:
//   - operation: "update" or "delete"
//   - outcome: "ok", "denied", "not_found", or "error"
var ProductMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "product_mutations_total",
		Help:      "Total number of product mutation attempts, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// ProductListDuration measures how long a catalog list query takes end-to-end.
var ProductListDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "product_list_duration_seconds",
		Help:      "Duration of product list queries including the count.",
		Buckets:   prometheus.DefBuckets,
	},
)
