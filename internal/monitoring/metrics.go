package monitoring

import "github.com/prometheus/client_golang/prometheus"

var (
	turnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "takeorder_turns_total",
			Help: "Processed utterances by classified intent",
		},
		[]string{"intent"},
	)

	ordersFinalized = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "takeorder_orders_finalized_total",
			Help: "Orders successfully submitted to the ledger",
		},
	)

	orderValue = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "takeorder_order_value_dollars",
			Help:    "Total cost of finalized orders",
			Buckets: prometheus.LinearBuckets(5, 10, 10),
		},
	)
)

func init() {
	prometheus.MustRegister(turnsTotal, ordersFinalized, orderValue)
}
