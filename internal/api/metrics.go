package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// lifecycleOps counts pool lifecycle operations by operation and outcome.
var lifecycleOps = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "armory",
	Name:      "lifecycle_operations_total",
	Help:      "Pool lifecycle operations by operation and outcome.",
}, []string{"op", "outcome"})

func recordOp(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	lifecycleOps.WithLabelValues(op, outcome).Inc()
}
