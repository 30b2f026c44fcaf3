package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ItemsProcessed counts batch items by outcome (success or failure)
var ItemsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "grammate",
	Name:      "items_processed_total",
	Help:      "Number of batch items processed, by outcome.",
}, []string{"outcome"})

// AnnotatorRetries counts backoff retries against the annotation service
var AnnotatorRetries = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "grammate",
	Name:      "annotator_retries_total",
	Help:      "Number of retry attempts against the annotation service.",
})

// StoreAppendFailures counts swallowed persistence failures
var StoreAppendFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "grammate",
	Name:      "store_append_failures_total",
	Help:      "Number of result-store append failures that were logged and skipped.",
})

// BatchesStarted counts batch runs started
var BatchesStarted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "grammate",
	Name:      "batches_started_total",
	Help:      "Number of batch runs started.",
})
