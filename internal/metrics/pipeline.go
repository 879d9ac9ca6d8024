package metrics

import "github.com/prometheus/client_golang/prometheus"

// Ingestion pipeline Prometheus metrics.
var (
	IngestDocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docpipe",
			Name:      "ingest_documents_total",
			Help:      "Total ingested documents by outcome",
		},
		[]string{"status"}, // "success" / "error"
	)

	IngestStageErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docpipe",
			Name:      "ingest_stage_errors_total",
			Help:      "Ingestion failures by pipeline stage",
		},
		[]string{"stage"},
	)

	IngestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docpipe",
			Name:      "ingest_duration_seconds",
			Help:      "End-to-end ingestion duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"format"}, // ".pdf" / ".docx"
	)

	IngestChunksPerDocument = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "docpipe",
			Name:      "ingest_chunks_per_document",
			Help:      "Number of chunks produced per ingested document",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	RetrievalRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docpipe",
			Name:      "retrieval_requests_total",
			Help:      "Total retrieval requests by outcome",
		},
		[]string{"status"}, // "match" / "no_match" / "error"
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers ingestion and retrieval metrics.
// Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(IngestDocumentsTotal)
	prometheus.MustRegister(IngestStageErrorsTotal)
	prometheus.MustRegister(IngestDuration)
	prometheus.MustRegister(IngestChunksPerDocument)
	prometheus.MustRegister(RetrievalRequestsTotal)
	pipelineMetricsRegistered = true
}
