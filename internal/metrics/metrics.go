package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Status labels for upload results
const (
	StatusIndexed     = "indexed"
	StatusUpdated     = "updated"
	StatusSkipped     = "skipped"
	StatusUnsupported = "unsupported"
	StatusFailed      = "failed"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ragchat_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint", "status_code"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ragchat_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "endpoint", "status_code"})

	FilesUploaded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ragchat_files_uploaded_total",
		Help: "Uploaded files by indexing outcome",
	}, []string{"status"})

	ChunksIndexed = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ragchat_chunks_indexed",
		Help: "Number of chunks currently in the index",
	})

	DocumentsIndexed = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ragchat_documents_indexed",
		Help: "Number of documents currently in the index",
	})

	ReindexDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ragchat_reindex_duration_seconds",
		Help:    "Duration of full index rebuilds in seconds",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	ChatRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ragchat_chat_duration_seconds",
		Help:    "Duration of chat answers in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
	})

	ChatSourcesRetrieved = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ragchat_chat_sources_retrieved",
		Help:    "Number of sources retrieved for a chat answer",
		Buckets: []float64{0, 1, 2, 4, 8, 16},
	})
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	code := strconv.Itoa(statusCode)
	HTTPRequestDuration.WithLabelValues(method, endpoint, code).Observe(duration.Seconds())
	HTTPRequestsTotal.WithLabelValues(method, endpoint, code).Inc()
}

// RecordUpload records the outcome of one uploaded file.
func RecordUpload(status string) {
	FilesUploaded.WithLabelValues(status).Inc()
}

// RecordIndexSize publishes the index size after a rebuild.
func RecordIndexSize(documents, chunks int, duration time.Duration) {
	DocumentsIndexed.Set(float64(documents))
	ChunksIndexed.Set(float64(chunks))
	ReindexDuration.Observe(duration.Seconds())
}

// RecordChat records one answered chat request.
func RecordChat(duration time.Duration, sources int) {
	ChatRequestDuration.Observe(duration.Seconds())
	ChatSourcesRetrieved.Observe(float64(sources))
}
