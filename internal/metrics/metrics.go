// Package metrics holds the prometheus collectors for prdstore.
//
// Collectors are registered on the default registry the first time any
// recorder is called, and exposed by Handler.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type collectors struct {
	once sync.Once

	toolCalls      *prometheus.CounterVec
	toolDuration   *prometheus.HistogramVec
	searchDegraded prometheus.Counter
	docsStored     prometheus.Counter
	storageErrors  *prometheus.CounterVec
	confirmations  *prometheus.CounterVec
}

var m collectors

func (c *collectors) init() {
	c.once.Do(func() {
		c.toolCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prdstore_tool_calls_total", Help: "Tool calls by tool and outcome",
		}, []string{"tool", "outcome"})
		c.toolDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "prdstore_tool_duration_seconds",
			Help:    "Tool call duration",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"tool"})
		c.searchDegraded = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prdstore_search_degraded_total", Help: "Searches answered by the fallback scanner",
		})
		c.docsStored = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prdstore_documents_stored_total", Help: "Documents stored in both representations",
		})
		c.storageErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prdstore_storage_errors_total", Help: "Failed storage operations by representation",
		}, []string{"representation"})
		c.confirmations = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prdstore_confirmations_total", Help: "Confirmation transitions by target state",
		}, []string{"state"})

		prometheus.MustRegister(
			c.toolCalls, c.toolDuration,
			c.searchDegraded, c.docsStored, c.storageErrors,
			c.confirmations,
		)
	})
}

// ToolCall records one dispatched tool call.
func ToolCall(tool, outcome string, elapsed time.Duration) {
	m.init()
	m.toolCalls.WithLabelValues(tool, outcome).Inc()
	m.toolDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// SearchDegraded records one fallback scan.
func SearchDegraded() { m.init(); m.searchDegraded.Inc() }

// DocumentStored records one fully stored document.
func DocumentStored() { m.init(); m.docsStored.Inc() }

// StorageError records one failed write or read.
func StorageError(representation string) {
	m.init()
	m.storageErrors.WithLabelValues(representation).Inc()
}

// Confirmation records a transition into state.
func Confirmation(state string) {
	m.init()
	m.confirmations.WithLabelValues(state).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	m.init()
	return promhttp.Handler()
}
