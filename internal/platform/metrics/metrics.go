package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records API request metrics for Prometheus scraping.
type Collector struct {
	graphqlRequests *prometheus.CounterVec
	graphqlLatency  prometheus.Histogram
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		graphqlRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "staffdir_graphql_requests_total",
			Help: "GraphQL requests by HTTP status code",
		}, []string{"status_code"}),
		graphqlLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "staffdir_graphql_request_duration_seconds",
			Help:    "GraphQL request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(c.graphqlRequests, c.graphqlLatency)
	return c
}

func (c *Collector) RecordRequest(statusCode int, duration time.Duration) {
	c.graphqlRequests.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	c.graphqlLatency.Observe(duration.Seconds())
}

// Handler returns the Prometheus scrape handler for the given gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
