package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Search outcome labels
const (
	OutcomeServed   = "served"
	OutcomeEmpty    = "empty"
	OutcomeNotReady = "not_ready"
)

// Collector provides Prometheus metrics for the similarity engine. A private
// registry keeps these collectors isolated from any globals the process links
// in.
type Collector struct {
	searchesTotal   *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	searchDuration  prometheus.Histogram
	embedDuration   prometheus.Histogram
	indexedProducts prometheus.Gauge
	rebuildsTotal   prometheus.Counter
	registry        *prometheus.Registry
}

// NewCollector creates a new Prometheus metrics collector
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	searchesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dupefinder_searches_total",
			Help: "Total number of similarity searches by outcome",
		},
		[]string{"outcome"},
	)

	cacheLookups := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dupefinder_embedding_cache_lookups_total",
			Help: "Total number of embedding cache lookups by result",
		},
		[]string{"result"},
	)

	searchDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dupefinder_search_duration_seconds",
			Help:    "End-to-end similarity search duration",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.5},
		},
	)

	embedDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dupefinder_embed_duration_seconds",
			Help:    "Embedding provider request duration",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0},
		},
	)

	indexedProducts := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dupefinder_indexed_products",
			Help: "Number of products in the active index",
		},
	)

	rebuildsTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dupefinder_index_rebuilds_total",
			Help: "Total number of index rebuilds since start",
		},
	)

	registry.MustRegister(searchesTotal)
	registry.MustRegister(cacheLookups)
	registry.MustRegister(searchDuration)
	registry.MustRegister(embedDuration)
	registry.MustRegister(indexedProducts)
	registry.MustRegister(rebuildsTotal)

	return &Collector{
		searchesTotal:   searchesTotal,
		cacheLookups:    cacheLookups,
		searchDuration:  searchDuration,
		embedDuration:   embedDuration,
		indexedProducts: indexedProducts,
		rebuildsTotal:   rebuildsTotal,
		registry:        registry,
	}
}

// RecordSearch records a completed search with its outcome and duration
func (c *Collector) RecordSearch(outcome string, elapsed time.Duration) {
	c.searchesTotal.WithLabelValues(outcome).Inc()
	c.searchDuration.Observe(elapsed.Seconds())
}

// RecordCacheHit records an embedding cache hit
func (c *Collector) RecordCacheHit() {
	c.cacheLookups.WithLabelValues("hit").Inc()
}

// RecordCacheMiss records an embedding cache miss
func (c *Collector) RecordCacheMiss() {
	c.cacheLookups.WithLabelValues("miss").Inc()
}

// ObserveEmbed records the duration of one provider round trip
func (c *Collector) ObserveEmbed(elapsed time.Duration) {
	c.embedDuration.Observe(elapsed.Seconds())
}

// SetIndexedProducts sets the size of the active index
func (c *Collector) SetIndexedProducts(count int) {
	c.indexedProducts.Set(float64(count))
}

// RecordRebuild counts an index rebuild
func (c *Collector) RecordRebuild() {
	c.rebuildsTotal.Inc()
}

// Registry returns the Prometheus registry for HTTP exposure
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
