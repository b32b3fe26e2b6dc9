package http

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics owns a private registry so several servers (and tests) can coexist in one
// process. All Record methods are safe on a nil receiver.
type Metrics struct {
	CatalogSearchesTotal  *prometheus.CounterVec
	CatalogSearchDuration prometheus.Histogram
	ResolutionsTotal      *prometheus.CounterVec
	ExtractionsTotal      *prometheus.CounterVec
	ExtractionDuration    *prometheus.HistogramVec
	DeckSize              prometheus.Gauge
	ErrorsTotal           *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates and registers the collectors of one service.
func NewMetrics(service string) *Metrics {
	metrics := &Metrics{
		CatalogSearchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "songdeck_catalog_searches_total",
				Help: "Total number of catalog searches",
			},
			[]string{"status"},
		),
		CatalogSearchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "songdeck_catalog_search_duration_seconds",
				Help:    "Time spent waiting for catalog searches",
				Buckets: prometheus.DefBuckets,
			},
		),
		ResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "songdeck_audio_resolutions_total",
				Help: "Total number of card audio resolutions by outcome",
			},
			[]string{"outcome"},
		),
		ExtractionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "songdeck_extractions_total",
				Help: "Total number of audio extraction requests by outcome",
			},
			[]string{"outcome"},
		),
		ExtractionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "songdeck_extraction_duration_seconds",
				Help:    "Time spent handling audio extraction requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		DeckSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "songdeck_deck_size",
				Help: "Number of cards in the mounted deck",
			},
		),
		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "songdeck_errors_total",
				Help: "Total number of errors",
			},
			[]string{"component", "type"},
		),
		registry: prometheus.NewRegistry(),
	}

	registerer := prometheus.WrapRegistererWith(prometheus.Labels{"service": service}, metrics.registry)
	registerer.MustRegister(
		metrics.CatalogSearchesTotal,
		metrics.CatalogSearchDuration,
		metrics.ResolutionsTotal,
		metrics.ExtractionsTotal,
		metrics.ExtractionDuration,
		metrics.DeckSize,
		metrics.ErrorsTotal,
	)
	metrics.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return metrics
}

// Gatherer exposes the registry to the /metrics handler.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

func (m *Metrics) RecordCatalogSearch(status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.CatalogSearchesTotal.WithLabelValues(status).Inc()
	m.CatalogSearchDuration.Observe(duration.Seconds())
	if status != "ok" {
		m.ErrorsTotal.WithLabelValues("catalog", status).Inc()
	}
}

func (m *Metrics) RecordResolution(outcome string) {
	if m == nil {
		return
	}
	m.ResolutionsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordExtraction(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.ExtractionsTotal.WithLabelValues(outcome).Inc()
	m.ExtractionDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

func (m *Metrics) SetDeckSize(size int) {
	if m == nil {
		return
	}
	m.DeckSize.Set(float64(size))
}

func (m *Metrics) RecordError(component, errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
