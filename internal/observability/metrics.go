package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "nuclide_data"

// Metrics holds the Prometheus counters, histograms, and gauges for table loading.
type Metrics struct {
	WeightEntriesParsed prometheus.Counter
	WalletEntriesParsed prometheus.Counter
	MATEntriesParsed    prometheus.Counter
	NuclidesBuilt       prometheus.Gauge
	ElementsBuilt       prometheus.Gauge
	ConsistencyWarnings prometheus.Counter
	SourceOpenRetries   prometheus.Counter
	LoadFailures        *prometheus.CounterVec // labels: stage={open,parse,normalize,build}
	LoadDuration        prometheus.Histogram
	LastLoadTimestamp   prometheus.Gauge

	gatherer prometheus.Gatherer
}

func newMetrics() *Metrics {
	return &Metrics{
		WeightEntriesParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weight_entries_parsed_total",
			Help:      "Total element and isotope entries read from the atomic-weight table.",
		}),
		WalletEntriesParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wallet_entries_parsed_total",
			Help:      "Total nuclide entries read from the wallet-card table.",
		}),
		MATEntriesParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mat_entries_parsed_total",
			Help:      "Total evaluations read from the ENDF MAT list.",
		}),
		NuclidesBuilt: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "nuclides",
			Help:      "Nuclide records in the most recently built tables.",
		}),
		ElementsBuilt: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "elements",
			Help:      "Elements in the most recently built tables.",
		}),
		ConsistencyWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "consistency_warnings_total",
			Help:      "Total data-consistency findings raised while normalizing.",
		}),
		SourceOpenRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_open_retries_total",
			Help:      "Total retried attempts to open a source table.",
		}),
		LoadFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "load_failures_total",
			Help:      "Failed loads by stage.",
		}, []string{"stage"}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Duration of a complete open-parse-normalize-build cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		LastLoadTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_load_timestamp_seconds",
			Help:      "Unix time of the last successful load.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.WeightEntriesParsed,
		m.WalletEntriesParsed,
		m.MATEntriesParsed,
		m.NuclidesBuilt,
		m.ElementsBuilt,
		m.ConsistencyWarnings,
		m.SourceOpenRetries,
		m.LoadFailures,
		m.LoadDuration,
		m.LastLoadTimestamp,
	}
}

// NewMetrics creates and registers all loader metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	m.gatherer = prometheus.DefaultGatherer
	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	m := newMetrics()
	reg := prometheus.NewRegistry()
	reg.MustRegister(m.collectors()...)
	m.gatherer = reg
	return m
}

// WriteTextfile writes the current metric values to path in the text
// exposition format, for the node-exporter textfile collector. The file is
// replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.gatherer)
}
