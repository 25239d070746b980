package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// conversion pipeline.
type Metrics struct {
	RowsRead        prometheus.Counter
	MessagesEncoded prometheus.Counter
	RowsSkipped     *prometheus.CounterVec // label: reason={malformed_row,template_mismatch,codec_error}
	UnmappedColumns prometheus.Counter
	PipelineRunning prometheus.Gauge

	EncodeDuration prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RowsRead,
		m.MessagesEncoded,
		m.RowsSkipped,
		m.UnmappedColumns,
		m.PipelineRunning,
		m.EncodeDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aws2bufr",
			Name:      "rows_read_total",
			Help:      "Total observation rows read from input files.",
		}),
		MessagesEncoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aws2bufr",
			Name:      "messages_encoded_total",
			Help:      "Total BUFR messages successfully encoded and written.",
		}),
		RowsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aws2bufr",
			Name:      "rows_skipped_total",
			Help:      "Rows skipped without producing a message, by reason.",
		}, []string{"reason"}),
		UnmappedColumns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aws2bufr",
			Name:      "unmapped_columns_total",
			Help:      "Distinct input columns absent from the lookup table.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "aws2bufr",
			Name:      "pipeline_running",
			Help:      "1 while a conversion run is active, 0 otherwise.",
		}),
		EncodeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "aws2bufr",
			Name:      "encode_duration_seconds",
			Help:      "Duration of one assemble-and-encode step.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
	}
}
