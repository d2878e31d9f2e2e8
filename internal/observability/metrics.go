package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// smoke-threat ETL pipeline.
type Metrics struct {
	GranuleSetsConsumed prometheus.Counter
	AssessmentsProduced prometheus.Counter
	TransformErrors     prometheus.Counter
	PipelineRunning     prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Domain metrics.
	SamplesExtracted   *prometheus.CounterVec // labels: product={hcho,no2,aerosol}
	MatchOutcomes      *prometheus.CounterVec // labels: product, outcome={matched,defaulted}
	AssessmentOutcomes *prometheus.CounterVec // labels: outcome={scored,insufficient_data}
	ThreatPointLevels  *prometheus.CounterVec // labels: level
	ScoringDuration    prometheus.Histogram
	SnapshotWrites     *prometheus.CounterVec // labels: result={ok,error}
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.GranuleSetsConsumed,
		m.AssessmentsProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.SamplesExtracted,
		m.MatchOutcomes,
		m.AssessmentOutcomes,
		m.ThreatPointLevels,
		m.ScoringDuration,
		m.SnapshotWrites,
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
		GranuleSetsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "smoke_etl",
			Name:      "granule_sets_consumed_total",
			Help:      "Total granule-set messages read from the source topic.",
		}),
		AssessmentsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "smoke_etl",
			Name:      "assessments_produced_total",
			Help:      "Total assessment messages written to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "smoke_etl",
			Name:      "transform_errors_total",
			Help:      "Total granule sets that failed decoding or assessment.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "smoke_etl",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "smoke_etl",
			Name:      "batch_size",
			Help:      "Number of granule-set messages per batch extracted from Kafka.",
			Buckets:   []float64{1, 2, 5, 10, 20, 30, 50},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "smoke_etl",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-transform-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		SamplesExtracted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smoke_etl",
			Name:      "samples_extracted_total",
			Help:      "Valid decimated samples produced by the grid sampler, by product.",
		}, []string{"product"}),
		MatchOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smoke_etl",
			Name:      "match_outcomes_total",
			Help:      "Secondary-product nearest-neighbour lookups, by product and outcome.",
		}, []string{"product", "outcome"}),
		AssessmentOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smoke_etl",
			Name:      "assessments_total",
			Help:      "Assessments by outcome (scored vs insufficient data).",
		}, []string{"outcome"}),
		ThreatPointLevels: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smoke_etl",
			Name:      "threat_points_total",
			Help:      "Threat points emitted, by classified level.",
		}, []string{"level"}),
		ScoringDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "smoke_etl",
			Name:      "scoring_duration_seconds",
			Help:      "Duration of the sample-match-score path for one granule set.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		SnapshotWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smoke_etl",
			Name:      "snapshot_writes_total",
			Help:      "Latest-assessment snapshot writes, by result.",
		}, []string{"result"}),
	}
}
