package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsConfig controls whether and where metrics are exposed.
type MetricsConfig struct {
	Enabled       bool
	Namespace     string
	ListenAddress string
	Path          string
}

// DefaultMetricsConfig disables metrics by default; the CLI's
// --metrics-addr flag turns them on.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{Enabled: false, Namespace: "yardplan", Path: "/metrics"}
}

// Metrics exposes run-level counters and histograms for the
// orchestrator and optimiser. Grounded on piwi3910-openfroyo's
// pkg/telemetry/metrics.go, with run/resource/provider concerns
// replaced by runs/generations/reshuffles.
type Metrics struct {
	cfg MetricsConfig

	runsStarted     *prometheus.CounterVec
	runsCompleted   *prometheus.CounterVec
	runDuration     *prometheus.HistogramVec
	generationsRun  prometheus.Counter
	bestCost        prometheus.Gauge
	reshuffleMoves  *prometheus.HistogramVec
	infeasibleRuns  *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics builds a Metrics collector. When cfg.Enabled is false it
// returns a no-op instance whose Record* methods are safe to call but
// do nothing, so callers never need to branch on whether metrics are
// on.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		return &Metrics{cfg: cfg}, nil
	}

	registry := prometheus.NewRegistry()
	m := &Metrics{
		cfg:      cfg,
		registry: registry,
		runsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace, Name: "runs_started_total", Help: "Total planning runs started.",
		}, nil),
		runsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace, Name: "runs_completed_total", Help: "Total planning runs completed, by status.",
		}, []string{"status"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace, Name: "run_duration_seconds", Help: "Wall-clock duration of a full plan run.",
			Buckets: prometheus.DefBuckets,
		}, []string{"status"}),
		generationsRun: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace, Name: "generations_run_total", Help: "Total evolutionary-search generations evaluated.",
		}),
		bestCost: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace, Name: "best_cost", Help: "Reshuffle-move cost of the best sequence found in the most recent run.",
		}),
		reshuffleMoves: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace, Name: "reshuffle_moves", Help: "Distribution of reshuffle-move counts across evaluated sequences.",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}, []string{"phase"}),
		infeasibleRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace, Name: "infeasible_runs_total", Help: "Total runs where the best sequence remained infeasible.",
		}, nil),
	}

	registry.MustRegister(
		m.runsStarted, m.runsCompleted, m.runDuration,
		m.generationsRun, m.bestCost, m.reshuffleMoves, m.infeasibleRuns,
	)
	return m, nil
}

func (m *Metrics) RecordRunStarted() {
	if m.runsStarted == nil {
		return
	}
	m.runsStarted.WithLabelValues().Inc()
}

func (m *Metrics) RecordRunCompleted(status string, d time.Duration) {
	if m.runsCompleted == nil {
		return
	}
	m.runsCompleted.WithLabelValues(status).Inc()
	m.runDuration.WithLabelValues(status).Observe(d.Seconds())
}

func (m *Metrics) RecordGeneration() {
	if m.generationsRun == nil {
		return
	}
	m.generationsRun.Inc()
}

func (m *Metrics) SetBestCost(cost int) {
	if m.bestCost == nil {
		return
	}
	m.bestCost.Set(float64(cost))
}

func (m *Metrics) RecordReshuffleMoves(phase string, moves int) {
	if m.reshuffleMoves == nil {
		return
	}
	m.reshuffleMoves.WithLabelValues(phase).Observe(float64(moves))
}

func (m *Metrics) RecordInfeasible() {
	if m.infeasibleRuns == nil {
		return
	}
	m.infeasibleRuns.WithLabelValues().Inc()
}

// Handler returns the HTTP handler serving Prometheus text output.
func (m *Metrics) Handler() http.Handler {
	if m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
