// Package metrics holds the counters the maintenance commands report.
// Commands are short-lived, so instead of a scrape endpoint the values are
// written once in the node_exporter textfile-collector format.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is safe for concurrent use. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	tokensUpserted  *prometheus.CounterVec
	syncFailures    *prometheus.CounterVec
	syncDuration    *prometheus.HistogramVec
	registryTokens  *prometheus.GaugeVec
	storeRetries    prometheus.Counter
	teardownRows    *prometheus.CounterVec
	teardownFailure *prometheus.CounterVec
	accountsEnsured *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		tokensUpserted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coinleague",
			Subsystem: "registry",
			Name:      "tokens_upserted_total",
			Help:      "Catalog entries upserted into the token registry",
		}, []string{"chain"}),

		syncFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coinleague",
			Subsystem: "registry",
			Name:      "sync_failures_total",
			Help:      "Registry syncs aborted by a store failure",
		}, []string{"chain"}),

		syncDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "coinleague",
			Subsystem: "registry",
			Name:      "sync_duration_seconds",
			Help:      "Wall time of one registry sync",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"chain"}),

		registryTokens: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "coinleague",
			Subsystem: "registry",
			Name:      "tokens",
			Help:      "Tokens written by the last successful sync",
		}, []string{"chain"}),

		storeRetries: f.NewCounter(prometheus.CounterOpts{
			Namespace: "coinleague",
			Subsystem: "store",
			Name:      "retries_total",
			Help:      "Store calls retried after a transient failure",
		}),

		teardownRows: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coinleague",
			Subsystem: "teardown",
			Name:      "rows_deleted_total",
			Help:      "Rows removed by registry teardown",
		}, []string{"entity"}),

		teardownFailure: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coinleague",
			Subsystem: "teardown",
			Name:      "step_failures_total",
			Help:      "Teardown steps that failed",
		}, []string{"entity"}),

		accountsEnsured: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coinleague",
			Subsystem: "accounts",
			Name:      "ensured_total",
			Help:      "Ensure-account outcomes by status",
		}, []string{"status"}),
	}
}

func chainLabel(chainID int64) string {
	return strconv.FormatInt(chainID, 10)
}

func (m *Metrics) TokenUpserted(chainID int64) {
	if m == nil {
		return
	}
	m.tokensUpserted.WithLabelValues(chainLabel(chainID)).Inc()
}

func (m *Metrics) SyncFinished(chainID int64, tokens int, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	label := chainLabel(chainID)
	m.syncDuration.WithLabelValues(label).Observe(elapsed.Seconds())
	if err != nil {
		m.syncFailures.WithLabelValues(label).Inc()
		return
	}
	m.registryTokens.WithLabelValues(label).Set(float64(tokens))
}

func (m *Metrics) StoreRetried() {
	if m == nil {
		return
	}
	m.storeRetries.Inc()
}

func (m *Metrics) RowsDeleted(entity string, n int64) {
	if m == nil {
		return
	}
	m.teardownRows.WithLabelValues(entity).Add(float64(n))
}

func (m *Metrics) TeardownStepFailed(entity string) {
	if m == nil {
		return
	}
	m.teardownFailure.WithLabelValues(entity).Inc()
}

func (m *Metrics) AccountEnsured(status string) {
	if m == nil {
		return
	}
	m.accountsEnsured.WithLabelValues(status).Inc()
}

// Gatherer exposes the private registry, mainly for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile atomically writes all metrics to path.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
