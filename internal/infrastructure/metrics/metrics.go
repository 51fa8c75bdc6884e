package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// TopUpMetrics holds the collectors of the top-up service.
type TopUpMetrics struct {
	// Reconcile passes
	PassesTotal      prometheus.CounterVec
	PassDuration     prometheus.Histogram
	PendingScanned   prometheus.Gauge
	RecordsProcessed prometheus.CounterVec
	ProviderErrors   prometheus.CounterVec

	// Ledger
	FinalizedAmountTotal prometheus.CounterVec

	// Top-up creation
	TopUpsCreatedTotal prometheus.CounterVec
}

// NewTopUpMetrics registers the collectors in reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewTopUpMetrics(reg prometheus.Registerer) *TopUpMetrics {
	factory := promauto.With(reg)

	return &TopUpMetrics{
		PassesTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "topup_reconcile_passes_total",
				Help: "Reconcile passes by outcome",
			},
			[]string{"outcome"},
		),

		PassDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "topup_reconcile_pass_duration_seconds",
				Help:    "Wall time of one reconcile pass",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			},
		),

		PendingScanned: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "topup_pending_payments",
				Help: "Pending payments seen by the last pass",
			},
		),

		RecordsProcessed: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "topup_reconcile_records_total",
				Help: "Pending records handled by reconcile, by result",
			},
			[]string{"result"},
		),

		ProviderErrors: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "topup_provider_errors_total",
				Help: "Failed provider calls by operation",
			},
			[]string{"operation"},
		),

		FinalizedAmountTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "topup_finalized_amount_total",
				Help: "Sum of price_amount moved into the ledger",
			},
			[]string{"currency", "status"},
		),

		TopUpsCreatedTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "topup_created_total",
				Help: "Top-up payments created at the provider",
			},
			[]string{"pay_currency"},
		),
	}
}

func (m *TopUpMetrics) RecordPass(outcome string, durationSeconds float64, scanned int) {
	m.PassesTotal.WithLabelValues(outcome).Inc()
	m.PassDuration.Observe(durationSeconds)
	m.PendingScanned.Set(float64(scanned))
}

func (m *TopUpMetrics) RecordSkippedPass() {
	m.PassesTotal.WithLabelValues("skipped").Inc()
}

func (m *TopUpMetrics) RecordRecord(result string) {
	m.RecordsProcessed.WithLabelValues(result).Inc()
}

func (m *TopUpMetrics) RecordProviderError(operation string) {
	m.ProviderErrors.WithLabelValues(operation).Inc()
}

func (m *TopUpMetrics) RecordFinalized(currency, status string, amount float64) {
	m.FinalizedAmountTotal.WithLabelValues(currency, status).Add(amount)
}

func (m *TopUpMetrics) RecordTopUpCreated(payCurrency string) {
	m.TopUpsCreatedTotal.WithLabelValues(payCurrency).Inc()
}
