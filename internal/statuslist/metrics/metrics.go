// Package metrics holds the Prometheus collectors for issuance and revocation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Flow labels.
const (
	FlowIssue  = "issue"
	FlowRevoke = "revoke"
)

type Metrics struct {
	TokensIssued    prometheus.Counter
	TokensRevoked   prometheus.Counter
	RevokeRejected  *prometheus.CounterVec
	SigningFailures prometheus.Counter
	StorageFailures prometheus.Counter
	FlowLatency     *prometheus.HistogramVec
	JWKSPublished   prometheus.Counter
}

// New registers all collectors on reg; nil means the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		TokensIssued: f.NewCounter(prometheus.CounterOpts{
			Name: "statuslist_tokens_issued_total",
			Help: "Total number of status list tokens issued",
		}),
		TokensRevoked: f.NewCounter(prometheus.CounterOpts{
			Name: "statuslist_tokens_revoked_total",
			Help: "Total number of status list tokens rewritten as revoked",
		}),
		RevokeRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "statuslist_revoke_rejected_total",
			Help: "Revocation requests rejected before any side effect, by reason",
		}, []string{"reason"}),
		SigningFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "statuslist_signing_failures_total",
			Help: "Total number of signer failures",
		}),
		StorageFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "statuslist_storage_failures_total",
			Help: "Total number of object store write failures",
		}),
		FlowLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "statuslist_flow_duration_seconds",
			Help:    "Duration of issuance and revocation flows in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"flow", "outcome"}),
		JWKSPublished: f.NewCounter(prometheus.CounterOpts{
			Name: "statuslist_jwks_published_total",
			Help: "Total number of JWKS documents published",
		}),
	}
}

func (m *Metrics) IncrementIssued() {
	m.TokensIssued.Inc()
}

func (m *Metrics) IncrementRevoked() {
	m.TokensRevoked.Inc()
}

func (m *Metrics) IncrementRevokeRejected(reason string) {
	m.RevokeRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncrementSigningFailures() {
	m.SigningFailures.Inc()
}

func (m *Metrics) IncrementStorageFailures() {
	m.StorageFailures.Inc()
}

func (m *Metrics) IncrementJWKSPublished() {
	m.JWKSPublished.Inc()
}

// ObserveFlow records a flow duration. outcome is "ok" or "error".
func (m *Metrics) ObserveFlow(flow, outcome string, durationSeconds float64) {
	m.FlowLatency.WithLabelValues(flow, outcome).Observe(durationSeconds)
}
