// Package metrics defines the prometheus instruments for the credential
// vault. Labels never carry tokens, codes, or other secret material.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OAuthExchangesTotal tracks authorization-code exchanges by platform and outcome.
	// Outcomes: success, exchange_error, transport_error.
	OAuthExchangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oauth_exchanges_total",
			Help: "Authorization-code exchanges by platform and outcome",
		},
		[]string{"platform", "outcome"},
	)

	// OAuthExchangeDuration tracks token-endpoint latency in seconds.
	OAuthExchangeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "oauth_exchange_duration_seconds",
			Help:    "Token endpoint round-trip duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"platform"},
	)

	// CredentialReadsTotal tracks vault reads by platform and result.
	// Results: ok, not_connected, decrypt_failed, error. A rising
	// decrypt_failed rate after a deploy means the encryption key changed
	// under stored credentials.
	CredentialReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credential_reads_total",
			Help: "Credential vault reads by platform and result",
		},
		[]string{"platform", "result"},
	)

	// CredentialWritesTotal tracks successful credential upserts by platform.
	CredentialWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credential_writes_total",
			Help: "Successful credential upserts by platform",
		},
		[]string{"platform"},
	)
)
