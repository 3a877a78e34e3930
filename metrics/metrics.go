// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics holds the Prometheus collectors for the election API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups every collector. Each instance owns its registry so tests
// can create as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	BallotsAccepted    prometheus.Counter
	BallotsRejected    *prometheus.CounterVec
	LeaderboardQueries prometheus.Counter
	StatusTransitions  *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		BallotsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "election",
			Name:      "ballots_accepted_total",
			Help:      "Ballots committed to the vote store.",
		}),
		BallotsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "election",
			Name:      "ballots_rejected_total",
			Help:      "Ballot submissions rejected, by reason.",
		}, []string{"reason"}),
		LeaderboardQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "election",
			Name:      "leaderboard_queries_total",
			Help:      "District leaderboards computed.",
		}),
		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "election",
			Name:      "voting_status_transitions_total",
			Help:      "Voting window transitions, by destination status.",
		}, []string{"to"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "election",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by route pattern and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"pattern", "code"}),
	}

	m.Registry.MustRegister(
		m.BallotsAccepted,
		m.BallotsRejected,
		m.LeaderboardQueries,
		m.StatusTransitions,
		m.RequestDuration,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
