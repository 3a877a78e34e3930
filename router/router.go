// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/election"
	"github.com/danielhkuo/quickly-vote/handlers"
	"github.com/danielhkuo/quickly-vote/metrics"
	"github.com/danielhkuo/quickly-vote/middleware"
)

// NewRouter registers every route. m may be nil, in which case /metrics is
// not served and request latency is not recorded.
func NewRouter(svc *election.Service, cfg cliparse.Config, m *metrics.Metrics) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	votingHandler := handlers.NewVotingHandler(svc, cfg)
	resultsHandler := handlers.NewResultsHandler(svc, cfg)
	adminHandler := handlers.NewAdminHandler(svc, cfg)

	handle := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithMetrics(m, pattern, middleware.WithLogging(h)))
	}
	admin := func(pattern string, h http.HandlerFunc) {
		handle(pattern, middleware.RequireAdminKey(cfg.AdminKeySalt, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Voting (voter identity is established upstream)
	handle("POST /voters/{id}/ballot", votingHandler.SubmitBallot)
	handle("GET /voters/{id}/has-voted", votingHandler.HasVoted)

	// Results
	handle("GET /districts/{district}/leaderboard", resultsHandler.GetLeaderboard)
	handle("GET /voting-status", resultsHandler.GetVotingStatus)
	admin("GET /leaderboards", resultsHandler.GetAllLeaderboards)

	// Administration
	admin("PUT /voting-status", adminHandler.SetVotingStatus)
	admin("POST /election-cycles", adminHandler.StartNewCycle)
	admin("POST /voters", adminHandler.RegisterVoter)
	admin("POST /candidates", adminHandler.CreateCandidate)
	admin("DELETE /candidates/{id}", adminHandler.DeleteCandidate)
	admin("GET /audit", adminHandler.GetAuditLog)

	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-vote API v1"))
	})

	return mux
}
