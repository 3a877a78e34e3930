// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Vote API.

	mux := router.NewRouter(svc, cfg, m)

# Endpoints

	GET  /health
	POST /voters/{id}/ballot              - Submit a ballot
	GET  /voters/{id}/has-voted           - Whether a ballot is recorded
	GET  /districts/{district}/leaderboard
	GET  /voting-status
	GET  /metrics                         - Prometheus

Admin (X-Admin-Key):

	GET    /leaderboards      - Every district
	PUT    /voting-status     - Close voting
	POST   /election-cycles   - Clear ballots and reopen
	POST   /voters
	POST   /candidates
	DELETE /candidates/{id}
	GET    /audit
*/
package router
