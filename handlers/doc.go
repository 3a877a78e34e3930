// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP handlers for the election API.

# Handler Types

Each handler is a struct holding the election service and config:

  - VotingHandler: ballot submission and has-voted checks
  - ResultsHandler: district leaderboards and the voting status
  - AdminHandler: voting window, election cycles, roll and roster, audit log

	votingHandler := handlers.NewVotingHandler(svc, cfg)

# Voting

	POST /voters/{id}/ballot     → SubmitBallot
	GET  /voters/{id}/has-voted  → HasVoted

A ballot holds one to three preferences, each a candidate in the voter's
district with a distinct rank. Voter identity is established upstream of
this service; the path carries the voter ID.

# Error Mapping

Engine errors map to statuses in errors.go: malformed and cross-district
ballots are 400, unknown voters 404, a second ballot 409, a closed window
403 and storage failures 503.

# Administration

Admin routes require the X-Admin-Key header. Closing the window is final for
the current cycle; POST /election-cycles clears every ballot and reopens.
*/
package handlers
