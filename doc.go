// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Vote API server.

Quickly Vote is the ballot engine of a district election: voters rank up to
three candidates standing in their district, and each district's leaderboard
is computed from the committed ballots (3 points for a first preference, 2
for a second, 1 for a third).

# Starting the Server

	DATABASE_URL=file:election.db ADMIN_KEY_SALT=... go run .

Or against PostgreSQL with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -admin-salt ...

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite DSN or PostgreSQL connection string
  - ADMIN_KEY_SALT (-admin-salt): secret for the admin key HMAC

Optional settings:

  - PORT (-p): server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - IP_HASH_SALT (-ip-salt): salt for hashed client IPs (default: admin salt)

Values may also come from a .env file (-env-file).

# Architecture

  - ballot, store, tally, window, results: the engine
  - election: the service callers use
  - handlers, router, middleware: HTTP surface
  - settings, audit, metrics: supporting state and observability
  - cmd/electionctl: operator CLI over the same service
*/
package main
