// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the election database and creates its schema.

	conn, err := db.Open(ctx, db.SQLite, "file:election.db")

Open pings the database, creates every table with IF NOT EXISTS and seeds
missing system settings, so it is safe to run on every start. SQLite
connections get foreign keys, a busy timeout and WAL; the pool is limited
to one connection.

# Tables

	users 1──* ballots 1──* votes *──1 candidates
	system_settings (voting_status, election_cycle, ...)
	audit_log

ballots.voter_id is unique and votes carries UNIQUE (voter_id, preference),
so the database enforces one ballot per voter. Candidates referenced by a
vote cannot be deleted.

IsUniqueViolation and IsForeignKeyViolation classify constraint errors from
either driver.
*/
package db
