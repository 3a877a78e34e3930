// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the durable record of ballots.

# Commit

	ballotID, err := st.Commit(ctx, voterID, entries, meta)

Commit runs in one transaction: it re-reads voting_status (FOR SHARE on
PostgreSQL), inserts the ballot row, every preference entry and the audit
row, then commits. Any failure rolls back everything. A unique violation
on ballots.voter_id or votes (voter_id, preference) is ErrAlreadyVoted;
other driver failures are ErrStorageUnavailable. The store never retries.

# Reads

DistrictSnapshot returns a district's roster and its entries from the same
read transaction. Rosters are ordered by candidate ID.
*/
package store
