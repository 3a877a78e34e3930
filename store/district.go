// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"

	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/models"
)

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// readOptions returns snapshot options for read-only work. Postgres gets a
// repeatable-read snapshot; SQLite transactions are already serialized.
func (s *Store) readOptions() *sql.TxOptions {
	if s.dialect == db.Postgres {
		return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}
	return nil
}

// CandidatesForDistrict returns the district roster in roster order (candidate ID ascending)
func (s *Store) CandidatesForDistrict(ctx context.Context, district string) ([]models.Candidate, error) {
	return candidatesForDistrict(ctx, s.db, district)
}

// EntriesForDistrict returns every preference entry cast for a candidate of the district
func (s *Store) EntriesForDistrict(ctx context.Context, district string) ([]models.Vote, error) {
	return entriesForDistrict(ctx, s.db, district)
}

// DistrictSnapshot reads the roster, its preference entries and the ballot
// count in one read transaction, so all three reflect the same set of
// committed ballots.
func (s *Store) DistrictSnapshot(ctx context.Context, district string) (models.DistrictSnapshot, error) {
	tx, err := s.db.BeginTx(ctx, s.readOptions())
	if err != nil {
		return models.DistrictSnapshot{}, unavailable("begin read transaction", err)
	}
	defer tx.Rollback()

	roster, err := candidatesForDistrict(ctx, tx, district)
	if err != nil {
		return models.DistrictSnapshot{}, err
	}

	entries, err := entriesForDistrict(ctx, tx, district)
	if err != nil {
		return models.DistrictSnapshot{}, err
	}

	ballots, err := countBallots(ctx, tx, district)
	if err != nil {
		return models.DistrictSnapshot{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.DistrictSnapshot{}, unavailable("end read transaction", err)
	}
	return models.DistrictSnapshot{Roster: roster, Entries: entries, BallotCount: ballots}, nil
}

func candidatesForDistrict(ctx context.Context, q querier, district string) ([]models.Candidate, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, party, province, district, bio, created_at
		FROM candidates
		WHERE district = $1
		ORDER BY id
	`, district)
	if err != nil {
		return nil, unavailable("query candidates", err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.Party, &c.Province, &c.District, &c.Bio, &c.CreatedAt); err != nil {
			return nil, unavailable("scan candidate", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("read candidates", err)
	}
	return candidates, nil
}

func entriesForDistrict(ctx context.Context, q querier, district string) ([]models.Vote, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT v.id, v.ballot_id, v.voter_id, v.candidate_id, v.preference, v.timestamp
		FROM votes v
		JOIN candidates c ON v.candidate_id = c.id
		WHERE c.district = $1
		ORDER BY v.candidate_id, v.preference
	`, district)
	if err != nil {
		return nil, unavailable("query votes", err)
	}
	defer rows.Close()

	votes := []models.Vote{}
	for rows.Next() {
		var v models.Vote
		if err := rows.Scan(&v.ID, &v.BallotID, &v.VoterID, &v.CandidateID, &v.Rank, &v.Timestamp); err != nil {
			return nil, unavailable("scan vote", err)
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("read votes", err)
	}
	return votes, nil
}

// countBallots counts the ballots cast by voters of a district
func countBallots(ctx context.Context, q querier, district string) (int, error) {
	var count int
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM ballots b
		JOIN users u ON b.voter_id = u.id
		WHERE u.district = $1
	`, district).Scan(&count)
	if err != nil {
		return 0, unavailable("count ballots", err)
	}
	return count, nil
}
