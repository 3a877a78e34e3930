// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-vote/audit"
	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/settings"
)

var (
	ErrAlreadyVoted       = errors.New("voter has already voted")
	ErrVotingClosed       = errors.New("voting is closed")
	ErrStorageUnavailable = errors.New("vote storage unavailable")
	ErrVoterNotFound      = errors.New("voter not found")
	ErrCandidateNotFound  = errors.New("candidate not found")
	ErrCandidateHasVotes  = errors.New("candidate has recorded votes")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmptyBallot        = errors.New("ballot has no preferences")
)

// Store is the durable home of voters, candidates and preference entries.
// One-ballot-per-voter is enforced by UNIQUE(ballots.voter_id) and
// UNIQUE(votes.voter_id, preference), not by application checks.
type Store struct {
	db      *sql.DB
	dialect db.Dialect
}

func New(conn *sql.DB, dialect db.Dialect) *Store {
	return &Store{db: conn, dialect: dialect}
}

// DB exposes the underlying handle for read-only collaborators
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect returns the SQL engine behind the store
func (s *Store) Dialect() db.Dialect {
	return s.dialect
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, op, err)
}

// Commit atomically records a voter's ballot. Either every entry is persisted
// together with the ballot row and its audit entry, or nothing is.
func (s *Store) Commit(ctx context.Context, voterID string, entries []models.PreferenceEntry, meta models.BallotMeta) (string, error) {
	if len(entries) == 0 {
		return "", ErrEmptyBallot
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", unavailable("begin transaction", err)
	}
	defer tx.Rollback()

	// Read inside the transaction on every submission; never cached.
	status, err := settings.VotingStatus(ctx, tx, s.dialect, true)
	if err != nil {
		return "", unavailable("read voting status", err)
	}
	if status != models.StatusOpen {
		return "", ErrVotingClosed
	}

	ballotID := auth.GenerateID()
	now := time.Now().UTC()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ballots (id, voter_id, submitted_at, ip_hash, user_agent)
		VALUES ($1, $2, $3, $4, $5)
	`, ballotID, voterID, now, nullString(meta.IPHash), nullString(meta.UserAgent))
	if err != nil {
		return "", s.classify("insert ballot", err)
	}

	for _, entry := range entries {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO votes (id, ballot_id, voter_id, candidate_id, preference, timestamp)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, auth.GenerateID(), ballotID, voterID, entry.CandidateID, entry.Rank, now)
		if err != nil {
			return "", s.classify("insert preference", err)
		}
	}

	_, err = audit.Record(ctx, tx, audit.Entry{
		UserID:  voterID,
		Action:  models.ActionBallotSubmitted,
		Details: fmt.Sprintf("ballot %s with %d preference(s)", ballotID, len(entries)),
		IPHash:  meta.IPHash,
	})
	if err != nil {
		return "", unavailable("record audit entry", err)
	}

	if err := tx.Commit(); err != nil {
		return "", s.classify("commit", err)
	}

	return ballotID, nil
}

// classify maps driver errors from the commit path onto the store's error taxonomy.
func (s *Store) classify(op string, err error) error {
	switch {
	case db.IsUniqueViolation(err):
		return ErrAlreadyVoted
	case db.IsForeignKeyViolation(err):
		// Validation resolves references first; a miss here means a concurrent delete.
		slog.Warn("ballot references vanished during commit", "op", op, "error", err)
		return fmt.Errorf("%w: %s", ErrCandidateNotFound, op)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return unavailable(op, err)
}

// HasVoted reports whether any preference entry exists for the voter
func (s *Store) HasVoted(ctx context.Context, voterID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM ballots WHERE voter_id = $1
		)
	`, voterID).Scan(&exists)
	if err != nil {
		return false, unavailable("check ballot", err)
	}
	return exists, nil
}

// Voter looks up a voter by ID
func (s *Store) Voter(ctx context.Context, voterID string) (models.Voter, error) {
	var v models.Voter
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, full_name, province, district, role, created_at
		FROM users
		WHERE id = $1
	`, voterID).Scan(&v.ID, &v.Username, &v.FullName, &v.Province, &v.District, &v.Role, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Voter{}, ErrVoterNotFound
	}
	if err != nil {
		return models.Voter{}, unavailable("query voter", err)
	}
	return v, nil
}

// Candidate looks up a candidate by ID
func (s *Store) Candidate(ctx context.Context, candidateID string) (models.Candidate, error) {
	var c models.Candidate
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, party, province, district, bio, created_at
		FROM candidates
		WHERE id = $1
	`, candidateID).Scan(&c.ID, &c.Name, &c.Party, &c.Province, &c.District, &c.Bio, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Candidate{}, ErrCandidateNotFound
	}
	if err != nil {
		return models.Candidate{}, unavailable("query candidate", err)
	}
	return c, nil
}

// CountBallots returns the number of ballots cast by voters of a district
func (s *Store) CountBallots(ctx context.Context, district string) (int, error) {
	return countBallots(ctx, s.db, district)
}

// Districts lists every district that has at least one candidate
func (s *Store) Districts(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT district FROM candidates ORDER BY district
	`)
	if err != nil {
		return nil, unavailable("query districts", err)
	}
	defer rows.Close()

	districts := []string{}
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, unavailable("scan district", err)
		}
		districts = append(districts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("read districts", err)
	}
	return districts, nil
}

// CreateVoter registers a voter. Registration proper lives outside the engine;
// this exists for administrators and fixtures.
func (s *Store) CreateVoter(ctx context.Context, req models.RegisterVoterRequest, actor models.Actor) (string, error) {
	role := req.Role
	if role == "" {
		role = models.RoleVoter
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", unavailable("begin transaction", err)
	}
	defer tx.Rollback()

	voterID := auth.GenerateID()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, username, full_name, province, district, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, voterID, strings.TrimSpace(req.Username), req.FullName, req.Province, req.District, role, time.Now().UTC())
	if err != nil {
		if db.IsUniqueViolation(err) {
			return "", ErrUsernameTaken
		}
		return "", unavailable("insert voter", err)
	}

	_, err = audit.Record(ctx, tx, audit.Entry{
		UserID:  actor.UserID,
		Action:  models.ActionVoterRegistered,
		Details: fmt.Sprintf("voter %s registered in %s", voterID, req.District),
		IPHash:  actor.IPHash,
	})
	if err != nil {
		return "", unavailable("record audit entry", err)
	}

	if err := tx.Commit(); err != nil {
		return "", unavailable("commit", err)
	}
	return voterID, nil
}

// CreateCandidate adds a candidate to a district roster
func (s *Store) CreateCandidate(ctx context.Context, req models.CreateCandidateRequest, actor models.Actor) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", unavailable("begin transaction", err)
	}
	defer tx.Rollback()

	candidateID := auth.GenerateID()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO candidates (id, name, party, province, district, bio, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, candidateID, req.Name, req.Party, req.Province, req.District, req.Bio, time.Now().UTC())
	if err != nil {
		return "", unavailable("insert candidate", err)
	}

	_, err = audit.Record(ctx, tx, audit.Entry{
		UserID:  actor.UserID,
		Action:  models.ActionCandidateCreated,
		Details: fmt.Sprintf("candidate %s (%s) added to %s", req.Name, req.Party, req.District),
		IPHash:  actor.IPHash,
	})
	if err != nil {
		return "", unavailable("record audit entry", err)
	}

	if err := tx.Commit(); err != nil {
		return "", unavailable("commit", err)
	}
	return candidateID, nil
}

// DeleteCandidate removes a candidate that no ballot references yet
func (s *Store) DeleteCandidate(ctx context.Context, candidateID string, actor models.Actor) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin transaction", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM candidates WHERE id = $1`, candidateID)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return ErrCandidateHasVotes
		}
		return unavailable("delete candidate", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable("delete candidate", err)
	}
	if n == 0 {
		return ErrCandidateNotFound
	}

	_, err = audit.Record(ctx, tx, audit.Entry{
		UserID:  actor.UserID,
		Action:  models.ActionCandidateDeleted,
		Details: fmt.Sprintf("candidate %s deleted", candidateID),
		IPHash:  actor.IPHash,
	})
	if err != nil {
		return unavailable("record audit entry", err)
	}

	if err := tx.Commit(); err != nil {
		return unavailable("commit", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
