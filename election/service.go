// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package election wires the engine together behind one service.
package election

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/danielhkuo/quickly-vote/audit"
	"github.com/danielhkuo/quickly-vote/ballot"
	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/metrics"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/results"
	"github.com/danielhkuo/quickly-vote/settings"
	"github.com/danielhkuo/quickly-vote/store"
	"github.com/danielhkuo/quickly-vote/window"
)

// Service exposes the engine's caller-facing operations.
type Service struct {
	store     *store.Store
	window    *window.Controller
	publisher *results.Publisher
	metrics   *metrics.Metrics
}

// New wires a Service over an open database. m may be nil.
func New(conn *sql.DB, dialect db.Dialect, m *metrics.Metrics) *Service {
	st := store.New(conn, dialect)
	ctrl := window.NewController(conn, dialect)
	return &Service{
		store:     st,
		window:    ctrl,
		publisher: results.NewPublisher(st, ctrl),
		metrics:   m,
	}
}

// SubmitBallot validates and commits a voter's ballot, returning the ballot ID.
func (s *Service) SubmitBallot(ctx context.Context, voterID string, entries []models.PreferenceEntry, meta models.BallotMeta) (string, error) {
	voterID = strings.TrimSpace(voterID)

	ballotID, err := s.submit(ctx, voterID, entries, meta)
	if err != nil {
		if s.metrics != nil {
			s.metrics.BallotsRejected.WithLabelValues(RejectionReason(err)).Inc()
		}
		return "", err
	}

	if s.metrics != nil {
		s.metrics.BallotsAccepted.Inc()
	}
	slog.Info("ballot submitted", "voter_id", voterID, "ballot_id", ballotID, "preferences", len(entries))
	return ballotID, nil
}

func (s *Service) submit(ctx context.Context, voterID string, entries []models.PreferenceEntry, meta models.BallotMeta) (string, error) {
	// Fast path only; Commit re-reads the status inside its transaction.
	status, err := s.window.CurrentStatus(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", store.ErrStorageUnavailable, err)
	}
	if status != models.StatusOpen {
		return "", store.ErrVotingClosed
	}

	if err := ballot.Validate(ctx, s.store, voterID, entries); err != nil {
		return "", err
	}

	return s.store.Commit(ctx, voterID, entries, meta)
}

// RejectionReason maps a submission error to a short metrics label
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, ballot.ErrMalformedBallot), errors.Is(err, store.ErrEmptyBallot):
		return "malformed"
	case errors.Is(err, ballot.ErrCrossDistrictCandidate):
		return "cross_district"
	case errors.Is(err, store.ErrAlreadyVoted):
		return "already_voted"
	case errors.Is(err, ballot.ErrUnknownVoter), errors.Is(err, ballot.ErrUnknownCandidate),
		errors.Is(err, store.ErrCandidateNotFound):
		return "unknown_reference"
	case errors.Is(err, store.ErrVotingClosed):
		return "voting_closed"
	case errors.Is(err, store.ErrStorageUnavailable):
		return "storage_unavailable"
	}
	return "other"
}

// HasVoted reports whether the voter has a committed ballot
func (s *Service) HasVoted(ctx context.Context, voterID string) (bool, error) {
	return s.store.HasVoted(ctx, strings.TrimSpace(voterID))
}

// GetLeaderboard returns the ranked results for a district
func (s *Service) GetLeaderboard(ctx context.Context, district string) (models.Leaderboard, error) {
	board, err := s.publisher.Publish(ctx, strings.TrimSpace(district))
	if err != nil {
		return models.Leaderboard{}, err
	}
	if s.metrics != nil {
		s.metrics.LeaderboardQueries.Inc()
	}
	return board, nil
}

// GetAllLeaderboards returns results for every district with candidates
func (s *Service) GetAllLeaderboards(ctx context.Context) ([]models.Leaderboard, error) {
	boards, err := s.publisher.PublishAll(ctx)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.LeaderboardQueries.Add(float64(len(boards)))
	}
	return boards, nil
}

// GetVotingStatus returns the persisted voting status
func (s *Service) GetVotingStatus(ctx context.Context) (string, error) {
	return s.window.CurrentStatus(ctx)
}

// SetVotingStatus transitions the voting window. It reports whether anything changed.
func (s *Service) SetVotingStatus(ctx context.Context, status string, actor models.Actor) (bool, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	changed, err := s.window.SetStatus(ctx, status, actor)
	if err != nil {
		return false, err
	}
	if changed && s.metrics != nil {
		s.metrics.StatusTransitions.WithLabelValues(status).Inc()
	}
	return changed, nil
}

// StartNewCycle clears the closed cycle's ballots and reopens voting
func (s *Service) StartNewCycle(ctx context.Context, actor models.Actor) (int, error) {
	cycle, err := s.window.StartNewCycle(ctx, actor)
	if err != nil {
		return 0, err
	}
	if s.metrics != nil {
		s.metrics.StatusTransitions.WithLabelValues(models.StatusOpen).Inc()
	}
	return cycle, nil
}

// Settings returns the typed system settings
func (s *Service) Settings(ctx context.Context) (settings.Settings, error) {
	cfg, err := settings.Load(ctx, s.store.DB())
	if err != nil {
		return settings.Settings{}, fmt.Errorf("%w: %w", store.ErrStorageUnavailable, err)
	}
	if cfg.VotingStatus == "" {
		cfg.VotingStatus = models.StatusOpen
	}
	return cfg, nil
}

// AuditLog returns the most recent audit entries
func (s *Service) AuditLog(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	entries, err := audit.List(ctx, s.store.DB(), limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrStorageUnavailable, err)
	}
	return entries, nil
}

// RegisterVoter adds a voter to the electoral roll
func (s *Service) RegisterVoter(ctx context.Context, req models.RegisterVoterRequest, actor models.Actor) (string, error) {
	id, err := s.store.CreateVoter(ctx, req, actor)
	if err != nil {
		return "", err
	}
	slog.Info("voter registered", "voter_id", id, "district", req.District)
	return id, nil
}

// CreateCandidate adds a candidate to a district roster
func (s *Service) CreateCandidate(ctx context.Context, req models.CreateCandidateRequest, actor models.Actor) (string, error) {
	id, err := s.store.CreateCandidate(ctx, req, actor)
	if err != nil {
		return "", err
	}
	slog.Info("candidate created", "candidate_id", id, "district", req.District)
	return id, nil
}

// DeleteCandidate removes a candidate nobody has ranked
func (s *Service) DeleteCandidate(ctx context.Context, candidateID string, actor models.Actor) error {
	if err := s.store.DeleteCandidate(ctx, candidateID, actor); err != nil {
		return err
	}
	slog.Info("candidate deleted", "candidate_id", candidateID)
	return nil
}
