// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package ballot checks submitted ballots before they reach the vote store.
package ballot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/store"
)

// ErrDuplicateVoter is the validator's fast-path rejection of a voter who has
// already voted. It wraps store.ErrAlreadyVoted, so callers test only that.
var ErrDuplicateVoter = fmt.Errorf("duplicate voter: %w", store.ErrAlreadyVoted)

var (
	ErrMalformedBallot        = errors.New("malformed ballot")
	ErrCrossDistrictCandidate = errors.New("candidate is not standing in the voter's district")
	ErrUnknownVoter           = errors.New("unknown voter")
	ErrUnknownCandidate       = errors.New("unknown candidate")
)

// Lookup resolves the references a ballot makes. *store.Store implements it.
type Lookup interface {
	Voter(ctx context.Context, voterID string) (models.Voter, error)
	Candidate(ctx context.Context, candidateID string) (models.Candidate, error)
	HasVoted(ctx context.Context, voterID string) (bool, error)
}

// CheckStructure validates a ballot without touching storage: at least one
// entry, ranks in 1..3, no repeated rank and no repeated candidate.
func CheckStructure(entries []models.PreferenceEntry) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: at least one preference is required", ErrMalformedBallot)
	}
	if len(entries) > models.MaxRank {
		return fmt.Errorf("%w: at most %d preferences allowed, got %d", ErrMalformedBallot, models.MaxRank, len(entries))
	}

	seenRanks := make(map[int]bool, len(entries))
	seenCandidates := make(map[string]bool, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.CandidateID) == "" {
			return fmt.Errorf("%w: candidate_id is required", ErrMalformedBallot)
		}
		if e.Rank < models.RankFirst || e.Rank > models.MaxRank {
			return fmt.Errorf("%w: rank %d outside 1..%d", ErrMalformedBallot, e.Rank, models.MaxRank)
		}
		if seenRanks[e.Rank] {
			return fmt.Errorf("%w: rank %d used more than once", ErrMalformedBallot, e.Rank)
		}
		if seenCandidates[e.CandidateID] {
			return fmt.Errorf("%w: candidate %s ranked more than once", ErrMalformedBallot, e.CandidateID)
		}
		seenRanks[e.Rank] = true
		seenCandidates[e.CandidateID] = true
	}
	return nil
}

// Validate checks a submitted ballot before it is committed. It has no side
// effects. A voter with a committed ballot gets ErrDuplicateVoter whatever the
// new ballot contains. That check is a fast path only; the store's unique
// constraints remain authoritative.
func Validate(ctx context.Context, lookup Lookup, voterID string, entries []models.PreferenceEntry) error {
	voted, err := lookup.HasVoted(ctx, voterID)
	if err != nil {
		return err
	}
	if voted {
		return fmt.Errorf("%w: %s", ErrDuplicateVoter, voterID)
	}

	if err := CheckStructure(entries); err != nil {
		return err
	}

	voter, err := lookup.Voter(ctx, voterID)
	if errors.Is(err, store.ErrVoterNotFound) {
		return fmt.Errorf("%w: %s", ErrUnknownVoter, voterID)
	}
	if err != nil {
		return err
	}

	for _, e := range entries {
		candidate, err := lookup.Candidate(ctx, e.CandidateID)
		if errors.Is(err, store.ErrCandidateNotFound) {
			return fmt.Errorf("%w: %s", ErrUnknownCandidate, e.CandidateID)
		}
		if err != nil {
			return err
		}
		if candidate.District != voter.District {
			return fmt.Errorf("%w: %s stands in %s, voter is in %s",
				ErrCrossDistrictCandidate, candidate.Name, candidate.District, voter.District)
		}
	}

	return nil
}
