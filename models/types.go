// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Voting status constants
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// User role constants
const (
	RoleVoter = "voter"
	RoleAdmin = "admin"
)

// Preference ranks and the points each one is worth
const (
	RankFirst  = 1
	RankSecond = 2
	RankThird  = 3

	MaxRank = RankThird
)

// Audit actions
const (
	ActionBallotSubmitted      = "ballot_submitted"
	ActionVotingStatusChanged  = "voting_status_changed"
	ActionElectionCycleStarted = "election_cycle_started"
	ActionVoterRegistered      = "voter_registered"
	ActionCandidateCreated     = "candidate_created"
	ActionCandidateDeleted     = "candidate_deleted"
)

// RankPoints returns the positional points for a preference rank (3/2/1).
// Ranks outside 1..3 are worth nothing.
func RankPoints(rank int) int {
	switch rank {
	case RankFirst:
		return 3
	case RankSecond:
		return 2
	case RankThird:
		return 1
	}
	return 0
}

// Request types

// PreferenceEntry is one (candidate, rank) pair inside a submitted ballot.
type PreferenceEntry struct {
	CandidateID string `json:"candidate_id"`
	Rank        int    `json:"rank"`
}

type SubmitBallotRequest struct {
	Preferences []PreferenceEntry `json:"preferences"`
}

type SetVotingStatusRequest struct {
	Status string `json:"status"`
}

type RegisterVoterRequest struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Province string `json:"province"`
	District string `json:"district"`
	Role     string `json:"role"`
}

type CreateCandidateRequest struct {
	Name     string `json:"name"`
	Party    string `json:"party"`
	Province string `json:"province"`
	District string `json:"district"`
	Bio      string `json:"bio"`
}

// Response types

type SubmitBallotResponse struct {
	BallotID string `json:"ballot_id"`
	Message  string `json:"message"`
}

type HasVotedResponse struct {
	VoterID  string `json:"voter_id"`
	HasVoted bool   `json:"has_voted"`
}

type VotingStatusResponse struct {
	Status        string `json:"status"`
	ElectionCycle int    `json:"election_cycle"`
}

type CreatedResponse struct {
	ID string `json:"id"`
}

// Domain types

type Voter struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Province  string    `json:"province"`
	District  string    `json:"district"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type Candidate struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Party     string    `json:"party"`
	Province  string    `json:"province"`
	District  string    `json:"district"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Vote is a persisted preference entry.
type Vote struct {
	ID          string    `json:"id"`
	BallotID    string    `json:"ballot_id"`
	VoterID     string    `json:"-"` // Never expose in JSON
	CandidateID string    `json:"candidate_id"`
	Rank        int       `json:"rank"`
	Timestamp   time.Time `json:"timestamp"`
}

// DistrictSnapshot is a district's roster, its preference entries and its
// ballot count, all read in one transaction.
type DistrictSnapshot struct {
	Roster      []Candidate
	Entries     []Vote
	BallotCount int
}

// BallotMeta carries request context recorded alongside a ballot.
type BallotMeta struct {
	IPHash    string
	UserAgent string
}

// Actor identifies who performed an administrative action, for the audit log.
type Actor struct {
	UserID string
	IPHash string
}

// Tally types

// CandidateTally is the derived aggregate for one candidate. It is never persisted.
type CandidateTally struct {
	CandidateID    string `json:"candidate_id"`
	Name           string `json:"name"`
	Party          string `json:"party"`
	FirstPrefCount int    `json:"first_pref_count"`
	Points         int    `json:"points"`
	TotalVotes     int    `json:"total_votes"`
	Rank           int    `json:"rank,omitempty"` // 1-indexed, set when ranked
}

type Leaderboard struct {
	District       string           `json:"district"`
	Status         string           `json:"status"`
	Rankings       []CandidateTally `json:"rankings"`
	WinnerDeclared bool             `json:"winner_declared"`
	Winner         *string          `json:"winner"`
	BallotCount    int              `json:"ballot_count"`
	ComputedAt     time.Time        `json:"computed_at"`
}

type AuditEntry struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"user_id,omitempty"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	IPHash    *string   `json:"-"` // Never expose in JSON
	Timestamp time.Time `json:"timestamp"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
