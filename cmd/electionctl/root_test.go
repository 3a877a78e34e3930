// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/election"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/settings"
	"github.com/danielhkuo/quickly-vote/testutil"
)

// run executes electionctl against conn and returns its output
func run(t *testing.T, conn *sql.DB, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a := newApp(&out)
	a.connect = func(ctx context.Context, envFile string) (*election.Service, func(), error) {
		return election.New(conn, db.SQLite, nil), func() {}, nil
	}
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestStatus(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	out, err := run(t, conn, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Voting is open (1st election cycle)")

	out, err = run(t, conn, "status", "-o", "json")
	require.NoError(t, err)
	var s settings.Settings
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, models.StatusOpen, s.VotingStatus)
	assert.Equal(t, 1, s.ElectionCycle)
}

func TestInvalidOutput(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	_, err := run(t, conn, "status", "-o", "yaml")
	assert.ErrorContains(t, err, "invalid --output")
}

func TestCloseAndNewCycle(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cand := testutil.CreateTestCandidate(t, conn, "", "Alice Kila", "Lae")
	testutil.InsertTestBallot(t, conn, testutil.CreateTestVoter(t, conn, "v1", "Lae"), map[string]int{cand: 1})

	out, err := run(t, conn, "close")
	require.NoError(t, err)
	assert.Contains(t, out, "Voting is closed")

	out, err = run(t, conn, "close")
	require.NoError(t, err)
	assert.Contains(t, out, "Voting already closed.")

	_, err = run(t, conn, "open")
	assert.Error(t, err, "reopening without a new cycle must fail")

	_, err = run(t, conn, "new-cycle")
	assert.ErrorContains(t, err, "--yes")
	assert.Equal(t, 1, testutil.CountRows(t, conn, "ballots", ""))

	out, err = run(t, conn, "new-cycle", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Voting is open (2nd election cycle)")
	assert.Zero(t, testutil.CountRows(t, conn, "ballots", ""))

	// CLI actions are attributed in the audit trail
	out, err = run(t, conn, "audit", "-n", "5")
	require.NoError(t, err)
	assert.Contains(t, out, models.ActionElectionCycleStarted)
	assert.Contains(t, out, models.ActionVotingStatusChanged)
	assert.Contains(t, out, "electionctl")
}

func TestLeaderboard(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	a := testutil.CreateTestCandidate(t, conn, "a", "Candidate A", "Lae")
	b := testutil.CreateTestCandidate(t, conn, "b", "Candidate B", "Lae")
	testutil.CreateTestCandidate(t, conn, "c", "Candidate C", "Goroka")
	testutil.InsertTestBallot(t, conn, testutil.CreateTestVoter(t, conn, "v1", "Lae"), map[string]int{a: 1, b: 2})

	out, err := run(t, conn, "leaderboard", "Lae")
	require.NoError(t, err)
	assert.Contains(t, out, "Lae: 1 ballots, voting open")
	assert.Contains(t, out, "1st")
	assert.Contains(t, out, "Candidate A")
	assert.NotContains(t, out, "Winner")

	out, err = run(t, conn, "leaderboard", "Lae", "-o", "json")
	require.NoError(t, err)
	var board models.Leaderboard
	require.NoError(t, json.Unmarshal([]byte(out), &board))
	require.Len(t, board.Rankings, 2)
	assert.Equal(t, 3, board.Rankings[0].Points)
	assert.Equal(t, 2, board.Rankings[1].Points)

	_, err = run(t, conn, "close")
	require.NoError(t, err)

	out, err = run(t, conn, "report")
	require.NoError(t, err)
	assert.Contains(t, out, "Goroka")
	assert.Contains(t, out, "Winner: Candidate A (a)")
	assert.Contains(t, out, "2 districts, 1 ballots")
}
