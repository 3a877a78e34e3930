// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-vote/models"
)

func roster(ids ...string) []models.Candidate {
	out := make([]models.Candidate, len(ids))
	for i, id := range ids {
		out[i] = models.Candidate{ID: id, Name: "Candidate " + id}
	}
	return out
}

func vote(voter, candidate string, rank int) models.Vote {
	return models.Vote{VoterID: voter, CandidateID: candidate, Rank: rank}
}

func TestSummarize_ThreeBallots(t *testing.T) {
	entries := []models.Vote{
		vote("v1", "A", 1), vote("v1", "B", 2), vote("v1", "C", 3),
		vote("v2", "A", 1),
		vote("v3", "B", 1), vote("v3", "A", 2),
	}

	tallies := Summarize(roster("A", "B", "C"), entries)

	expected := map[string][3]int{ // firstPref, points, entries
		"A": {2, 8, 3},
		"B": {1, 5, 2},
		"C": {0, 1, 1},
	}
	for id, exp := range expected {
		got := tallies[id]
		assert.Equal(t, exp[0], got.FirstPrefCount, "first prefs for %s", id)
		assert.Equal(t, exp[1], got.Points, "points for %s", id)
		assert.Equal(t, exp[2], got.TotalVotes, "entries for %s", id)
	}

	ranked := Rank(tallies)
	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"A", "B", "C"}, ids(ranked))
	assert.Equal(t, []int{1, 2, 3}, []int{ranked[0].Rank, ranked[1].Rank, ranked[2].Rank})
}

func TestSummarize_ZeroFillAndUnknown(t *testing.T) {
	tallies := Summarize(roster("A", "B"), []models.Vote{
		vote("v1", "A", 2),
		vote("v1", "ghost", 1),
	})

	require.Len(t, tallies, 2)
	assert.Equal(t, models.CandidateTally{CandidateID: "B", Name: "Candidate B"}, tallies["B"])
	assert.Equal(t, 2, tallies["A"].Points)
	assert.Zero(t, tallies["A"].FirstPrefCount)
}

func TestRank_TieBreaks(t *testing.T) {
	t.Run("first preferences break a points tie", func(t *testing.T) {
		// X: 3 (one first), Y: 2+1 = 3 (no first)
		tallies := Summarize(roster("X", "Y"), []models.Vote{
			vote("v1", "X", 1),
			vote("v2", "Y", 2), vote("v3", "Y", 3),
		})
		assert.Equal(t, []string{"X", "Y"}, ids(Rank(tallies)))
	})

	t.Run("candidate ID breaks a full tie", func(t *testing.T) {
		tallies := Summarize(roster("m", "b", "z"), []models.Vote{
			vote("v1", "z", 1), vote("v2", "b", 1), vote("v3", "m", 1),
		})
		assert.Equal(t, []string{"b", "m", "z"}, ids(Rank(tallies)))
	})

	t.Run("no ballots ranks roster order", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b", "c"}, ids(Rank(Summarize(roster("c", "a", "b"), nil))))
	})

	t.Run("empty roster", func(t *testing.T) {
		assert.Empty(t, Rank(Summarize(nil, nil)))
	})
}

func TestRank_Deterministic(t *testing.T) {
	tallies := Summarize(roster("a", "b", "c", "d", "e"), []models.Vote{
		vote("v1", "c", 1), vote("v1", "a", 2),
		vote("v2", "e", 1), vote("v2", "d", 2),
	})
	first := ids(Rank(tallies))
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, ids(Rank(tallies)))
	}
}

type fakeReader struct {
	snap models.DistrictSnapshot
	err  error
}

func (f fakeReader) DistrictSnapshot(context.Context, string) (models.DistrictSnapshot, error) {
	return f.snap, f.err
}

func TestTally(t *testing.T) {
	got, err := Tally(context.Background(), fakeReader{snap: models.DistrictSnapshot{
		Roster:      roster("A", "B"),
		Entries:     []models.Vote{vote("v1", "A", 1), vote("v1", "B", 2)},
		BallotCount: 1,
	}}, "Lae")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Candidates["A"].Points)
	assert.Equal(t, 2, got.Candidates["B"].Points)
	assert.Equal(t, 1, got.Ballots)

	_, err = Tally(context.Background(), fakeReader{err: errors.New("boom")}, "Lae")
	assert.Error(t, err)
}

func ids(ts []models.CandidateTally) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.CandidateID
	}
	return out
}
