// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package tally aggregates preference entries into per-candidate totals and
// orders them. A first preference is worth 3 points, a second 2 and a third 1.
package tally

import (
	"context"
	"fmt"
	"sort"

	"github.com/danielhkuo/quickly-vote/models"
)

// Reader supplies a consistent view of one district. *store.Store implements it.
type Reader interface {
	DistrictSnapshot(ctx context.Context, district string) (models.DistrictSnapshot, error)
}

// Result is a district tally and the number of ballots it was computed from.
type Result struct {
	Candidates map[string]models.CandidateTally
	Ballots    int
}

// Tally computes per-candidate aggregates for a district from committed
// preference entries. Nothing is cached; every call reads the store.
func Tally(ctx context.Context, r Reader, district string) (Result, error) {
	snap, err := r.DistrictSnapshot(ctx, district)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read district %s: %w", district, err)
	}
	return Result{
		Candidates: Summarize(snap.Roster, snap.Entries),
		Ballots:    snap.BallotCount,
	}, nil
}

// Summarize aggregates entries over the roster. Every roster candidate is
// present, zero-filled when nobody ranked them. Entries for candidates outside
// the roster are ignored.
func Summarize(roster []models.Candidate, entries []models.Vote) map[string]models.CandidateTally {
	tallies := make(map[string]models.CandidateTally, len(roster))
	for _, c := range roster {
		tallies[c.ID] = models.CandidateTally{
			CandidateID: c.ID,
			Name:        c.Name,
			Party:       c.Party,
		}
	}

	for _, e := range entries {
		t, ok := tallies[e.CandidateID]
		if !ok {
			continue
		}
		t.TotalVotes++
		if e.Rank == models.RankFirst {
			t.FirstPrefCount++
		}
		t.Points += models.RankPoints(e.Rank)
		tallies[e.CandidateID] = t
	}

	return tallies
}

// Rank orders tallies and assigns 1-indexed ranks.
//
// Order: points descending, then first preferences descending, then candidate
// ID ascending. Roster order is also candidate ID ascending, so when nobody
// has voted the first roster candidate comes first.
func Rank(tallies map[string]models.CandidateTally) []models.CandidateTally {
	ranked := make([]models.CandidateTally, 0, len(tallies))
	for _, t := range tallies {
		ranked = append(ranked, t)
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]

		if a.Points != b.Points {
			return a.Points > b.Points
		}

		if a.FirstPrefCount != b.FirstPrefCount {
			return a.FirstPrefCount > b.FirstPrefCount
		}

		// Stable tie-breaking by candidate ID (ascending)
		return a.CandidateID < b.CandidateID
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
