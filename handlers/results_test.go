// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/testutil"
)

func TestGetLeaderboard(t *testing.T) {
	conn, svc, cfg := setupService(t)
	handler := NewResultsHandler(svc, cfg)

	a := testutil.CreateTestCandidate(t, conn, "a", "Candidate A", testDistrict)
	b := testutil.CreateTestCandidate(t, conn, "b", "Candidate B", testDistrict)
	c := testutil.CreateTestCandidate(t, conn, "c", "Candidate C", testDistrict)
	testutil.CreateTestCandidate(t, conn, "d", "Candidate D", "Lae")

	// A: 3+3+2 = 8 with two firsts, B: 2+3 = 5 with one first, C: 1
	testutil.InsertTestBallot(t, conn, testutil.CreateTestVoter(t, conn, "v1", testDistrict), map[string]int{a: 1, b: 2, c: 3})
	testutil.InsertTestBallot(t, conn, testutil.CreateTestVoter(t, conn, "v2", testDistrict), map[string]int{a: 1})
	testutil.InsertTestBallot(t, conn, testutil.CreateTestVoter(t, conn, "v3", testDistrict), map[string]int{b: 1, a: 2})

	get := func(t *testing.T) models.Leaderboard {
		t.Helper()
		req := httptest.NewRequest("GET", "/districts/"+url.PathEscape(testDistrict)+"/leaderboard", nil)
		req.SetPathValue("district", testDistrict)
		w := httptest.NewRecorder()

		handler.GetLeaderboard(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		var board models.Leaderboard
		testutil.AssertJSON(t, w, &board)
		return board
	}

	t.Run("open window has no winner", func(t *testing.T) {
		board := get(t)

		if board.WinnerDeclared || board.Winner != nil {
			t.Error("Expected no winner while voting is open")
		}
		if board.BallotCount != 3 {
			t.Errorf("Expected 3 ballots, got %d", board.BallotCount)
		}

		expected := []struct {
			id        string
			firstPref int
			points    int
		}{
			{a, 2, 8},
			{b, 1, 5},
			{c, 0, 1},
		}
		if len(board.Rankings) != len(expected) {
			t.Fatalf("Expected %d rankings, got %d", len(expected), len(board.Rankings))
		}
		for i, exp := range expected {
			got := board.Rankings[i]
			if got.CandidateID != exp.id || got.FirstPrefCount != exp.firstPref || got.Points != exp.points {
				t.Errorf("Rank %d: expected %s(%d,%d), got %s(%d,%d)",
					i+1, exp.id, exp.firstPref, exp.points, got.CandidateID, got.FirstPrefCount, got.Points)
			}
			if got.Rank != i+1 {
				t.Errorf("Expected rank %d, got %d", i+1, got.Rank)
			}
		}
	})

	t.Run("closed window declares winner", func(t *testing.T) {
		testutil.SetTestVotingStatus(t, conn, models.StatusClosed)

		board := get(t)

		if !board.WinnerDeclared {
			t.Fatal("Expected winner to be declared")
		}
		if board.Winner == nil || *board.Winner != a {
			t.Errorf("Expected winner %s, got %v", a, board.Winner)
		}
	})
}

func TestGetLeaderboard_EmptyDistrict(t *testing.T) {
	_, svc, cfg := setupService(t)
	handler := NewResultsHandler(svc, cfg)

	req := httptest.NewRequest("GET", "/districts/Nowhere/leaderboard", nil)
	req.SetPathValue("district", "Nowhere")
	w := httptest.NewRecorder()

	handler.GetLeaderboard(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var board models.Leaderboard
	testutil.AssertJSON(t, w, &board)
	if len(board.Rankings) != 0 {
		t.Errorf("Expected empty rankings, got %d", len(board.Rankings))
	}
}

func TestGetAllLeaderboards(t *testing.T) {
	conn, svc, cfg := setupService(t)
	handler := NewResultsHandler(svc, cfg)

	testutil.CreateTestCandidate(t, conn, "", "Candidate A", testDistrict)
	testutil.CreateTestCandidate(t, conn, "", "Candidate D", "Lae")

	req := testutil.MakeRequest("GET", "/leaderboards", nil, adminHeaders())
	w := httptest.NewRecorder()

	handler.GetAllLeaderboards(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var boards []models.Leaderboard
	testutil.AssertJSON(t, w, &boards)
	if len(boards) != 2 {
		t.Fatalf("Expected 2 leaderboards, got %d", len(boards))
	}
	if boards[0].District != "Lae" || boards[1].District != testDistrict {
		t.Errorf("Expected districts ordered by name, got %s, %s", boards[0].District, boards[1].District)
	}
}

func TestGetVotingStatus(t *testing.T) {
	_, svc, cfg := setupService(t)
	handler := NewResultsHandler(svc, cfg)

	w := httptest.NewRecorder()
	handler.GetVotingStatus(w, httptest.NewRequest("GET", "/voting-status", nil))

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.VotingStatusResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Status != models.StatusOpen {
		t.Errorf("Expected initial status open, got %s", resp.Status)
	}
	if resp.ElectionCycle != 1 {
		t.Errorf("Expected cycle 1, got %d", resp.ElectionCycle)
	}
}
