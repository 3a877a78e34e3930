// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strings"

	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/election"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
)

type ResultsHandler struct {
	svc *election.Service
	cfg cliparse.Config
}

func NewResultsHandler(svc *election.Service, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{svc: svc, cfg: cfg}
}

// GetLeaderboard handles GET /districts/{district}/leaderboard
func (h *ResultsHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	district := strings.TrimSpace(r.PathValue("district"))
	if district == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "district is required")
		return
	}

	board, err := h.svc.GetLeaderboard(r.Context(), district)
	if err != nil {
		writeError(w, "leaderboard", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, board)
}

// GetAllLeaderboards handles GET /leaderboards (admin)
func (h *ResultsHandler) GetAllLeaderboards(w http.ResponseWriter, r *http.Request) {
	boards, err := h.svc.GetAllLeaderboards(r.Context())
	if err != nil {
		writeError(w, "all leaderboards", err)
		return
	}
	if boards == nil {
		boards = []models.Leaderboard{}
	}

	middleware.JSONResponse(w, http.StatusOK, boards)
}

// GetVotingStatus handles GET /voting-status
func (h *ResultsHandler) GetVotingStatus(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Settings(r.Context())
	if err != nil {
		writeError(w, "voting status", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VotingStatusResponse{
		Status:        s.VotingStatus,
		ElectionCycle: s.ElectionCycle,
	})
}
