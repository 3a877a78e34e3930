// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strings"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/election"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
)

// userAgentLimit caps what is stored per ballot
const userAgentLimit = 512

type VotingHandler struct {
	svc *election.Service
	cfg cliparse.Config
}

func NewVotingHandler(svc *election.Service, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{svc: svc, cfg: cfg}
}

// SubmitBallot handles POST /voters/{id}/ballot
func (h *VotingHandler) SubmitBallot(w http.ResponseWriter, r *http.Request) {
	voterID := r.PathValue("id")
	if voterID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter id is required")
		return
	}

	var req models.SubmitBallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	meta := models.BallotMeta{
		IPHash:    auth.HashIP(middleware.GetClientIP(r), h.cfg.IPHashSalt),
		UserAgent: truncate(r.UserAgent(), userAgentLimit),
	}

	ballotID, err := h.svc.SubmitBallot(r.Context(), voterID, req.Preferences, meta)
	if err != nil {
		writeError(w, "submit ballot", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitBallotResponse{
		BallotID: ballotID,
		Message:  "Ballot recorded",
	})
}

// HasVoted handles GET /voters/{id}/has-voted
func (h *VotingHandler) HasVoted(w http.ResponseWriter, r *http.Request) {
	voterID := strings.TrimSpace(r.PathValue("id"))
	if voterID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter id is required")
		return
	}

	voted, err := h.svc.HasVoted(r.Context(), voterID)
	if err != nil {
		writeError(w, "has voted", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.HasVotedResponse{
		VoterID:  voterID,
		HasVoted: voted,
	})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
