// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/election"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
)

// AdminHandler serves the endpoints behind the admin key.
// The router applies middleware.RequireAdminKey to every route here.
type AdminHandler struct {
	svc *election.Service
	cfg cliparse.Config
}

func NewAdminHandler(svc *election.Service, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{svc: svc, cfg: cfg}
}

// actor identifies the admin caller in the audit log
func (h *AdminHandler) actor(r *http.Request) models.Actor {
	return models.Actor{
		UserID: auth.AdminScope,
		IPHash: auth.HashIP(middleware.GetClientIP(r), h.cfg.IPHashSalt),
	}
}

// SetVotingStatus handles PUT /voting-status
func (h *AdminHandler) SetVotingStatus(w http.ResponseWriter, r *http.Request) {
	var req models.SetVotingStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Status == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "status is required")
		return
	}

	if _, err := h.svc.SetVotingStatus(r.Context(), req.Status, h.actor(r)); err != nil {
		writeError(w, "set voting status", err)
		return
	}

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

// StartNewCycle handles POST /election-cycles
func (h *AdminHandler) StartNewCycle(w http.ResponseWriter, r *http.Request) {
	cycle, err := h.svc.StartNewCycle(r.Context(), h.actor(r))
	if err != nil {
		writeError(w, "start election cycle", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.VotingStatusResponse{
		Status:        models.StatusOpen,
		ElectionCycle: cycle,
	})
}

// RegisterVoter handles POST /voters
func (h *AdminHandler) RegisterVoter(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.District = strings.TrimSpace(req.District)
	if req.Username == "" || req.District == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username and district are required")
		return
	}
	if req.Role != "" && req.Role != models.RoleVoter && req.Role != models.RoleAdmin {
		middleware.ErrorResponse(w, http.StatusBadRequest, "role must be 'voter' or 'admin'")
		return
	}

	id, err := h.svc.RegisterVoter(r.Context(), req, h.actor(r))
	if err != nil {
		writeError(w, "register voter", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreatedResponse{ID: id})
}

// CreateCandidate handles POST /candidates
func (h *AdminHandler) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.District = strings.TrimSpace(req.District)
	if req.Name == "" || req.District == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name and district are required")
		return
	}

	id, err := h.svc.CreateCandidate(r.Context(), req, h.actor(r))
	if err != nil {
		writeError(w, "create candidate", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreatedResponse{ID: id})
}

// DeleteCandidate handles DELETE /candidates/{id}
func (h *AdminHandler) DeleteCandidate(w http.ResponseWriter, r *http.Request) {
	candidateID := r.PathValue("id")
	if candidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate id is required")
		return
	}

	if err := h.svc.DeleteCandidate(r.Context(), candidateID, h.actor(r)); err != nil {
		writeError(w, "delete candidate", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetAuditLog handles GET /audit?limit=N
func (h *AdminHandler) GetAuditLog(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 1000 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be between 1 and 1000")
			return
		}
		limit = n
	}

	entries, err := h.svc.AuditLog(r.Context(), limit)
	if err != nil {
		writeError(w, "audit log", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, entries)
}
