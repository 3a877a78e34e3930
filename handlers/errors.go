// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-vote/ballot"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/settings"
	"github.com/danielhkuo/quickly-vote/store"
	"github.com/danielhkuo/quickly-vote/window"
)

// statusFor maps an engine error onto an HTTP status. Client errors carry
// their message to the caller; everything else gets a generic one.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ballot.ErrMalformedBallot),
		errors.Is(err, store.ErrEmptyBallot),
		errors.Is(err, ballot.ErrCrossDistrictCandidate),
		errors.Is(err, ballot.ErrUnknownCandidate),
		errors.Is(err, settings.ErrInvalidStatus):
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, ballot.ErrUnknownVoter),
		errors.Is(err, store.ErrVoterNotFound),
		errors.Is(err, store.ErrCandidateNotFound):
		return http.StatusNotFound, err.Error()

	case errors.Is(err, store.ErrAlreadyVoted):
		return http.StatusConflict, "Voter has already voted"

	case errors.Is(err, store.ErrVotingClosed):
		return http.StatusForbidden, "Voting is closed"

	case errors.Is(err, window.ErrReopenForbidden),
		errors.Is(err, window.ErrCycleInProgress),
		errors.Is(err, window.ErrStatusConflict),
		errors.Is(err, store.ErrCandidateHasVotes),
		errors.Is(err, store.ErrUsernameTaken):
		return http.StatusConflict, err.Error()

	case errors.Is(err, store.ErrStorageUnavailable),
		errors.Is(err, window.ErrStorageFailure),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "Storage unavailable, retry later"
	}
	return http.StatusInternalServerError, "Internal error"
}

// writeError logs server-side failures and writes the mapped error response
func writeError(w http.ResponseWriter, op string, err error) {
	code, msg := statusFor(err)
	if code >= http.StatusInternalServerError {
		slog.Error(op+" failed", "error", err)
	}
	middleware.ErrorResponse(w, code, msg)
}
