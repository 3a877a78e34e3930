// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package window controls the voting window. Voting starts open, closing is
// final for the cycle, and only a new election cycle reopens it.
package window

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/looplab/fsm"

	"github.com/danielhkuo/quickly-vote/audit"
	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/settings"
)

// Window events
const (
	EventClose    = "close"
	EventNewCycle = "new_cycle"
)

var (
	// ErrReopenForbidden is returned when reopening a closed window without starting a new cycle.
	ErrReopenForbidden = errors.New("closed voting window cannot be reopened; start a new election cycle")
	// ErrCycleInProgress is returned when a new cycle is requested while voting is still open.
	ErrCycleInProgress = errors.New("voting is still open; close it before starting a new cycle")
	// ErrStatusConflict is returned when another administrator changed the status concurrently.
	ErrStatusConflict = errors.New("voting status changed concurrently")
	// ErrStorageFailure wraps errors reading or writing the stored status.
	ErrStorageFailure = errors.New("voting status storage unavailable")
)

// Controller governs whether ballots may be accepted. State lives only in
// system_settings and is re-read on every call.
type Controller struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewController(conn *sql.DB, dialect db.Dialect) *Controller {
	return &Controller{db: conn, dialect: dialect}
}

// newMachine builds a state machine positioned at the stored status.
// closed is terminal within a cycle: the only way out is new_cycle.
func newMachine(current string) *fsm.FSM {
	return fsm.NewFSM(
		current,
		fsm.Events{
			{Name: EventClose, Src: []string{models.StatusOpen}, Dst: models.StatusClosed},
			{Name: EventNewCycle, Src: []string{models.StatusClosed}, Dst: models.StatusOpen},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				slog.Debug("voting window transition", "event", e.Event, "from", e.Src, "to", e.Dst)
			},
		},
	)
}

// CurrentStatus returns the persisted voting status
func (c *Controller) CurrentStatus(ctx context.Context) (string, error) {
	status, err := settings.VotingStatus(ctx, c.db, c.dialect, false)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	return status, nil
}

// SetStatus moves the window to status. It reports whether the stored state changed;
// requesting the current state is a no-op.
func (c *Controller) SetStatus(ctx context.Context, status string, actor models.Actor) (bool, error) {
	if !settings.ValidStatus(status) {
		return false, fmt.Errorf("%w: %q", settings.ErrInvalidStatus, status)
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	defer tx.Rollback()

	current, err := settings.VotingStatus(ctx, tx, c.dialect, false)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	if current == status {
		return false, nil
	}
	if status == models.StatusOpen {
		return false, ErrReopenForbidden
	}

	machine := newMachine(current)
	if err := machine.Event(ctx, EventClose); err != nil {
		return false, fmt.Errorf("close voting window: %w", err)
	}

	ok, err := settings.CompareAndSetStatus(ctx, tx, current, machine.Current())
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	if !ok {
		// Lost a race. Re-read: another admin may already have applied the same change.
		latest, err := settings.VotingStatus(ctx, tx, c.dialect, false)
		if err != nil {
			return false, fmt.Errorf("%w: %w", ErrStorageFailure, err)
		}
		if latest == status {
			return false, nil
		}
		return false, ErrStatusConflict
	}

	_, err = audit.Record(ctx, tx, audit.Entry{
		UserID:  actor.UserID,
		Action:  models.ActionVotingStatusChanged,
		Details: fmt.Sprintf("voting status changed from %s to %s", current, machine.Current()),
		IPHash:  actor.IPHash,
	})
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	slog.Info("voting status changed", "from", current, "to", machine.Current(), "actor", actor.UserID)
	return true, nil
}

// StartNewCycle clears every ballot of the finished cycle, increments
// election_cycle and reopens voting. Only allowed while the window is closed.
func (c *Controller) StartNewCycle(ctx context.Context, actor models.Actor) (int, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	defer tx.Rollback()

	current, err := settings.VotingStatus(ctx, tx, c.dialect, false)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	machine := newMachine(current)
	if !machine.Can(EventNewCycle) {
		return 0, ErrCycleInProgress
	}
	if err := machine.Event(ctx, EventNewCycle); err != nil {
		return 0, fmt.Errorf("start election cycle: %w", err)
	}

	cycle, err := settings.ElectionCycle(ctx, tx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	next := cycle + 1

	// votes reference ballots; delete children first so this works without cascades
	for _, stmt := range []string{`DELETE FROM votes`, `DELETE FROM ballots`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrStorageFailure, err)
		}
	}

	if err := settings.Set(ctx, tx, db.SettingElectionCycle, strconv.Itoa(next)); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	ok, err := settings.CompareAndSetStatus(ctx, tx, current, machine.Current())
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	if !ok {
		return 0, ErrStatusConflict
	}

	_, err = audit.Record(ctx, tx, audit.Entry{
		UserID:  actor.UserID,
		Action:  models.ActionElectionCycleStarted,
		Details: fmt.Sprintf("election cycle %d started; ballots of cycle %d cleared", next, cycle),
		IPHash:  actor.IPHash,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	slog.Info("election cycle started", "cycle", next, "actor", actor.UserID)
	return next, nil
}
