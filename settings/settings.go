// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package settings reads and writes system_settings.
package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/models"
)

var (
	ErrSettingNotFound = errors.New("setting not found")
	ErrInvalidStatus   = errors.New("invalid voting status")
)

// Settings is the typed view of system_settings.
type Settings struct {
	VotingStatus  string `mapstructure:"voting_status" json:"voting_status"`
	ElectionCycle int    `mapstructure:"election_cycle" json:"election_cycle"`
	SystemName    string `mapstructure:"system_name" json:"system_name"`
	AdminContact  string `mapstructure:"admin_contact" json:"admin_contact"`
}

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ValidStatus reports whether s is a known voting status
func ValidStatus(s string) bool {
	return s == models.StatusOpen || s == models.StatusClosed
}

// Load reads every setting and decodes it into Settings.
// Unknown keys are ignored; numeric values are converted from their text form.
func Load(ctx context.Context, q Querier) (Settings, error) {
	rows, err := q.QueryContext(ctx, `SELECT key, value FROM system_settings`)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	raw := make(map[string]interface{})
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Settings{}, fmt.Errorf("failed to scan setting: %w", err)
		}
		raw[key] = value
	}
	if err := rows.Err(); err != nil {
		return Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}

	var s Settings
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &s,
	})
	if err != nil {
		return Settings{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}

	return s, nil
}

// Get returns the raw value of a single setting
func Get(ctx context.Context, q Querier, key string) (string, error) {
	var value string
	err := q.QueryRowContext(ctx, `
		SELECT value FROM system_settings WHERE key = $1
	`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%w: %s", ErrSettingNotFound, key)
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// VotingStatus reads voting_status. With lock set on Postgres the row is read
// FOR SHARE, so a concurrent status UPDATE waits for the caller's transaction.
func VotingStatus(ctx context.Context, q Querier, dialect db.Dialect, lock bool) (string, error) {
	query := `SELECT value FROM system_settings WHERE key = $1`
	if lock && dialect == db.Postgres {
		query += ` FOR SHARE`
	}

	var status string
	err := q.QueryRowContext(ctx, query, db.SettingVotingStatus).Scan(&status)
	if err == sql.ErrNoRows {
		// Absent means the system was never initialized; the initial state is open.
		return models.StatusOpen, nil
	}
	if err != nil {
		return "", err
	}
	if !ValidStatus(status) {
		return "", fmt.Errorf("%w: stored value %q", ErrInvalidStatus, status)
	}
	return status, nil
}

// CompareAndSetStatus moves voting_status from `from` to `to`. It reports false
// when the stored value no longer equals `from`.
func CompareAndSetStatus(ctx context.Context, ex Execer, from, to string) (bool, error) {
	res, err := ex.ExecContext(ctx, `
		UPDATE system_settings
		SET value = $1, updated_at = $2
		WHERE key = $3 AND value = $4
	`, to, time.Now().UTC(), db.SettingVotingStatus, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Set upserts a setting
func Set(ctx context.Context, ex Execer, key, value string) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO system_settings (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// ElectionCycle reads the current election cycle number
func ElectionCycle(ctx context.Context, q Querier) (int, error) {
	value, err := Get(ctx, q, db.SettingElectionCycle)
	if errors.Is(err, ErrSettingNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	cycle, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid election_cycle %q: %w", value, err)
	}
	return cycle, nil
}
