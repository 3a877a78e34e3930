// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/danielhkuo/quickly-vote/models"
)

// Setting keys stored in system_settings
const (
	SettingVotingStatus  = "voting_status"
	SettingElectionCycle = "election_cycle"
	SettingSystemName    = "system_name"
	SettingAdminContact  = "admin_contact"
)

// DefaultSettings are written on first start. Existing values are never overwritten.
var DefaultSettings = map[string]string{
	SettingVotingStatus:  models.StatusOpen,
	SettingElectionCycle: strconv.Itoa(1),
	SettingSystemName:    "PNG Electoral System",
	SettingAdminContact:  "admin@pngelection.gov.pg",
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL is shared by Postgres and SQLite.
func CreateSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// InitSettings seeds system_settings with DefaultSettings for any missing key.
func InitSettings(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin settings transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for key, value := range DefaultSettings {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO system_settings (key, value, updated_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (key) DO NOTHING
		`, key, value, now)
		if err != nil {
			return fmt.Errorf("failed to seed setting %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit settings: %w", err)
	}
	return nil
}

var schema = []string{
	`-- Users (voters and administrators)
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    full_name TEXT NOT NULL,
    province TEXT NOT NULL,
    district TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'voter' CHECK (role IN ('voter', 'admin')),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE INDEX IF NOT EXISTS idx_users_district ON users(district)`,

	`-- Candidates
CREATE TABLE IF NOT EXISTS candidates (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    party TEXT NOT NULL,
    province TEXT NOT NULL,
    district TEXT NOT NULL,
    bio TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE INDEX IF NOT EXISTS idx_candidates_district ON candidates(district)`,

	`-- Ballots: one submission event per voter
CREATE TABLE IF NOT EXISTS ballots (
    id TEXT PRIMARY KEY,
    voter_id TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
    submitted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    ip_hash TEXT,
    user_agent TEXT
)`,

	`-- Preference entries
CREATE TABLE IF NOT EXISTS votes (
    id TEXT PRIMARY KEY,
    ballot_id TEXT NOT NULL REFERENCES ballots(id) ON DELETE CASCADE,
    voter_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    candidate_id TEXT NOT NULL REFERENCES candidates(id),
    preference INTEGER NOT NULL CHECK (preference IN (1, 2, 3)),
    timestamp TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (voter_id, preference)
)`,
	`CREATE INDEX IF NOT EXISTS idx_votes_candidate_id ON votes(candidate_id)`,

	`-- System settings
CREATE TABLE IF NOT EXISTS system_settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,

	`-- Audit log
CREATE TABLE IF NOT EXISTS audit_log (
    id TEXT PRIMARY KEY,
    user_id TEXT,
    action TEXT NOT NULL,
    details TEXT NOT NULL DEFAULT '',
    ip_hash TEXT,
    timestamp TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_log_timestamp ON audit_log(timestamp)`,
}
