// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package audit records administrative and voting actions in audit_log.
// Entries are written inside the caller's transaction so an action and its
// audit row commit or roll back together.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/models"
)

// DefaultLimit caps List when no limit is given.
const DefaultLimit = 100

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Entry describes one action to record. Empty UserID and IPHash are stored as NULL.
type Entry struct {
	UserID  string
	Action  string
	Details string
	IPHash  string
}

// Record inserts an audit row and returns its ID.
func Record(ctx context.Context, ex Execer, e Entry) (string, error) {
	id := auth.GenerateID()
	_, err := ex.ExecContext(ctx, `
		INSERT INTO audit_log (id, user_id, action, details, ip_hash, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, nullString(e.UserID), e.Action, e.Details, nullString(e.IPHash), time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to record audit entry %s: %w", e.Action, err)
	}
	return id, nil
}

// List returns the most recent audit entries, newest first.
func List(ctx context.Context, q Querier, limit int) ([]models.AuditEntry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, user_id, action, details, ip_hash, timestamp
		FROM audit_log
		ORDER BY timestamp DESC, id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	entries := []models.AuditEntry{}
	for rows.Next() {
		var (
			e      models.AuditEntry
			userID sql.NullString
			ipHash sql.NullString
		)
		if err := rows.Scan(&e.ID, &userID, &e.Action, &e.Details, &ipHash, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		if userID.Valid {
			e.UserID = &userID.String
		}
		if ipHash.Valid {
			e.IPHash = &ipHash.String
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
