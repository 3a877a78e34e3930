// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/db"
)

// SetupTestDB creates a fresh SQLite database with the full schema and default
// settings. The database lives in the test's temp dir and is closed on cleanup.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "election.db")
	conn, err := db.Open(context.Background(), db.SQLite, "file:"+path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  "file::memory:",
		DatabaseType: "sqlite",
		AdminKeySalt: "test-admin-salt",
		IPHashSalt:   "test-ip-salt",
	}
}

// AdminKey returns the admin key matching GetTestConfig
func AdminKey() string {
	return auth.GenerateAdminKey(auth.AdminScope, GetTestConfig().AdminKeySalt)
}

// CreateTestVoter inserts a voter in the given district and returns its ID
func CreateTestVoter(t *testing.T, conn *sql.DB, username, district string) string {
	t.Helper()

	voterID := auth.GenerateID()
	_, err := conn.Exec(`
		INSERT INTO users (id, username, full_name, province, district, role, created_at)
		VALUES ($1, $2, $3, 'Test Province', $4, 'voter', $5)
	`, voterID, username, "Voter "+username, district, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}

	return voterID
}

// CreateTestCandidate inserts a candidate and returns its ID.
// id may be empty to generate one; fixed IDs make ordering assertions deterministic.
func CreateTestCandidate(t *testing.T, conn *sql.DB, id, name, district string) string {
	t.Helper()

	if id == "" {
		id = auth.GenerateID()
	}
	_, err := conn.Exec(`
		INSERT INTO candidates (id, name, party, province, district, created_at)
		VALUES ($1, $2, 'Test Party', 'Test Province', $3, $4)
	`, id, name, district, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return id
}

// InsertTestBallot writes a ballot and its preference rows directly, bypassing
// validation. ranks maps candidate ID -> rank.
func InsertTestBallot(t *testing.T, conn *sql.DB, voterID string, ranks map[string]int) string {
	t.Helper()

	ballotID := auth.GenerateID()
	now := time.Now().UTC()
	_, err := conn.Exec(`
		INSERT INTO ballots (id, voter_id, submitted_at)
		VALUES ($1, $2, $3)
	`, ballotID, voterID, now)
	if err != nil {
		t.Fatalf("Failed to create test ballot: %v", err)
	}

	for candidateID, rank := range ranks {
		_, err := conn.Exec(`
			INSERT INTO votes (id, ballot_id, voter_id, candidate_id, preference, timestamp)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, auth.GenerateID(), ballotID, voterID, candidateID, rank, now)
		if err != nil {
			t.Fatalf("Failed to create test vote: %v", err)
		}
	}

	return ballotID
}

// SetTestVotingStatus overwrites voting_status without going through the window controller
func SetTestVotingStatus(t *testing.T, conn *sql.DB, status string) {
	t.Helper()

	_, err := conn.Exec(`
		UPDATE system_settings SET value = $1, updated_at = $2 WHERE key = $3
	`, status, time.Now().UTC(), db.SettingVotingStatus)
	if err != nil {
		t.Fatalf("Failed to set voting status: %v", err)
	}
}

// CountRows returns the number of rows in table matching the optional where clause
func CountRows(t *testing.T, conn *sql.DB, table, where string, args ...any) int {
	t.Helper()

	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}

	var n int
	if err := conn.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
