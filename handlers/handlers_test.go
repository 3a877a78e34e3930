// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"testing"

	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/election"
	"github.com/danielhkuo/quickly-vote/testutil"
)

const testDistrict = "Moresby North-East"

// setupService returns a fresh database and a service over it
func setupService(t *testing.T) (*sql.DB, *election.Service, cliparse.Config) {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	return conn, election.New(conn, db.SQLite, nil), testutil.GetTestConfig()
}

func adminHeaders() map[string]string {
	return map[string]string{"X-Admin-Key": testutil.AdminKey()}
}
