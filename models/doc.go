// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package models defines the request, response and domain types shared by
// the engine and the HTTP layer. Voter IDs and IP hashes never appear in
// JSON output.
package models
