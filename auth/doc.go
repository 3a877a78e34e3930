// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin key, ID and IP hashing helpers.

# Admin Keys

Admin keys are HMAC-SHA256 of a scope under the admin salt, URL-safe base64
without padding:

	key := auth.GenerateAdminKey(auth.AdminScope, salt)
	err := auth.ValidateAdminKey(auth.AdminScope, key, salt)

Deterministic, so nothing is stored.

# IP Hashing

	hash := auth.HashIP(ipAddress, salt)

Returns the first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
