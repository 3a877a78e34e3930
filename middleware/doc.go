// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging and Metrics

	mux.HandleFunc(pattern, middleware.WithMetrics(m, pattern, middleware.WithLogging(handler)))

WithLogging logs method, path, status and duration_ms. WithMetrics records
the same request in the latency histogram labelled by route pattern.

# Admin Routes

	middleware.RequireAdminKey(cfg.AdminKeySalt, handler)

Rejects requests without a valid X-Admin-Key header with 401.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

ParseJSONBody rejects unknown fields.

# Client IP Extraction

GetClientIP prefers X-Forwarded-For, then X-Real-IP, then RemoteAddr. The
result is only ever stored hashed.
*/
package middleware
