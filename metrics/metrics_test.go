// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_IndependentRegistries(t *testing.T) {
	// Two instances must not collide on registration
	m1 := New()
	m2 := New()

	m1.BallotsAccepted.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(m1.BallotsAccepted))
	assert.Equal(t, 0.0, testutil.ToFloat64(m2.BallotsAccepted))
}

func TestHandler(t *testing.T) {
	m := New()
	m.BallotsRejected.WithLabelValues("malformed").Add(2)
	m.StatusTransitions.WithLabelValues("closed").Inc()

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(w.Result().Body)
	require.NoError(t, err)
	out := string(body)

	assert.True(t, strings.Contains(out, `election_ballots_rejected_total{reason="malformed"} 2`), out)
	assert.Contains(t, out, `election_voting_status_transitions_total{to="closed"} 1`)
	assert.Contains(t, out, "go_goroutines")
}
