package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSessionExpiryCutoff(t *testing.T) {
	created := time.Date(2026, time.March, 14, 8, 0, 0, 0, time.UTC)

	require.False(t, sessionExpired(created, created))
	require.False(t, sessionExpired(created, created.Add(9*time.Minute)))
	// Exactly at the TTL the session is still usable; only past it does
	// the finish-step fail.
	require.False(t, sessionExpired(created, created.Add(10*time.Minute)))
	require.True(t, sessionExpired(created, created.Add(10*time.Minute+time.Second)))
	require.True(t, sessionExpired(created, created.Add(time.Hour)))
}
