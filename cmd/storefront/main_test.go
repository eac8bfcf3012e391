package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flicky/storefront/internal/config"
)

func TestParseFlags_Ephemeral(t *testing.T) {
	cfg := &config.Config{Session: config.SessionConfig{Backend: config.SessionBackendFile}}
	require.NoError(t, parseFlags([]string{"--ephemeral"}, cfg))
	assert.Equal(t, config.SessionBackendMemory, cfg.Session.Backend)
}

func TestParseFlags_KeepsConfiguredBackend(t *testing.T) {
	cfg := &config.Config{Session: config.SessionConfig{Backend: config.SessionBackendRedis}}
	require.NoError(t, parseFlags(nil, cfg))
	assert.Equal(t, config.SessionBackendRedis, cfg.Session.Backend)
}

func TestParseFlags_Unknown(t *testing.T) {
	assert.Error(t, parseFlags([]string{"--bogus"}, &config.Config{}))
}
