package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:8080/api", c.ServerBaseURL)
	assert.Equal(t, "todo.db", c.DBPath)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, "info", c.LogLevel)
	assert.False(t, c.GuestMode)
}

func TestLoad_NoArgsGivesDefaults(t *testing.T) {
	cfg, err := load(nil)
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	assert.Equal(t, &want, cfg)
}

func TestLoad_FlagsOverrideJSON(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"server_base_url":       "http://json:1/api",
		"online_check_interval": "7s",
		"log_level":             "warn",
	})

	cfg, err := load([]string{"-c", path, "-a", "http://flag:2/api", "-g"})
	require.NoError(t, err)

	assert.Equal(t, "http://flag:2/api", cfg.ServerBaseURL)
	assert.Equal(t, 7*time.Second, cfg.OnlineCheckInterval)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.GuestMode)
}
