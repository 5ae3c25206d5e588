package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 15*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 7*24*time.Hour, c.RefreshTokenValidityDuration)
	assert.Equal(t, 10, c.BcryptCost)
}

func TestLoad_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.json")
	b, err := json.Marshal(map[string]any{
		"addr":                           ":9000",
		"secret_key":                     "from-json",
		"access_token_validity_duration": "2m",
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))

	cfg, err := load([]string{"-config", path, "-s", "from-flag", "-r", "60"})
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "from-flag", cfg.SecretKey)
	assert.Equal(t, 2*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, time.Hour, cfg.RefreshTokenValidityDuration)
}

func TestLoad_Errors(t *testing.T) {
	_, err := load([]string{"-t", "soon"})
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{ nope`), 0o600))
	_, err = load([]string{"-c", bad})
	require.Error(t, err)
}

func TestLoad_Journal(t *testing.T) {
	cfg, err := load(nil)
	require.NoError(t, err)
	assert.False(t, cfg.Journal)

	cfg, err = load([]string{"-l", "debug", "-j"})
	require.NoError(t, err)
	assert.True(t, cfg.Journal)
	assert.Equal(t, "debug", cfg.LogLevel)

	path := filepath.Join(t.TempDir(), "server.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"journal": true}`), 0o600))
	cfg, err = load([]string{"-c", path})
	require.NoError(t, err)
	assert.True(t, cfg.Journal)
}
