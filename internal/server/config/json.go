package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/flagx"
)

// JsonConfig is the on-disk form of Config. Validity durations accept "15m"
// or integer nanoseconds.
type JsonConfig struct {
	Addr                         string         `json:"addr"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  flagx.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration flagx.Duration `json:"refresh_token_validity_duration"`
	BcryptCost                   int            `json:"bcrypt_cost"`
	LogLevel                     string         `json:"log_level"`
	Journal                      bool           `json:"journal"`
}

// parseJson overlays cfg with the file named by -c or -config. Zero values in
// the file leave the current setting unchanged.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var c JsonConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if c.Addr != "" {
		cfg.Addr = c.Addr
	}
	if c.SecretKey != "" {
		cfg.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration != 0 {
		cfg.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration)
	}
	if c.RefreshTokenValidityDuration != 0 {
		cfg.RefreshTokenValidityDuration = time.Duration(c.RefreshTokenValidityDuration)
	}
	if c.BcryptCost != 0 {
		cfg.BcryptCost = c.BcryptCost
	}
	if c.LogLevel != "" {
		cfg.LogLevel = c.LogLevel
	}
	if c.Journal {
		cfg.Journal = true
	}
	return nil
}
