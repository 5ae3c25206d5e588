package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/flagx"
)

// JsonConfig is the on-disk form of Config. Durations accept "3s" or
// integer nanoseconds. Absent fields keep their current value.
type JsonConfig struct {
	ServerBaseURL       *string         `json:"server_base_url"`
	DBPath              *string         `json:"db_path"`
	RequestTimeout      *flagx.Duration `json:"request_timeout"`
	OnlineCheckInterval *flagx.Duration `json:"online_check_interval"`
	LogLevel            *string         `json:"log_level"`
	LogFile             *string         `json:"log_file"`
	GuestMode           *bool           `json:"guest_mode"`
}

// parseJson overlays cfg with the JSON file named by -c or -config. Without
// either flag it does nothing.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setIf(&cfg.ServerBaseURL, jc.ServerBaseURL)
	setIf(&cfg.DBPath, jc.DBPath)
	setIf(&cfg.LogLevel, jc.LogLevel)
	setIf(&cfg.LogFile, jc.LogFile)
	setIf(&cfg.GuestMode, jc.GuestMode)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = time.Duration(*jc.RequestTimeout)
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = time.Duration(*jc.OnlineCheckInterval)
	}
	return nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
