package config

import (
	"os"
	"time"
)

// Config holds runtime settings of the terminal client.
type Config struct {
	ServerBaseURL       string        // base URL of the task API, including the /api prefix
	DBPath              string        // SQLite file; empty disables local storage
	RequestTimeout      time.Duration // per-request HTTP timeout
	OnlineCheckInterval time.Duration // how often /health is probed
	LogLevel            string        // debug, info, warn or error
	LogFile             string        // optional JSON log file
	GuestMode           bool          // dashboard reachable without signing in
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8080/api"
	c.DBPath = "todo.db"
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.LogLevel = "info"
	c.LogFile = ""
	c.GuestMode = false
}

// LoadConfig builds a Config from defaults, then the JSON file named by -c or
// -config (if any), then command-line flags. Later sources win.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
