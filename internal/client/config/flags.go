package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/flagx"
)

var knownFlags = []string{"-a", "-d", "-t", "-i", "-l", "-f", "-g"}

// parseFlags overlays cfg with command-line flags. Arguments it does not know
// (such as -c) are filtered out first.
//
//	-a string   base URL of the task API
//	-d string   SQLite database file ("" disables local storage)
//	-t int      request timeout (seconds)
//	-i int      online check interval (seconds)
//	-l string   log level
//	-f string   log file
//	-g          guest mode
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the task API")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "local database file")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	interval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFile, "f", cfg.LogFile, "log file")
	fs.BoolVar(&cfg.GuestMode, "g", cfg.GuestMode, "use the app without signing in")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags...)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
	return nil
}
