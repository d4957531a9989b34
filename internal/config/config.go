// Package config resolves the process-wide configuration once at
// startup from command-line flags, matching the flat CLI surface of
// the original crbl_logger daemon.
package config

import (
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// Config holds every tunable of the daemon. It is built once in
// Register/Normalize and passed down by value or pointer to each
// subsystem constructor — nothing below main reads flags directly.
type Config struct {
	Port             int
	LogPath          string
	MulticastGroup   string
	MulticastPort    int
	AnnounceInterval time.Duration
	PollInterval     time.Duration
	PeerTimeout      time.Duration
	MetricsAddr      string
	LogLevel         string
	PeerTTL          time.Duration
	StrictStatus     bool
}

// Register adds every flag spec.md §6 and SPEC_FULL.md §4.7 name to
// flags and returns the Config that will be populated once flags.Parse
// runs.
func Register(flags *pflag.FlagSet) *Config {
	cfg := &Config{}
	flags.IntVar(&cfg.Port, "port", 7777, "HTTP listen port")
	flags.StringVar(&cfg.LogPath, "log-path", "/var/log", "log root directory")
	flags.StringVar(&cfg.MulticastGroup, "multicast-group", "239.0.1.5", "IPv4 multicast group")
	flags.IntVar(&cfg.MulticastPort, "multicast-port", 8888, "multicast UDP port")
	flags.DurationVar(&cfg.AnnounceInterval, "announce-interval", time.Second, "interval between multicast announcements")
	flags.DurationVar(&cfg.PollInterval, "poll-interval", 2*time.Second, "interval between indexer polling cycles")
	flags.DurationVar(&cfg.PeerTimeout, "peer-timeout", 3*time.Second, "connection timeout for peer /ls polling")
	flags.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "address to serve Prometheus /metrics on (empty disables)")
	flags.StringVar(&cfg.LogLevel, "log-level", "INFO", "minimum log level: DEBUG, INFO, ERROR")
	flags.DurationVar(&cfg.PeerTTL, "peer-ttl", 0, "evict peers not re-announced within this window (0 disables eviction)")
	flags.BoolVar(&cfg.StrictStatus, "strict-status", false, "return 400/404 for client errors instead of the wire-compatible 200")
	return cfg
}

// Normalize enforces invariants that the rest of the daemon relies on,
// such as the trailing slash on LogPath spec.md §6 requires.
func (c *Config) Normalize() {
	if !strings.HasSuffix(c.LogPath, "/") {
		c.LogPath += "/"
	}
}
