// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Loading errors wrap ErrLoadConfig, validation errors wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/arena/internal/adapters/storage"
	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/domain/ranking"
	"github.com/okian/arena/internal/domain/scoring"
)

// Defaults for values that are not plain literals in New.
const (
	// DefaultSlotsPerGroup is the slot count of each built-in group.
	DefaultSlotsPerGroup = 5
	// DefaultMetricsRefreshInterval paces the system metrics poller.
	DefaultMetricsRefreshInterval = 10 * time.Second
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StorageBackend is one of memory, file, sqlite, postgres.
	StorageBackend string `koanf:"storage_backend"`
	StorageDSN     string `koanf:"storage_dsn"`
	StorageDir     string `koanf:"storage_dir"`

	// StorageKey names the single entry holding the board snapshot.
	StorageKey string `koanf:"storage_key"`

	// Groups maps a group id to its slot count.
	Groups map[string]int `koanf:"groups"`

	// GroupOrder fixes the display order of groups. Groups missing here
	// are appended alphabetically.
	GroupOrder []string `koanf:"group_order"`

	// CORSOrigins lists origins allowed to call the API.
	CORSOrigins []string `koanf:"cors_origins"`

	// MetricsEnabled turns Prometheus recording on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`
	// MetricsRefreshInterval paces the system metrics poller, e.g. "10s".
	MetricsRefreshInterval time.Duration `koanf:"metrics_refresh_interval"`

	// Score table and weight overrides. Empty tables keep the built-in
	// values; every weight must be positive.
	UniqueHigh     map[int]float64 `koanf:"unique_high"`
	UniqueLow      map[int]float64 `koanf:"unique_low"`
	GoldWeight     float64         `koanf:"gold_weight"`
	WhiteWeight    float64         `koanf:"white_weight"`
	InheritWeight  float64         `koanf:"inherit_weight"`
	StartDashBonus float64         `koanf:"start_dash_bonus"`
	AceMultiplier  float64         `koanf:"ace_multiplier"`
}

// New creates a Config with defaults.
func New() *Config {
	w := scoring.DefaultWeights()
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":9080",
		StorageBackend: storage.BackendFile,
		StorageDir:     "./data",
		StorageKey:     "uma-arena-slot-data",
		Groups: map[string]int{
			"sprint": DefaultSlotsPerGroup,
			"mile":   DefaultSlotsPerGroup,
			"middle": DefaultSlotsPerGroup,
			"long":   DefaultSlotsPerGroup,
			"dirt":   DefaultSlotsPerGroup,
		},
		GroupOrder:     []string{"sprint", "mile", "middle", "long", "dirt"},
		CORSOrigins:    []string{"*"},

		MetricsEnabled:         true,
		MetricsRefreshInterval: DefaultMetricsRefreshInterval,

		GoldWeight:     w.Gold,
		WhiteWeight:    w.White,
		InheritWeight:  w.Inherit,
		StartDashBonus: w.StartDashBonus,
		AceMultiplier:  w.AceMultiplier,
	}
}

// Validate reports the first problem found, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.StorageKey == "" {
		return fmt.Errorf("%w: storage_key must not be empty", ErrInvalidConfig)
	}
	switch c.StorageBackend {
	case storage.BackendMemory, storage.BackendFile, storage.BackendSQLite, storage.BackendPostgres:
	default:
		return fmt.Errorf("%w: unknown storage_backend %q", ErrInvalidConfig, c.StorageBackend)
	}
	if len(c.Groups) == 0 {
		return fmt.Errorf("%w: at least one group is required", ErrInvalidConfig)
	}
	for id, size := range c.Groups {
		if id == "" || strings.Contains(id, model.KeySeparator) {
			return fmt.Errorf("%w: group id %q must be non-empty and free of %q", ErrInvalidConfig, id, model.KeySeparator)
		}
		if size <= 0 {
			return fmt.Errorf("%w: group %q needs a positive slot count, got %d", ErrInvalidConfig, id, size)
		}
	}
	for _, id := range c.GroupOrder {
		if _, ok := c.Groups[id]; !ok {
			return fmt.Errorf("%w: group_order names unknown group %q", ErrInvalidConfig, id)
		}
	}
	for _, w := range []struct {
		key string
		val float64
	}{
		{"gold_weight", c.GoldWeight},
		{"white_weight", c.WhiteWeight},
		{"inherit_weight", c.InheritWeight},
		{"start_dash_bonus", c.StartDashBonus},
		{"ace_multiplier", c.AceMultiplier},
	} {
		if w.val <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfig, w.key, w.val)
		}
	}
	if c.MetricsRefreshInterval <= 0 {
		return fmt.Errorf("%w: metrics_refresh_interval must be positive", ErrInvalidConfig)
	}
	return nil
}

// OrderedGroups returns every configured group, GroupOrder first.
func (c *Config) OrderedGroups() []string {
	return ranking.OrderGroups(c.Groups, c.GroupOrder)
}

// Weights converts the weight keys for the score calculator.
func (c *Config) Weights() scoring.Weights {
	return scoring.Weights{
		Gold:           c.GoldWeight,
		White:          c.WhiteWeight,
		Inherit:        c.InheritWeight,
		StartDashBonus: c.StartDashBonus,
		AceMultiplier:  c.AceMultiplier,
	}
}

// Storage returns the backend settings for storage.Open.
func (c *Config) Storage() storage.Config {
	return storage.Config{
		Backend: c.StorageBackend,
		Dir:     c.StorageDir,
		DSN:     c.StorageDSN,
	}
}
