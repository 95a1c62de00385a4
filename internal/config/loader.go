package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment names read by Load.
const (
	EnvPrefix     = "ARENA_"
	EnvConfigFile = "ARENA_CONFIG"
)

// listKeys hold comma separated values when given through the environment.
var listKeys = map[string]bool{"group_order": true, "cors_origins": true} //nolint:gochecknoglobals // lookup table

// replacedKeys are collections that a source replaces instead of merging into the defaults.
var replacedKeys = []string{"groups", "group_order", "cors_origins", "unique_high", "unique_low"} //nolint:gochecknoglobals // lookup table

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if ARENA_CONFIG is set
//  3. env (prefix ARENA_)
func Load(_ context.Context) (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// ARENA_STORAGE_BACKEND -> storage_backend. Underscores are kept to match
	// the flat koanf tags; only list and map keys get their values split.
	envProvider := env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(EnvPrefix))
		if key == "config" {
			return "", nil
		}
		switch {
		case listKeys[key]:
			return key, splitList(value)
		case key == "groups":
			return key, parseGroups(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	cfg := New()
	for _, key := range replacedKeys {
		if k.Exists(key) {
			cfg.clear(key)
		}
	}
	// The default order only describes the default groups.
	if k.Exists("groups") && !k.Exists("group_order") {
		cfg.GroupOrder = nil
	}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) clear(key string) {
	switch key {
	case "groups":
		c.Groups = map[string]int{}
	case "group_order":
		c.GroupOrder = nil
	case "cors_origins":
		c.CORSOrigins = nil
	case "unique_high":
		c.UniqueHigh = nil
	case "unique_low":
		c.UniqueLow = nil
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseGroups reads "mile:5,sprint:3". Entries without a count get DefaultSlotsPerGroup;
// unparsable counts are kept as -1 so validation reports them.
func parseGroups(v string) map[string]interface{} {
	out := make(map[string]interface{})
	for _, part := range splitList(v) {
		id, n, found := strings.Cut(part, ":")
		id = strings.TrimSpace(id)
		if !found {
			out[id] = DefaultSlotsPerGroup
			continue
		}
		size, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			size = -1
		}
		out[id] = size
	}
	return out
}
