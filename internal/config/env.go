package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment variable the config understands.
const EnvPrefix = "CMSBLOCKS_"

// ApplyEnv overrides cfg with CMSBLOCKS_* variables from environ, a list of
// KEY=VALUE pairs as returned by os.Environ. Variables that are not set leave
// the loaded value untouched. Returns the CMSBLOCKS_* keys that match no
// setting so callers can warn about typos.
func ApplyEnv(cfg *Config, environ []string) (unknown []string, err error) {
	vars := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("%w: environment: %v", ErrConfigParse, err)
	}

	params, err := env.GetFieldParams(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: environment: %v", ErrConfigParse, err)
	}
	known := make(map[string]bool, len(params))
	for _, p := range params {
		known[p.Key] = true
	}
	for k := range vars {
		if strings.HasPrefix(k, EnvPrefix) && !known[k] {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)

	return unknown, cfg.Validate()
}

// ApplyProcessEnv is ApplyEnv over the current process environment.
func ApplyProcessEnv(cfg *Config) ([]string, error) {
	return ApplyEnv(cfg, os.Environ())
}
