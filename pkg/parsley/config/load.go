package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// FileNames are the config files FindConfig looks for, in order.
var FileNames = []string{"parsley.yaml", "parsley.yml", "parsley.toml"}

// ErrNoConfig is returned by FindConfig when no config file exists.
var ErrNoConfig = errors.New("no config file found")

// Load reads configuration from a file with ENV interpolation.
// If configPath is empty, it searches upward from the working directory
// and falls back to Defaults() when nothing is found.
func Load(configPath string, getenv func(string) string) (*Config, error) {
	path, err := resolveConfigPath(configPath, getenv)
	if errors.Is(err, ErrNoConfig) {
		cfg := Defaults()
		return cfg, validate(cfg)
	}
	if err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Interpolate environment variables
	data = interpolateEnv(data, getenv)

	cfg := Defaults()
	if strings.EqualFold(filepath.Ext(absPath), ".toml") {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Path = absPath
	cfg.BaseDir = filepath.Dir(absPath)

	// Resolve relative paths
	if cfg.Cache.Dir != "" && !filepath.IsAbs(cfg.Cache.Dir) {
		cfg.Cache.Dir = filepath.Join(cfg.BaseDir, cfg.Cache.Dir)
	}
	if out := cfg.Logging.Output; out != "stderr" && out != "stdout" && out != "" && !filepath.IsAbs(out) {
		cfg.Logging.Output = filepath.Join(cfg.BaseDir, out)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfig walks up from dir to the nearest parsley.yaml, parsley.yml or
// parsley.toml.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	for {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoConfig
		}
		dir = parent
	}
}

// resolveConfigPath finds the config file to use.
// Search order: explicit path > PARSLEY_CONFIG env > nearest parsley.{yaml,yml,toml}
func resolveConfigPath(explicit string, getenv func(string) string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	if envPath := getenv("PARSLEY_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("PARSLEY_CONFIG file not found: %s", envPath)
		}
		return envPath, nil
	}

	return FindConfig(".")
}

// envPattern matches ${VAR} or ${VAR:-default}
var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// interpolateEnv replaces ${VAR} and ${VAR:-default} patterns with environment values.
func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		parts := envPattern.FindSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		value := getenv(string(parts[1]))
		if value == "" && len(parts) >= 3 && len(parts[2]) > 0 {
			value = string(parts[2])
		}
		return []byte(value)
	})
}

// validate checks the configuration for errors.
func validate(cfg *Config) error {
	var errs []string

	if cfg.Parser.MaxDepth < 1 {
		errs = append(errs, fmt.Sprintf("invalid parser.max_depth: %d (must be at least 1)", cfg.Parser.MaxDepth))
	}
	if cfg.Check.Jobs < 0 {
		errs = append(errs, fmt.Sprintf("invalid check.jobs: %d (must be 0 or more)", cfg.Check.Jobs))
	}
	for _, list := range [][]string{cfg.Check.Include, cfg.Check.Exclude} {
		for _, glob := range list {
			if _, err := filepath.Match(glob, ""); err != nil {
				errs = append(errs, fmt.Sprintf("invalid glob %q: %v", glob, err))
			}
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, fmt.Sprintf("invalid log level: %s (must be debug, info, warn, or error)", cfg.Logging.Level))
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, fmt.Sprintf("invalid log format: %s (must be json or text)", cfg.Logging.Format))
	}

	if cfg.Requires != "" {
		if _, err := semver.NewConstraint(cfg.Requires); err != nil {
			errs = append(errs, fmt.Sprintf("invalid requires %q: %v", cfg.Requires, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// CheckRequires reports an error when version does not satisfy the
// config's requires constraint. An empty constraint accepts any version.
func (c *Config) CheckRequires(version string) error {
	if c.Requires == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(c.Requires)
	if err != nil {
		return fmt.Errorf("invalid requires %q: %w", c.Requires, err)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", version, err)
	}
	if ok, reasons := constraint.Validate(v); !ok {
		msgs := make([]string, len(reasons))
		for i, r := range reasons {
			msgs[i] = r.Error()
		}
		return fmt.Errorf("pars %s does not satisfy requires %q: %s", version, c.Requires, strings.Join(msgs, "; "))
	}
	return nil
}

// HistoryPath returns the REPL history file with a leading ~ expanded.
func (c *Config) HistoryPath() string {
	path := c.REPL.History
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// CacheDir returns the cache directory, defaulting under the user cache dir.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user cache dir: %w", err)
	}
	return filepath.Join(base, "parsley"), nil
}
