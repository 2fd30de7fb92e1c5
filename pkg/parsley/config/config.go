package config

// Config represents the complete pars configuration
type Config struct {
	BaseDir  string        `yaml:"-" toml:"-"` // Directory containing config file, for resolving relative paths
	Path     string        `yaml:"-" toml:"-"` // Resolved config file, empty for defaults
	Parser   ParserConfig  `yaml:"parser" toml:"parser"`
	Check    CheckConfig   `yaml:"check" toml:"check"`
	Cache    CacheConfig   `yaml:"cache" toml:"cache"`
	Logging  LoggingConfig `yaml:"logging" toml:"logging"`
	REPL     REPLConfig    `yaml:"repl" toml:"repl"`
	Requires string        `yaml:"requires" toml:"requires"` // semver constraint on the tool version, e.g. ">= 0.9"
}

// ParserConfig holds parse options
type ParserConfig struct {
	MaxDepth int  `yaml:"max_depth" toml:"max_depth"` // nesting limit (default: 256)
	Tolerant bool `yaml:"tolerant" toml:"tolerant"`   // keep going after the first error
}

// CheckConfig selects files for 'pars check'
type CheckConfig struct {
	Include  []string `yaml:"include" toml:"include"`   // file name globs to check
	Exclude  []string `yaml:"exclude" toml:"exclude"`   // file or directory name globs to skip
	Jobs     int      `yaml:"jobs" toml:"jobs"`         // parallel checks (0 = one per CPU)
	Markdown bool     `yaml:"markdown" toml:"markdown"` // also check ```parsley blocks in .md files
}

// CacheConfig holds the result cache settings
type CacheConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Dir     string `yaml:"dir" toml:"dir"` // default: <user cache dir>/parsley
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`   // debug, info, warn, error
	Format string `yaml:"format" toml:"format"` // json or text
	Output string `yaml:"output" toml:"output"` // stderr, stdout, or file path
}

// REPLConfig holds interactive session settings
type REPLConfig struct {
	History string `yaml:"history" toml:"history"` // history file (default: ~/.parsley_history)
	Locale  string `yaml:"locale" toml:"locale"`   // locale for rendering dates, e.g. en_US or fr_FR
}

// Defaults returns a Config with sensible defaults
func Defaults() *Config {
	return &Config{
		Parser: ParserConfig{
			MaxDepth: 256,
		},
		Check: CheckConfig{
			Include: []string{"*.pars", "*.parsley"},
			Exclude: []string{".*", "node_modules", "vendor"},
		},
		Cache: CacheConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		REPL: REPLConfig{
			History: "~/.parsley_history",
			Locale:  "en_US",
		},
	}
}
