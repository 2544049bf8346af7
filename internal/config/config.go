package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/arlenmoss/herald/internal/logging"
)

// Environment overrides for the non-logging sections. The logging section
// has its own HERALD_LOG_* variables, applied by logging.Init.
const (
	EnvConfigPath     = "HERALD_CONFIG"
	EnvPluginsDir     = "HERALD_PLUGINS_DIR"
	EnvPluginsWatch   = "HERALD_PLUGINS_WATCH"
	EnvConsoleName    = "HERALD_CONSOLE_NAME"
	EnvDisableMetrics = "HERALD_DISABLE_METRICS"
)

// Config is the root of the application configuration.
type Config struct {
	Logging    logging.Config   `toml:"logging"`
	Plugins    PluginsConfig    `toml:"plugins"`
	Console    ConsoleConfig    `toml:"console"`
	Dispatcher DispatcherConfig `toml:"dispatcher"`
}

// PluginsConfig controls plugin discovery.
type PluginsConfig struct {
	// Dir is the directory scanned for plugin subdirectories.
	Dir string `toml:"dir"`

	// Watch enables hot registration of plugins dropped into Dir while the
	// process is running.
	Watch bool `toml:"watch"`
}

// ConsoleConfig describes the built-in console sender.
type ConsoleConfig struct {
	// Name is the sender name reported to handlers.
	Name string `toml:"name"`

	// Permissions are the permission nodes granted to the console. The
	// wildcard "*" grants every node.
	Permissions []string `toml:"permissions"`
}

// DispatcherConfig mirrors the dispatcher options that are operator-facing.
type DispatcherConfig struct {
	Metrics                 bool   `toml:"metrics"`
	RecoverFromPanic        bool   `toml:"recover_from_panic"`
	InternalErrorMessage    string `toml:"internal_error_message"`
	CapabilityMessageFormat string `toml:"capability_message_format"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Logging: logging.DefaultConfig(),
		Plugins: PluginsConfig{
			Dir:   "plugins",
			Watch: false,
		},
		Console: ConsoleConfig{
			Name:        "Console",
			Permissions: []string{"*"},
		},
		Dispatcher: DispatcherConfig{
			Metrics:          true,
			RecoverFromPanic: true,
		},
	}
}

// Load reads the config file at path, merges it over the defaults, and
// applies environment overrides. An empty path or a missing file yields the
// defaults with environment overrides applied.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to defaults
		case err != nil:
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, &ParseError{Path: path, Err: err}
			}
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvPluginsDir)); v != "" {
		c.Plugins.Dir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPluginsWatch)); v != "" {
		c.Plugins.Watch = isEnabledString(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvConsoleName)); v != "" {
		c.Console.Name = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDisableMetrics)); v != "" && isEnabledString(v) {
		c.Dispatcher.Metrics = false
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Plugins.Dir) == "" {
		return fmt.Errorf("plugins.dir: must not be blank")
	}
	if strings.TrimSpace(c.Console.Name) == "" {
		return fmt.Errorf("console.name: must not be blank")
	}
	if f := c.Dispatcher.CapabilityMessageFormat; f != "" && strings.Count(f, "%s") != 1 {
		return fmt.Errorf("dispatcher.capability_message_format: must contain exactly one %%s verb")
	}
	return nil
}

func isEnabledString(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
