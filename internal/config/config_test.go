package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/arlenmoss/herald/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "herald.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Plugins.Dir != "plugins" {
		t.Errorf("Plugins.Dir = %q, want default", cfg.Plugins.Dir)
	}
	if cfg.Console.Name != "Console" {
		t.Errorf("Console.Name = %q, want default", cfg.Console.Name)
	}
	if !cfg.Dispatcher.Metrics {
		t.Error("metrics should default on")
	}
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Console.Permissions) != 1 || cfg.Console.Permissions[0] != "*" {
		t.Errorf("Console.Permissions = %v, want [*]", cfg.Console.Permissions)
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := writeConfig(t, `
[logging]
level = "debug"

[plugins]
dir = "/opt/herald/plugins"
watch = true

[console]
name = "ops"
permissions = ["warp.set", "team.create"]
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Plugins.Dir != "/opt/herald/plugins" || !cfg.Plugins.Watch {
		t.Errorf("Plugins = %+v, want file values", cfg.Plugins)
	}
	if len(cfg.Console.Permissions) != 2 {
		t.Errorf("Console.Permissions = %v, want two nodes", cfg.Console.Permissions)
	}
	if !cfg.Dispatcher.Metrics {
		t.Error("unset dispatcher section must keep defaults")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeConfig(t, "[plugins\ndir = ???")

	_, err := config.Load(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	var parseErr *config.ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("error type = %T, want *config.ParseError", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(config.EnvPluginsDir, "/srv/plugins")
	t.Setenv(config.EnvPluginsWatch, "yes")
	t.Setenv(config.EnvConsoleName, "admin")
	t.Setenv(config.EnvDisableMetrics, "1")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Plugins.Dir != "/srv/plugins" || !cfg.Plugins.Watch {
		t.Errorf("Plugins = %+v, want env values", cfg.Plugins)
	}
	if cfg.Console.Name != "admin" {
		t.Errorf("Console.Name = %q, want admin", cfg.Console.Name)
	}
	if cfg.Dispatcher.Metrics {
		t.Error("metrics should be disabled by env")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{"defaults", func(*config.Config) {}, false},
		{"blank plugin dir", func(c *config.Config) { c.Plugins.Dir = " " }, true},
		{"blank console name", func(c *config.Config) { c.Console.Name = "" }, true},
		{"bad log level", func(c *config.Config) { c.Logging.Level = "chatty" }, true},
		{"capability format without verb", func(c *config.Config) {
			c.Dispatcher.CapabilityMessageFormat = "players only"
		}, true},
		{"capability format with verb", func(c *config.Config) {
			c.Dispatcher.CapabilityMessageFormat = "&cOnly a %s may do this"
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
