package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arlenmoss/herald/internal/logging"
)

func TestDefaultConfig(t *testing.T) {
	cfg := logging.DefaultConfig()
	if cfg.Level != "info" {
		t.Errorf("Level = %q, want info", cfg.Level)
	}
	if cfg.Sink != string(logging.SinkStderr) {
		t.Errorf("Sink = %q, want stderr", cfg.Sink)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*logging.Config)
		wantErr bool
	}{
		{"empty config", func(*logging.Config) {}, false},
		{"bad level", func(c *logging.Config) { c.Level = "verbose" }, true},
		{"warning level", func(c *logging.Config) { c.Level = "warning" }, false},
		{"bad format", func(c *logging.Config) { c.Format = "xml" }, true},
		{"bad sink", func(c *logging.Config) { c.Sink = "syslog" }, true},
		{"file sink without path", func(c *logging.Config) { c.Sink = "file" }, true},
		{"file sink with path", func(c *logging.Config) {
			c.Sink = "file"
			c.File = "/tmp/herald.log"
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg logging.Config
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWithEnvOverrides(t *testing.T) {
	t.Setenv(logging.EnvLogLevel, "debug")
	t.Setenv(logging.EnvLogFormat, "json")
	t.Setenv(logging.EnvLogMaxBackups, "9")
	t.Setenv(logging.EnvLogCompress, "off")

	cfg := logging.DefaultConfig().WithEnv()
	if cfg.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want json", cfg.Format)
	}
	if cfg.MaxBackups != 9 {
		t.Errorf("MaxBackups = %d, want 9", cfg.MaxBackups)
	}
	if cfg.Compress {
		t.Error("Compress should be disabled by off")
	}
}

func TestWithEnvIgnoresMalformedInt(t *testing.T) {
	t.Setenv(logging.EnvLogMaxSizeMB, "lots")
	cfg := logging.DefaultConfig().WithEnv()
	if cfg.MaxSizeMB != 20 {
		t.Errorf("MaxSizeMB = %d, want default 20", cfg.MaxSizeMB)
	}
}

func TestInitRejectsInvalidConfig(t *testing.T) {
	cfg := logging.DefaultConfig()
	cfg.Level = "loud"
	if _, err := logging.Init(cfg, logging.InitOptions{}); err == nil {
		t.Error("expected validation error")
	}
}

func TestInitFileSink(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "herald.log")

	cfg := logging.DefaultConfig()
	cfg.Sink = string(logging.SinkFile)
	cfg.File = path

	closeFn, err := logging.Init(cfg, logging.InitOptions{App: "herald-test", Version: "dev"})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer closeFn()

	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Errorf("log directory was not created: %v", err)
	}
}
