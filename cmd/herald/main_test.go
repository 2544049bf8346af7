package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf

	if err := app.Run(context.Background(), []string{"herald", "version"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(buf.String(), "herald "+version) {
		t.Errorf("output = %q", buf.String())
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestCheckCommand(t *testing.T) {
	root := t.TempDir()
	plugins := filepath.Join(root, "plugins")

	writeFile(t, filepath.Join(root, "herald.toml"), "[plugins]\ndir = \""+plugins+"\"\n")
	writeFile(t, filepath.Join(plugins, "good", "plugin.json"),
		`{"name": "good", "version": "1.0.0", "commands": [{"cmd": "ping"}]}`)
	writeFile(t, filepath.Join(plugins, "good", "init.lua"), `function ping(s, a) end`)

	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf

	err := app.Run(context.Background(), []string{
		"herald", "--config", filepath.Join(root, "herald.toml"), "check",
	})
	if err != nil {
		t.Fatalf("Run: %v\n%s", err, buf.String())
	}
	out := buf.String()
	if !strings.Contains(out, "config: ok") {
		t.Errorf("missing config line: %q", out)
	}
	if !strings.Contains(out, "good v1.0.0: ok (1 commands)") {
		t.Errorf("missing plugin line: %q", out)
	}
}

func TestCheckCommandFailsOnBadManifest(t *testing.T) {
	root := t.TempDir()
	plugins := filepath.Join(root, "plugins")

	writeFile(t, filepath.Join(root, "herald.toml"), "[plugins]\ndir = \""+plugins+"\"\n")
	writeFile(t, filepath.Join(plugins, "bad", "plugin.json"), `{"version": "1.0.0"}`)

	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf

	err := app.Run(context.Background(), []string{
		"herald", "--config", filepath.Join(root, "herald.toml"), "check",
	})
	if err == nil {
		t.Fatalf("expected failure, output: %s", buf.String())
	}
}
