package plugin

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// Manifest describes a plugin: its identity, its entry script, and the
// commands it contributes to the dispatcher.
type Manifest struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Author      string `json:"author"`

	// Main is the entry Lua script, relative to the plugin directory.
	// Defaults to "init.lua".
	Main string `json:"main"`

	// Commands are registered after the entry script has run. Each one
	// names a global Lua function as its handler.
	Commands []CommandContribution `json:"commands"`

	// path is the plugin directory, set at load time.
	path string
}

// CommandContribution declares one command the plugin provides.
type CommandContribution struct {
	// Cmd is the primary identifier, possibly a subcommand path
	// ("team create"). Required.
	Cmd string `json:"cmd"`

	// Aliases are additional identifiers.
	Aliases []string `json:"aliases"`

	// Permissions are the nodes the sender must hold, in order.
	Permissions []string `json:"permissions"`

	// PermissionMessage overrides the denial message. '&' style codes are
	// allowed.
	PermissionMessage string `json:"permissionMessage"`

	// Capability names the minimal sender capability ("player",
	// "console"). Empty accepts any sender.
	Capability string `json:"capability"`

	// Handler names the global Lua function invoked for this command.
	// Defaults to the primary identifier with spaces and dots replaced by
	// underscores.
	Handler string `json:"handler"`
}

// Validation errors.
var (
	ErrMissingName    = errors.New("manifest: name is required")
	ErrInvalidName    = errors.New("manifest: name must be lowercase alphanumeric with hyphens")
	ErrInvalidVersion = errors.New("manifest: version must be valid semver")
	ErrInvalidMain    = errors.New("manifest: main must be a .lua file")
	ErrMissingCmd     = errors.New("manifest: command cmd is required")
)

var namePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*[a-z0-9]$|^[a-z]$`)

// semverPattern is simplified semver: MAJOR.MINOR.PATCH with optional
// prerelease and build suffixes.
var semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(-[a-zA-Z0-9.-]+)?(\+[a-zA-Z0-9.-]+)?$`)

var handlerNameReplacer = regexp.MustCompile(`[ .]`)

// LoadManifest reads and validates a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	m.path = filepath.Dir(path)
	m.applyDefaults()

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadManifestFromDir reads plugin.json from a plugin directory.
func LoadManifestFromDir(dir string) (*Manifest, error) {
	return LoadManifest(filepath.Join(dir, "plugin.json"))
}

func (m *Manifest) applyDefaults() {
	if m.Main == "" {
		m.Main = "init.lua"
	}
	if m.Version == "" {
		m.Version = "0.0.0"
	}
	for i := range m.Commands {
		if m.Commands[i].Handler == "" {
			m.Commands[i].Handler = handlerNameReplacer.ReplaceAllString(m.Commands[i].Cmd, "_")
		}
	}
}

// Validate checks the manifest fields.
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return ErrMissingName
	}
	if !namePattern.MatchString(m.Name) {
		return fmt.Errorf("%w: %s", ErrInvalidName, m.Name)
	}
	if !semverPattern.MatchString(m.Version) {
		return fmt.Errorf("%w: %s", ErrInvalidVersion, m.Version)
	}
	if filepath.Ext(m.Main) != ".lua" {
		return fmt.Errorf("%w: %s", ErrInvalidMain, m.Main)
	}
	for i, cmd := range m.Commands {
		if cmd.Cmd == "" {
			return fmt.Errorf("%w at index %d", ErrMissingCmd, i)
		}
	}
	return nil
}

// Path returns the plugin directory.
func (m *Manifest) Path() string {
	return m.path
}

// MainPath returns the absolute path of the entry script.
func (m *Manifest) MainPath() string {
	return filepath.Join(m.path, m.Main)
}

// String identifies the plugin in logs.
func (m *Manifest) String() string {
	display := m.DisplayName
	if display == "" {
		display = m.Name
	}
	return fmt.Sprintf("%s v%s", display, m.Version)
}
