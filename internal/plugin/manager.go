package plugin

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/arlenmoss/herald/internal/command"
	"github.com/arlenmoss/herald/internal/host"
	plua "github.com/arlenmoss/herald/internal/plugin/lua"
)

// Registrar accepts command registrations. The dispatcher satisfies it.
type Registrar interface {
	Register(h command.Handler, meta command.Metadata) error
}

// CapabilityResolver maps a manifest capability name to a sender
// capability. The empty name must resolve to a capability accepting any
// sender.
type CapabilityResolver func(name string) (command.Capability, bool)

// defaultResolver accepts only the empty capability name.
func defaultResolver(name string) (command.Capability, bool) {
	if name == "" {
		return command.Any(), true
	}
	return nil, false
}

// Plugin is one loaded plugin: its manifest and its Lua state.
type Plugin struct {
	Manifest *Manifest
	State    *plua.State
}

// Manager loads plugins and registers their commands.
type Manager struct {
	registrar Registrar
	resolve   CapabilityResolver
	logger    *slog.Logger

	mu      sync.Mutex
	plugins map[string]*Plugin
	closed  bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithCapabilityResolver sets the capability name resolver.
func WithCapabilityResolver(r CapabilityResolver) Option {
	return func(m *Manager) {
		if r != nil {
			m.resolve = r
		}
	}
}

// WithLogger sets the manager logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a plugin manager registering against the given
// registrar.
func NewManager(registrar Registrar, opts ...Option) *Manager {
	m := &Manager{
		registrar: registrar,
		resolve:   defaultResolver,
		logger:    slog.Default(),
		plugins:   make(map[string]*Plugin),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// LoadAll loads every plugin directory under root, in lexical order so load
// order is deterministic. A plugin that fails to load is logged and skipped;
// it never blocks its siblings. Returns the number of plugins loaded. A
// missing root directory is not an error.
func (m *Manager) LoadAll(root string) (int, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("plugin: reading directory %s: %w", root, err)
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}
	sort.Strings(dirs)

	loaded := 0
	for _, name := range dirs {
		dir := filepath.Join(root, name)
		if _, err := os.Stat(filepath.Join(dir, "plugin.json")); err != nil {
			continue
		}
		if _, err := m.Load(dir); err != nil {
			if errors.Is(err, ErrAlreadyLoaded) {
				continue
			}
			m.log().Warn("plugin failed to load", "dir", dir, "err", err)
			continue
		}
		loaded++
	}
	return loaded, nil
}

// Load loads one plugin directory: parse the manifest, build a sandboxed
// state, run the entry script, then register the manifest's command
// contributions.
func (m *Manager) Load(dir string) (*Plugin, error) {
	manifest, err := LoadManifestFromDir(dir)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrManagerClosed
	}
	if _, ok := m.plugins[manifest.Name]; ok {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrAlreadyLoaded, manifest.Name)
	}
	// Reserve the name before running any Lua so a concurrent Load of the
	// same plugin fails fast.
	m.plugins[manifest.Name] = nil
	m.mu.Unlock()

	p := &Plugin{Manifest: manifest, State: plua.NewState()}
	m.installAPI(p)

	if err := p.State.DoFile(manifest.MainPath()); err != nil {
		p.State.Close()
		m.forget(manifest.Name)
		return nil, fmt.Errorf("plugin %s: running %s: %w", manifest.Name, manifest.Main, err)
	}

	m.registerManifestCommands(p)

	m.mu.Lock()
	m.plugins[manifest.Name] = p
	m.mu.Unlock()

	m.log().Info("plugin loaded",
		"plugin", manifest.String(),
		"commands", len(manifest.Commands))
	return p, nil
}

// registerManifestCommands registers the manifest's command contributions.
// A contribution whose handler global is not a function is skipped silently.
func (m *Manager) registerManifestCommands(p *Plugin) {
	for _, c := range p.Manifest.Commands {
		fn, ok := p.State.Global(c.Handler).(*lua.LFunction)
		if !ok {
			m.log().Debug("manifest command skipped: handler is not a function",
				"plugin", p.Manifest.Name,
				"cmd", c.Cmd,
				"handler", c.Handler)
			continue
		}
		if err := m.registerContribution(p, c, fn); err != nil {
			m.log().Warn("manifest command rejected",
				"plugin", p.Manifest.Name,
				"cmd", c.Cmd,
				"err", err)
		}
	}
}

// registerContribution resolves the capability and hands one command to the
// registrar with a handler bridging into the plugin's Lua state.
func (m *Manager) registerContribution(p *Plugin, c CommandContribution, fn *lua.LFunction) error {
	capability, ok := m.resolve(c.Capability)
	if !ok {
		m.log().Warn("plugin command dropped: unknown capability",
			"plugin", p.Manifest.Name,
			"cmd", c.Cmd,
			"capability", c.Capability)
		return nil
	}

	return m.registrar.Register(m.luaHandler(p, fn), command.Metadata{
		Cmd:               c.Cmd,
		Aliases:           c.Aliases,
		Permissions:       c.Permissions,
		PermissionMessage: c.PermissionMessage,
		Capability:        capability,
	})
}

// luaHandler adapts a Lua function to a command handler. The call runs under
// the state lock, so two commands of the same plugin never execute
// concurrently.
func (m *Manager) luaHandler(p *Plugin, fn *lua.LFunction) command.Handler {
	return func(sender host.Sender, args []string) (any, error) {
		var result any
		err := p.State.Do(func(L *lua.LState) error {
			L.Push(fn)
			L.Push(wrapSender(L, sender))
			L.Push(plua.StringsToTable(L, args))
			if err := L.PCall(2, 1, nil); err != nil {
				return err
			}
			result = plua.ToGoValue(L.Get(-1))
			L.Pop(1)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return result, nil
	}
}

// Plugins returns the loaded manifests sorted by name.
func (m *Manager) Plugins() []*Manifest {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*Manifest, 0, len(m.plugins))
	for _, p := range m.plugins {
		if p != nil {
			out = append(out, p.Manifest)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Loaded reports whether a plugin with the given name is loaded.
func (m *Manager) Loaded(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plugins[name]
	return ok && p != nil
}

// Close closes every plugin state. Registered commands stay in the
// dispatcher but their handlers will fail once the state is closed.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	for _, p := range m.plugins {
		if p != nil {
			p.State.Close()
		}
	}
	return nil
}

func (m *Manager) forget(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.plugins, name)
}
