// Package console is the built-in host: a command table populated at
// startup and a sender that writes to the terminal.
package console

import (
	"strings"
	"sync"

	"github.com/arlenmoss/herald/internal/host"
)

// Command is a named entry in the console command table. It satisfies
// host.RawCommand.
type Command struct {
	mu   sync.Mutex
	name string
	exec host.Executor
}

// Name returns the root token this command answers to.
func (c *Command) Name() string { return c.name }

// Bind attaches the executor. Rebinding the same executor is a no-op, so
// registering several identifiers with a shared root binds once.
func (c *Command) Bind(e host.Executor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.exec == e {
		return
	}
	c.exec = e
}

// Executor returns the bound executor, or nil.
func (c *Command) Executor() host.Executor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exec
}

// Table is the console's command table. Roots are matched
// case-insensitively. It satisfies host.CommandTable.
type Table struct {
	mu   sync.RWMutex
	cmds map[string]*Command
}

// NewTable creates an empty command table.
func NewTable() *Table {
	return &Table{cmds: make(map[string]*Command)}
}

// Define adds a root token to the table and returns its entry. Defining an
// existing root returns the existing entry.
func (t *Table) Define(root string) *Command {
	key := strings.ToLower(strings.TrimSpace(root))

	t.mu.Lock()
	defer t.mu.Unlock()
	if cmd, ok := t.cmds[key]; ok {
		return cmd
	}
	cmd := &Command{name: root}
	t.cmds[key] = cmd
	return cmd
}

// Resolve implements host.CommandTable.
func (t *Table) Resolve(root string) (host.RawCommand, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	cmd, ok := t.cmds[strings.ToLower(root)]
	if !ok {
		return nil, false
	}
	return cmd, true
}

// Roots returns the defined root tokens in no particular order.
func (t *Table) Roots() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.cmds))
	for _, cmd := range t.cmds {
		out = append(out, cmd.name)
	}
	return out
}

// Dispatch routes one input line to the executor bound for its root.
// Returns false when the root is unknown, nothing is bound, or the executor
// reports the request unhandled.
func (t *Table) Dispatch(sender host.Sender, label string, args []string) bool {
	raw, ok := t.Resolve(label)
	if !ok {
		return false
	}
	exec := raw.Executor()
	if exec == nil {
		return false
	}
	return exec.OnCommand(sender, label, args)
}
