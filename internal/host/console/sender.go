package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/arlenmoss/herald/internal/chat"
)

// Sender is the console actor. Messages pass through the chat styler so
// section-sign codes become ANSI sequences on capable terminals. The
// wildcard permission "*" grants every node.
type Sender struct {
	mu     sync.Mutex
	name   string
	out    io.Writer
	styler *chat.Styler
	perms  map[string]bool
	all    bool
}

// NewSender creates a console sender writing to out with the given
// permission grants.
func NewSender(name string, out io.Writer, permissions []string) *Sender {
	s := &Sender{
		name:   name,
		out:    out,
		styler: chat.DefaultStyler(),
		perms:  make(map[string]bool),
	}
	for _, node := range permissions {
		if node == "*" {
			s.all = true
			continue
		}
		s.perms[node] = true
	}
	return s
}

// SetStyler replaces the output styler.
func (s *Sender) SetStyler(styler *chat.Styler) {
	if styler == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.styler = styler
}

// Name implements host.Sender.
func (s *Sender) Name() string { return s.name }

// HasPermission implements host.Sender.
func (s *Sender) HasPermission(node string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.all || s.perms[node]
}

// Grant adds a permission node at runtime.
func (s *Sender) Grant(node string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if node == "*" {
		s.all = true
		return
	}
	s.perms[node] = true
}

// SendMessage implements host.Sender.
func (s *Sender) SendMessage(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.out, s.styler.Render(text))
}
