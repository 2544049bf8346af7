package dispatcher

import (
	"strings"

	"github.com/arlenmoss/herald/internal/command"
)

// Match is a selected descriptor together with the identifier that matched.
type Match struct {
	Descriptor *command.Descriptor
	Identifier command.Identifier
}

// Consumed returns how many argument tokens the matched identifier's
// subcommand path consumed.
func (m Match) Consumed() int {
	if len(m.Identifier) == 0 {
		return 0
	}
	return len(m.Identifier) - 1
}

// Matcher selects the best descriptor for an inbound request.
type Matcher struct {
	registry *Registry
}

// NewMatcher creates a matcher over the given registry.
func NewMatcher(registry *Registry) *Matcher {
	return &Matcher{registry: registry}
}

// Match finds the longest identifier across all registered descriptors that
// matches the command label and leading arguments.
//
// An identifier qualifies when its root token equals label
// case-insensitively, args covers its subcommand path, and every subcommand
// token equals the corresponding argument exactly. Among qualifying
// identifiers the longest wins; equal lengths keep the first-registered
// descriptor.
func (m *Matcher) Match(label string, args []string) (Match, bool) {
	var best Match
	found := false

	for _, desc := range m.registry.Snapshot() {
		for _, id := range desc.Identifiers() {
			if !qualifies(id, label, args) {
				continue
			}
			if !found || len(id) > len(best.Identifier) {
				best = Match{Descriptor: desc, Identifier: id}
				found = true
			}
		}
	}
	return best, found
}

// qualifies reports whether one identifier matches the request.
func qualifies(id command.Identifier, label string, args []string) bool {
	if len(id) == 0 || !strings.EqualFold(id[0], label) {
		return false
	}
	if len(args) < len(id)-1 {
		return false
	}
	for i := 1; i < len(id); i++ {
		if id[i] != args[i-1] {
			return false
		}
	}
	return true
}
