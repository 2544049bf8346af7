package dispatcher_test

import (
	"testing"

	"github.com/arlenmoss/herald/internal/command"
	"github.com/arlenmoss/herald/internal/dispatcher"
	"github.com/arlenmoss/herald/internal/host"
)

func registryWith(t *testing.T, cmds ...string) *dispatcher.Registry {
	t.Helper()
	reg := dispatcher.NewRegistry()
	for _, cmd := range cmds {
		reg.Add(newDescriptor(t, cmd))
	}
	return reg
}

func TestMatchRootCaseInsensitive(t *testing.T) {
	reg := registryWith(t, "team")
	m := dispatcher.NewMatcher(reg)

	for _, label := range []string{"team", "TEAM", "Team"} {
		if _, ok := m.Match(label, nil); !ok {
			t.Errorf("expected match for label %q", label)
		}
	}
}

func TestMatchNoCrossRootFalseMatch(t *testing.T) {
	reg := registryWith(t, "team", "warp")
	m := dispatcher.NewMatcher(reg)

	matched, ok := m.Match("warp", []string{"home"})
	if !ok {
		t.Fatal("expected a match for warp")
	}
	if matched.Identifier.Root() != "warp" {
		t.Errorf("matched root %q, want %q", matched.Identifier.Root(), "warp")
	}

	if _, ok := m.Match("spawn", nil); ok {
		t.Error("unregistered root must not match")
	}
}

func TestMatchLongestWins(t *testing.T) {
	reg := registryWith(t, "team", "team create")
	m := dispatcher.NewMatcher(reg)

	matched, ok := m.Match("team", []string{"create", "Red"})
	if !ok {
		t.Fatal("expected a match")
	}
	if matched.Identifier.String() != "team create" {
		t.Errorf("matched %q, want %q", matched.Identifier.String(), "team create")
	}
	if matched.Consumed() != 1 {
		t.Errorf("consumed = %d, want 1", matched.Consumed())
	}
}

func TestMatchLongestWinsRegardlessOfOrder(t *testing.T) {
	reg := registryWith(t, "team create", "team")
	m := dispatcher.NewMatcher(reg)

	matched, ok := m.Match("team", []string{"create"})
	if !ok {
		t.Fatal("expected a match")
	}
	if matched.Identifier.String() != "team create" {
		t.Errorf("matched %q, want %q", matched.Identifier.String(), "team create")
	}
}

func TestMatchArgShortfall(t *testing.T) {
	reg := registryWith(t, "team create")
	m := dispatcher.NewMatcher(reg)

	if _, ok := m.Match("team", nil); ok {
		t.Error("identifier longer than args must not match")
	}
}

func TestMatchSubcommandCaseSensitive(t *testing.T) {
	reg := registryWith(t, "team create")
	m := dispatcher.NewMatcher(reg)

	if _, ok := m.Match("team", []string{"Create"}); ok {
		t.Error("subcommand tokens match case-sensitively")
	}
	if _, ok := m.Match("team", []string{"create"}); !ok {
		t.Error("exact subcommand should match")
	}
}

func TestMatchEqualLengthFirstRegisteredWins(t *testing.T) {
	reg := dispatcher.NewRegistry()
	first := newDescriptor(t, "team create")
	second := newDescriptor(t, "team create")
	reg.Add(first)
	reg.Add(second)

	m := dispatcher.NewMatcher(reg)
	matched, ok := m.Match("team", []string{"create"})
	if !ok {
		t.Fatal("expected a match")
	}
	if matched.Descriptor != first {
		t.Error("equal-length collision must keep the first-registered descriptor")
	}
}

func TestMatchAliasEquivalent(t *testing.T) {
	reg := dispatcher.NewRegistry()
	d, err := command.New(func(host.Sender, []string) (any, error) {
		return nil, nil
	}, command.Metadata{Cmd: "teleport", Aliases: []string{"tp"}})
	if err != nil {
		t.Fatalf("command.New: %v", err)
	}
	reg.Add(d)

	m := dispatcher.NewMatcher(reg)
	matched, ok := m.Match("tp", nil)
	if !ok {
		t.Fatal("alias should match")
	}
	if matched.Identifier.String() != "tp" {
		t.Errorf("matched identifier %q, want alias %q", matched.Identifier.String(), "tp")
	}
}

func TestMatchEmptyRegistry(t *testing.T) {
	m := dispatcher.NewMatcher(dispatcher.NewRegistry())
	if _, ok := m.Match("anything", nil); ok {
		t.Error("empty registry cannot match")
	}
}
