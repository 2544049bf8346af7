package console_test

import (
	"strings"
	"testing"

	"github.com/muesli/termenv"

	"github.com/arlenmoss/herald/internal/chat"
	"github.com/arlenmoss/herald/internal/host"
	"github.com/arlenmoss/herald/internal/host/console"
)

// recordingExecutor captures dispatches.
type recordingExecutor struct {
	labels  []string
	handled bool
}

func (e *recordingExecutor) OnCommand(_ host.Sender, label string, _ []string) bool {
	e.labels = append(e.labels, label)
	return e.handled
}

func TestTableDefineAndResolve(t *testing.T) {
	table := console.NewTable()
	cmd := table.Define("Warp")

	raw, ok := table.Resolve("warp")
	if !ok {
		t.Fatal("expected resolve to succeed")
	}
	if raw != host.RawCommand(cmd) {
		t.Error("resolve returned a different entry")
	}
	if _, ok := table.Resolve("WARP"); !ok {
		t.Error("resolution is case-insensitive")
	}
	if _, ok := table.Resolve("spawn"); ok {
		t.Error("unknown root must not resolve")
	}
}

func TestTableDefineIdempotent(t *testing.T) {
	table := console.NewTable()
	first := table.Define("warp")
	second := table.Define("WARP")
	if first != second {
		t.Error("redefining a root must return the existing entry")
	}
	if len(table.Roots()) != 1 {
		t.Errorf("roots = %v, want one entry", table.Roots())
	}
}

func TestCommandBindIdempotent(t *testing.T) {
	cmd := console.NewTable().Define("warp")
	exec := &recordingExecutor{}

	cmd.Bind(exec)
	cmd.Bind(exec)

	if cmd.Executor() != host.Executor(exec) {
		t.Error("executor not bound")
	}
}

func TestTableDispatch(t *testing.T) {
	table := console.NewTable()
	exec := &recordingExecutor{handled: true}
	table.Define("warp").Bind(exec)

	sender := console.NewSender("tester", &strings.Builder{}, nil)

	if !table.Dispatch(sender, "warp", []string{"home"}) {
		t.Error("expected dispatch to be handled")
	}
	if table.Dispatch(sender, "spawn", nil) {
		t.Error("unknown root must not dispatch")
	}
	if table.Dispatch(sender, "unbound", nil) {
		t.Error("defined but unbound root must not dispatch")
	}
	if len(exec.labels) != 1 || exec.labels[0] != "warp" {
		t.Errorf("executor saw %v", exec.labels)
	}
}

func TestSenderPermissions(t *testing.T) {
	s := console.NewSender("ops", &strings.Builder{}, []string{"warp.set"})
	if !s.HasPermission("warp.set") {
		t.Error("granted node should pass")
	}
	if s.HasPermission("warp.admin") {
		t.Error("ungranted node should fail")
	}

	s.Grant("warp.admin")
	if !s.HasPermission("warp.admin") {
		t.Error("Grant should take effect")
	}
}

func TestSenderWildcard(t *testing.T) {
	s := console.NewSender("ops", &strings.Builder{}, []string{"*"})
	if !s.HasPermission("anything.at.all") {
		t.Error("wildcard grants every node")
	}
}

func TestSenderSendMessage(t *testing.T) {
	var buf strings.Builder
	s := console.NewSender("ops", &buf, nil)
	s.SetStyler(chat.NewStyler(termenv.Ascii))

	s.SendMessage("§cplain text")
	if got := buf.String(); got != "plain text\n" {
		t.Errorf("output = %q", got)
	}
}
