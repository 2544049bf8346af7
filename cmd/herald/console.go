package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/urfave/cli/v3"

	"github.com/arlenmoss/herald/internal/command"
	"github.com/arlenmoss/herald/internal/config"
	"github.com/arlenmoss/herald/internal/dispatcher"
	"github.com/arlenmoss/herald/internal/host"
	"github.com/arlenmoss/herald/internal/host/console"
	"github.com/arlenmoss/herald/internal/logging"
	"github.com/arlenmoss/herald/internal/plugin"
)

// definingRegistrar defines each identifier's root token in the console
// table before handing the registration to the dispatcher. The console has
// no preexisting command namespace, so roots come into existence at
// registration time.
type definingRegistrar struct {
	table *console.Table
	d     *dispatcher.Dispatcher
}

func (r *definingRegistrar) Register(h command.Handler, meta command.Metadata) error {
	for _, id := range append([]string{meta.Cmd}, meta.Aliases...) {
		fields := strings.Fields(id)
		if len(fields) > 0 {
			r.table.Define(fields[0])
		}
	}
	return r.d.Register(h, meta)
}

func runConsole(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	closeLog, err := logging.Init(cfg.Logging, logging.InitOptions{App: "herald", Version: version})
	if err != nil {
		return err
	}
	defer closeLog()

	table := console.NewTable()
	d, err := dispatcher.New(table, dispatcher.Config{
		EnableMetrics:           cfg.Dispatcher.Metrics,
		RecoverFromPanic:        cfg.Dispatcher.RecoverFromPanic,
		InternalErrorMessage:    cfg.Dispatcher.InternalErrorMessage,
		CapabilityMessageFormat: cfg.Dispatcher.CapabilityMessageFormat,
	})
	if err != nil {
		return err
	}

	registrar := &definingRegistrar{table: table, d: d}

	quit := make(chan struct{})
	if err := registerBuiltins(registrar, d, quit); err != nil {
		return err
	}

	manager := plugin.NewManager(registrar,
		plugin.WithCapabilityResolver(consoleCapabilities))
	defer manager.Close()

	loaded, err := manager.LoadAll(cfg.Plugins.Dir)
	if err != nil {
		return err
	}
	slog.Info("plugins loaded", "count", loaded, "dir", cfg.Plugins.Dir)

	if cfg.Plugins.Watch {
		watcher, err := plugin.NewWatcher(manager, cfg.Plugins.Dir)
		if err != nil {
			slog.Warn("plugin watcher disabled", "err", err)
		} else {
			watcher.Start()
			defer watcher.Close()
		}
	}

	sender := console.NewSender(cfg.Console.Name, os.Stdout, cfg.Console.Permissions)
	registerPluginsCommand(registrar, manager)

	return repl(ctx, table, sender, os.Stdin, quit)
}

// consoleCapabilities resolves the capability names the console host knows.
func consoleCapabilities(name string) (command.Capability, bool) {
	switch name {
	case "":
		return command.Any(), true
	case "console":
		return command.Of[*console.Sender]("console"), true
	default:
		return nil, false
	}
}

// repl reads input lines, tokenizes them, and routes them through the
// command table until EOF, an exit command, or context cancellation.
func repl(ctx context.Context, table *console.Table, sender host.Sender, in io.Reader, quit <-chan struct{}) error {
	scanner := bufio.NewScanner(in)
	fmt.Print("> ")
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-quit:
			return nil
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			fmt.Print("> ")
			continue
		}

		words, err := shellquote.Split(line)
		if err != nil {
			sender.SendMessage(fmt.Sprintf("parse error: %v", err))
			fmt.Print("> ")
			continue
		}

		label, args := words[0], words[1:]
		if !table.Dispatch(sender, label, args) {
			sender.SendMessage(fmt.Sprintf("Unknown command %q. Try \"help\".", label))
		}

		select {
		case <-quit:
			return nil
		default:
			fmt.Print("> ")
		}
	}
	return scanner.Err()
}

// registerBuiltins adds the commands the console provides on its own.
func registerBuiltins(r *definingRegistrar, d *dispatcher.Dispatcher, quit chan struct{}) error {
	if err := r.Register(func(_ host.Sender, _ []string) (any, error) {
		var lines []string
		for _, desc := range d.Registry().Snapshot() {
			for _, id := range desc.Identifiers() {
				lines = append(lines, "  "+id.String())
			}
		}
		sort.Strings(lines)
		return append([]string{"Available commands:"}, lines...), nil
	}, command.Metadata{Cmd: "help", Aliases: []string{"commands"}}); err != nil {
		return err
	}

	if err := r.Register(func(_ host.Sender, _ []string) (any, error) {
		m := d.Metrics()
		if m == nil {
			return "metrics are disabled", nil
		}
		lines := []string{fmt.Sprintf("dispatches: %d", m.TotalDispatches())}
		for _, cm := range m.Commands() {
			lines = append(lines, fmt.Sprintf("  %-24s count=%d faults=%d last=%s",
				cm.Name, cm.DispatchCount, cm.FaultCount, cm.LastOutcome))
		}
		return lines, nil
	}, command.Metadata{Cmd: "stats"}); err != nil {
		return err
	}

	return r.Register(func(_ host.Sender, _ []string) (any, error) {
		close(quit)
		return "bye", nil
	}, command.Metadata{
		Cmd:        "exit",
		Aliases:    []string{"quit"},
		Capability: command.Of[*console.Sender]("console"),
	})
}

// registerPluginsCommand lists the loaded plugins. Registered after the
// initial plugin load so plugins cannot shadow it by accident.
func registerPluginsCommand(r *definingRegistrar, manager *plugin.Manager) {
	_ = r.Register(func(_ host.Sender, _ []string) (any, error) {
		manifests := manager.Plugins()
		if len(manifests) == 0 {
			return "no plugins loaded", nil
		}
		lines := make([]string, 0, len(manifests)+1)
		lines = append(lines, "Loaded plugins:")
		for _, m := range manifests {
			lines = append(lines, "  "+m.String())
		}
		return lines, nil
	}, command.Metadata{Cmd: "plugins"})
}
