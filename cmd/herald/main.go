// Command herald runs the command dispatch engine with a console front end.
// Plugins under the configured plugins directory contribute commands; input
// lines typed at the console are tokenized and routed through the
// dispatcher.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/arlenmoss/herald/internal/config"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	app := newApp()
	if err := app.Run(context.Background(), args); err != nil {
		fmt.Fprintln(os.Stderr, "herald:", err)
		return 1
	}
	return 0
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "herald",
		Usage: "command dispatch engine with Lua plugins",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the TOML config file",
				Sources: cli.EnvVars(config.EnvConfigPath),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "version",
				Usage: "print the version",
				Action: func(_ context.Context, cmd *cli.Command) error {
					fmt.Fprintf(cmd.Root().Writer, "herald %s\n", version)
					return nil
				},
			},
			{
				Name:  "check",
				Usage: "validate the config file and plugin manifests without starting the console",
				Action: func(_ context.Context, cmd *cli.Command) error {
					return runCheck(cmd)
				},
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runConsole(ctx, cmd)
		},
	}
}
