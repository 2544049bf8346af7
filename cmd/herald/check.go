package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/arlenmoss/herald/internal/config"
	"github.com/arlenmoss/herald/internal/plugin"
)

// runCheck validates the config file and every plugin manifest, without
// executing any Lua. It exits non-zero when anything is invalid so it can
// gate deployments.
func runCheck(cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.Root().Writer, "config: ok")

	entries, err := os.ReadDir(cfg.Plugins.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(cmd.Root().Writer, "plugins: directory %s does not exist\n", cfg.Plugins.Dir)
			return nil
		}
		return err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	failed := 0
	for _, name := range names {
		dir := filepath.Join(cfg.Plugins.Dir, name)
		if _, err := os.Stat(filepath.Join(dir, "plugin.json")); err != nil {
			continue
		}
		m, err := plugin.LoadManifestFromDir(dir)
		if err != nil {
			fmt.Fprintf(cmd.Root().Writer, "plugin %s: %v\n", name, err)
			failed++
			continue
		}
		if _, err := os.Stat(m.MainPath()); err != nil {
			fmt.Fprintf(cmd.Root().Writer, "plugin %s: missing entry script %s\n", name, m.Main)
			failed++
			continue
		}
		fmt.Fprintf(cmd.Root().Writer, "plugin %s: ok (%d commands)\n", m.String(), len(m.Commands))
	}

	if failed > 0 {
		return fmt.Errorf("%d plugin(s) failed validation", failed)
	}
	return nil
}
