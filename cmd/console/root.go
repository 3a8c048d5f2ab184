package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/deicod/ermblog-console/internal/app"
	"github.com/deicod/ermblog-console/internal/config"
)

// annotationManualSnapshot marks commands that manage snapshots
// themselves; the root skips its restore-on-start and save-on-exit for them.
const annotationManualSnapshot = "console/manual-snapshot"

// cli carries state shared by every command of one invocation.
type cli struct {
	output     string
	configPath string
	app        *app.App
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "console",
		Short: "Management console for the ermblog API",
		Long: `Console fetches the posts and comments tables of the ermblog API into a
local cache and keeps every fetched view consistent as content is created,
moderated and deleted.

Configuration is read from --config, CONFIG_PATH or ./config.yaml, and the
environment. When snapshot.driver is set the cache is restored on start and
saved on exit.`,
		Version:            app.BuildInfo().String(),
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  c.open,
		PersistentPostRunE: c.close,
	}
	root.PersistentFlags().StringVarP(&c.output, "output", "o", formatTable, "output format: table, json or yaml")
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default $CONFIG_PATH, then ./config.yaml)")
	root.SetVersionTemplate("console {{.Version}}\n")

	root.AddCommand(
		c.postsCmd(),
		c.commentsCmd(),
		c.watchCmd(),
		c.snapshotCmd(),
	)
	return root
}

func (c *cli) open(cmd *cobra.Command, _ []string) error {
	if !validFormat(c.output) {
		return fmt.Errorf("unknown output format %q", c.output)
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	log := app.NewLogger(cfg.Log)
	if cfg.Source != "" {
		log.Debug("config loaded", slog.String("path", cfg.Source))
	} else {
		log.Debug("config loaded from environment")
	}

	a, err := app.New(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	c.app = a

	if manualSnapshot(cmd) {
		return nil
	}
	return a.Restore(cmd.Context())
}

func (c *cli) close(cmd *cobra.Command, _ []string) error {
	if c.app == nil {
		return nil
	}
	var err error
	if !manualSnapshot(cmd) {
		// Interrupting watch cancels the command context; the cache is
		// still saved.
		err = c.app.Persist(context.WithoutCancel(cmd.Context()))
	}
	return errors.Join(err, c.app.Close())
}

func manualSnapshot(cmd *cobra.Command) bool {
	for p := cmd; p != nil; p = p.Parent() {
		if p.Annotations[annotationManualSnapshot] == "true" {
			return true
		}
	}
	return false
}
