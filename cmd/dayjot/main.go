package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vinayprograms/dayjot/internal/config"
	"github.com/vinayprograms/dayjot/internal/git"
	"github.com/vinayprograms/dayjot/internal/journal"
	"github.com/vinayprograms/dayjot/internal/mcpserver"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// app carries what every command needs once flags are parsed.
type app struct {
	dir   string
	cfg   *config.Config
	store *journal.Store
}

// open loads the config and opens the journal store. --dir wins over the
// config and DAYJOT_DIR; with neither, the platform data dir is used.
func (a *app) open() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	root := cfg.Directories.Journal
	if a.dir != "" {
		root = a.dir
	}
	if root == "" {
		if root, err = journal.DefaultRoot(); err != nil {
			return fmt.Errorf("failed to locate data directory: %w", err)
		}
	}

	a.store, err = journal.Open(root, journal.WithFallbackDays(cfg.General.FallbackDays))
	return err
}

// committer returns the git committer when auto-commit is on, nil otherwise.
// A repository that cannot be opened disables committing with a warning.
func (a *app) committer() mcpserver.Committer {
	if !a.cfg.Git.AutoCommit {
		return nil
	}
	c, err := git.Open(a.store.Root(), a.cfg.Git.Push)
	if err != nil {
		log.Printf("dayjot: auto-commit disabled: %v", err)
		return nil
	}
	return c
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var demo bool

	cmd := &cobra.Command{
		Use:   "dayjot",
		Short: "A daily journal in the terminal.",
		Long: `dayjot keeps one plain-text page per day. A new day starts as a copy of
the most recent earlier page, so open tasks carry forward.

Run without a command to open today in the editor.`,
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd.Context(), demo)
		},
	}

	cmd.PersistentFlags().StringVar(&a.dir, "dir", "", "journal directory (overrides config and DAYJOT_DIR)")
	cmd.Flags().BoolVar(&demo, "demo", false, "open a throwaway journal holding a sample page")

	addShow(cmd, a)
	addPath(cmd, a)
	addList(cmd, a)
	addTasks(cmd, a)
	addToggle(cmd, a)
	addSearch(cmd, a)
	addMCP(cmd, a)
	addVersion(cmd)
	return cmd
}
