package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	gap "github.com/muesli/go-app-paths"
	"golang.org/x/sync/errgroup"

	"github.com/vinayprograms/dayjot/internal/day"
	"github.com/vinayprograms/dayjot/internal/journal"
	"github.com/vinayprograms/dayjot/internal/session"
	"github.com/vinayprograms/dayjot/internal/tui"
	"github.com/vinayprograms/dayjot/internal/update"
)

const demoPage = "# Header\n" +
	"[ ] Something todo\n" +
	"[/] Something done\n" +
	"[x] Something cancelled\n" +
	"`monospaced something`\n" +
	"regular text\n" +
	"https://google.com/about.html?arg=hello%20world\n" +
	"\n"

// logPath is where the editor logs while it owns the terminal.
func (a *app) logPath() (string, error) {
	if a.cfg.General.LogFile != "" {
		return a.cfg.General.LogFile, nil
	}
	return gap.NewScope(gap.User, "dayjot").LogPath("dayjot.log")
}

// demoStore returns a store in a fresh temp dir with the sample page as today.
func demoStore() (*journal.Store, func(), error) {
	dir, err := os.MkdirTemp("", "dayjot-demo-*")
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { os.RemoveAll(dir) }

	store, err := journal.Open(dir)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if err := store.Save(day.Today(), demoPage); err != nil {
		cleanup()
		return nil, nil, err
	}
	return store, cleanup, nil
}

func (a *app) runTUI(ctx context.Context, demo bool) error {
	path, err := a.logPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := tea.LogToFile(path, "dayjot")
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	store := a.store
	opts := []session.Option{session.WithAutosaveDelay(a.cfg.General.AutosaveDelay)}

	if demo {
		s, cleanup, err := demoStore()
		if err != nil {
			return err
		}
		defer cleanup()
		store = s
	} else if c := a.committer(); c != nil {
		opts = append(opts, session.WithOnSave(func(id day.ID, path string, reason session.SaveReason) {
			// Autosaves land every few seconds; commit only deliberate saves.
			if reason == session.SaveAutosave {
				return
			}
			if err := c.CommitFile(path, fmt.Sprintf("Update %s (%s)", id, reason)); err != nil {
				log.Printf("dayjot: commit %s: %v", id, err)
			}
		}))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	svc := update.NewService(version, update.DirSource{Dir: a.cfg.Updates.Dir})
	opts = append(opts, session.WithUpdater(svc))
	g.Go(func() error {
		if err := svc.Run(gctx); err != nil && !errors.Is(err, update.ErrNoSource) {
			log.Printf("dayjot: update: %v", err)
		}
		return nil
	})

	events, err := store.Watch(gctx)
	if err != nil {
		// The editor works without live reloads.
		log.Printf("dayjot: watch %s: %v", store.Root(), err)
		events = nil
	}

	sess := session.New(store, opts...)
	sess.Open(gctx)

	model := tui.New(gctx, sess, tui.Config{
		Events:  events,
		Updates: svc.Cell(),
		Theme:   tui.ThemeFromConfig(a.cfg.Colors),
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(gctx))
	final, runErr := p.Run()
	cancel()
	if err := g.Wait(); err != nil {
		log.Printf("dayjot: %v", err)
	}
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return runErr
	}
	if err := sess.Close(); err != nil {
		return fmt.Errorf("failed to save %s: %w", sess.Buffer().Day, err)
	}

	if m, ok := final.(tui.Model); ok && m.Relaunch() && svc.Applied() {
		return svc.Relaunch(os.Args[1:])
	}
	return nil
}
