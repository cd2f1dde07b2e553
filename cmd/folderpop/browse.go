package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/folderpop/internal/shell"
	"github.com/jmylchreest/folderpop/internal/snapshot"
	"github.com/jmylchreest/folderpop/internal/tui"
	"github.com/jmylchreest/folderpop/internal/watch"
)

var browseOpts struct {
	hidden bool
}

var browseCmd = &cobra.Command{
	Use:   "browse [folder]",
	Short: "Browse a folder in the terminal",
	Long: `Browse a folder in an interactive terminal view, for sessions without a
graphical desktop. Enter opens the selected entry and exits.

Key bindings:
  j/k, up/down  Navigate
  enter         Open entry
  o             Open the folder itself
  i             Show details
  c / C         Copy path / copy listing as JSON
  /             Search
  .             Toggle hidden entries
  r             Refresh
  q             Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().BoolVar(&browseOpts.hidden, "hidden", false,
		"Show entries whose names start with a dot")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	folder, err := resolveFolder(cmd.Context(), "", args)
	if err != nil {
		return err
	}

	changes := make(chan struct{}, 1)
	w, err := watch.New(watch.Options{
		Dir:    folder,
		Logger: logger,
		OnChange: func() {
			select {
			case changes <- struct{}{}:
			default:
			}
		},
	})
	if err == nil {
		err = w.Start(cmd.Context())
	}
	if err != nil {
		logger.Debug("folder watch unavailable", "folder", folder, "error", err)
	} else {
		defer func() { _ = w.Stop() }()
	}

	launcher := &shell.XDGLauncher{Command: cfg.Shell.Opener, Logger: logger}
	err = tui.Run(tui.Options{
		Load: func() *snapshot.Snapshot {
			return snapshot.Load(folder, snapshot.LoadOptions{
				MaxEntries: cfg.Snapshot.MaxEntries,
				Lister:     shell.DirLister{},
				Logger:     logger,
			})
		},
		Launcher:   launcher,
		Changes:    changes,
		ShowHidden: browseOpts.hidden || cfg.Browse.ShowHidden,
		Clipboard:  cfg.Browse.Clipboard,
	})
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	return nil
}
