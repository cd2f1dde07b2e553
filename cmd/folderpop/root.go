package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/folderpop/internal/config"
	"github.com/jmylchreest/folderpop/internal/shell"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		configPath string
	}
	logger *slog.Logger
)

var rootOpts struct {
	folder       string
	register     bool
	unregister   bool
	addToTaskbar string
	variant      string
	at           string
}

// rootCmd shows the popup when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "folderpop [folder]",
	Short: "Show a folder's contents in a popup next to the pointer",
	Long: `folderpop shows the contents of a folder in a small popup next to the
mouse pointer, placed against the panel. Clicking an item opens it and
the popup fades away; moving focus elsewhere closes it.

Without a folder the desktop folder is shown.

Examples:
  # Show the desktop folder
  folderpop

  # Show a folder from a panel launcher
  folderpop ~/Downloads

  # Add "Show in folderpop" to the file manager context menu
  folderpop --register

  # Create a launcher shortcut for a folder next to the executable
  folderpop --add-to-taskbar ~/Projects`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	Args:    cobra.MaximumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
	RunE: runRoot,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/folderpop/config.toml)")

	// Popup flags
	rootCmd.Flags().StringVarP(&rootOpts.folder, "folder", "f", "",
		"Folder to show (default: the desktop folder)")
	rootCmd.Flags().StringVar(&rootOpts.variant, "variant", "",
		"Click feedback: pulse or simple (default from config)")
	rootCmd.Flags().StringVar(&rootOpts.at, "at", "",
		"Pointer position as X,Y in global coordinates, instead of asking the compositor")

	// Management flags
	rootCmd.Flags().BoolVar(&rootOpts.register, "register", false,
		"Add the folderpop entry to the file manager context menu and exit")
	rootCmd.Flags().BoolVar(&rootOpts.unregister, "unregister", false,
		"Remove the folderpop context menu entry and exit")
	rootCmd.Flags().StringVar(&rootOpts.addToTaskbar, "add-to-taskbar", "",
		"Create a launcher shortcut for the given folder and exit")
	rootCmd.MarkFlagsMutuallyExclusive("register", "unregister", "add-to-taskbar")
}

func runRoot(cmd *cobra.Command, args []string) error {
	switch {
	case rootOpts.register:
		return runRegister(true)
	case rootOpts.unregister:
		return runRegister(false)
	case cmd.Flags().Changed("add-to-taskbar"):
		return runAddToTaskbar(rootOpts.addToTaskbar)
	}

	folder, err := resolveFolder(cmd.Context(), rootOpts.folder, args)
	if err != nil {
		return err
	}
	if rootOpts.variant != "" {
		if err := applyVariant(cfg, rootOpts.variant); err != nil {
			return err
		}
	}
	at, err := parseAt(rootOpts.at)
	if err != nil {
		return err
	}

	if code := runPopup(folder, at); code != 0 {
		os.Exit(code)
	}
	return nil
}

// setupLogger configures the global slog logger. Every invocation is
// tagged with its own session id so concurrent popups can be told apart.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, opts)
	logger = slog.New(handler).With("session", ulid.Make().String())
	slog.SetDefault(logger)
}

func newNotifier() *shell.Notifier {
	return shell.NewNotifier(nil, cfg.Shell.NotifyTimeout.Duration(), logger)
}

func newRegistrar() (*shell.Registrar, error) {
	return shell.NewRegistrar(shell.RegistrarOptions{
		ShortcutDir: cfg.ShortcutDir(),
		Logger:      logger,
	})
}
