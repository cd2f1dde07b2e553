package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jmylchreest/folderpop/internal/config"
	"github.com/jmylchreest/folderpop/internal/placement"
	"github.com/jmylchreest/folderpop/internal/shell"
)

// resolveFolder picks the folder to show. The --folder value is taken as
// given; a folder that cannot be read shows up empty. A positional argument
// is used only when it names a folder, otherwise the desktop folder is
// shown.
func resolveFolder(ctx context.Context, flag string, args []string) (string, error) {
	if flag != "" {
		abs, err := filepath.Abs(expandHome(flag))
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", flag, err)
		}
		return abs, nil
	}

	if len(args) > 0 && args[0] != "" {
		if abs, err := filepath.Abs(expandHome(args[0])); err == nil {
			if fi, err := os.Stat(abs); err == nil && fi.IsDir() {
				return abs, nil
			}
		}
		slog.Debug("argument is not a folder, showing the desktop", "arg", args[0])
	}

	if ctx == nil {
		ctx = context.Background()
	}
	return shell.DesktopDir(ctx), nil
}

// parseAt parses an "X,Y" pointer position. Empty means none.
func parseAt(s string) (*placement.Point, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return nil, fmt.Errorf("invalid --at %q, want X,Y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return nil, fmt.Errorf("invalid --at x %q: %w", xs, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return nil, fmt.Errorf("invalid --at y %q: %w", ys, err)
	}
	return &placement.Point{X: x, Y: y}, nil
}

// applyVariant overrides the configured click feedback.
func applyVariant(c *config.Config, variant string) error {
	switch config.Variant(variant) {
	case config.VariantPulse, config.VariantSimple:
		c.Pulse.Variant = variant
		return nil
	}
	return fmt.Errorf("invalid --variant %q, must be %q or %q", variant, config.VariantPulse, config.VariantSimple)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
