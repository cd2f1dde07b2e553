package shell

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// DataHome returns $XDG_DATA_HOME or its default.
func DataHome() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".local", "share")
	}
	return filepath.Join(home, ".local", "share")
}

// DesktopDir returns the user's desktop folder: xdg-user-dir's answer when
// it names an existing folder, then ~/Desktop, then the home folder.
func DesktopDir(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	if out, err := exec.CommandContext(ctx, "xdg-user-dir", "DESKTOP").Output(); err == nil {
		if dir := strings.TrimSpace(string(out)); isDir(dir) {
			return dir
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return string(filepath.Separator)
	}
	if dir := filepath.Join(home, "Desktop"); isDir(dir) {
		return dir
	}
	return home
}

func isDir(path string) bool {
	if path == "" {
		return false
	}
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
