package shell

import (
	"fmt"
	"log/slog"
	"os/exec"
)

// XDGLauncher opens paths with xdg-open without waiting for the handler.
type XDGLauncher struct {
	Command string
	Logger  *slog.Logger
}

// NewXDGLauncher creates a launcher using xdg-open.
func NewXDGLauncher(logger *slog.Logger) *XDGLauncher {
	if logger == nil {
		logger = slog.Default()
	}
	return &XDGLauncher{Command: "xdg-open", Logger: logger}
}

// Open starts the handler for path and returns once it is running. The
// process is reaped in the background.
func (l *XDGLauncher) Open(path string) error {
	cmd := exec.Command(l.Command, path)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", l.Command, err)
	}
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			logger.Debug("opener exited with error", "command", l.Command, "path", path, "error", err)
		}
	}()
	return nil
}
