package main

import (
	"fmt"
	"path/filepath"
)

// runRegister adds or removes the context menu entry. The outcome is
// reported as a notification and the command always exits successfully.
func runRegister(add bool) error {
	notifier := newNotifier()

	registrar, err := newRegistrar()
	if err != nil {
		logger.Warn("registrar unavailable", "error", err)
		notifier.Notify("folderpop", "Could not update the context menu: "+err.Error(), true)
		return nil
	}

	if add {
		if err := registrar.Register(); err != nil {
			logger.Warn("register failed", "error", err)
			notifier.Notify("folderpop", "Could not add the context menu entry: "+err.Error(), true)
			return nil
		}
		logger.Info("context menu entry added", "paths", registrar.Paths())
		notifier.Notify("folderpop", "Context menu entry added", false)
		return nil
	}

	if err := registrar.Unregister(); err != nil {
		logger.Warn("unregister failed", "error", err)
		notifier.Notify("folderpop", "Could not remove the context menu entry: "+err.Error(), true)
		return nil
	}
	logger.Info("context menu entry removed")
	notifier.Notify("folderpop", "Context menu entry removed", false)
	return nil
}

// runAddToTaskbar writes a launcher shortcut for target.
func runAddToTaskbar(target string) error {
	notifier := newNotifier()

	shortcut, err := addShortcut(target)
	if err != nil {
		logger.Warn("create shortcut failed", "target", target, "error", err)
		notifier.Notify("folderpop", "Could not create the shortcut: "+err.Error(), true)
		return nil
	}
	logger.Info("shortcut created", "target", target, "shortcut", shortcut)
	notifier.Notify("folderpop", fmt.Sprintf("Shortcut for %s created", filepath.Base(target)), false)
	return nil
}

func addShortcut(target string) (string, error) {
	if target == "" {
		return "", fmt.Errorf("no folder given")
	}
	abs, err := filepath.Abs(expandHome(target))
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", target, err)
	}
	registrar, err := newRegistrar()
	if err != nil {
		return "", err
	}
	return registrar.CreateLauncherShortcut(abs)
}
