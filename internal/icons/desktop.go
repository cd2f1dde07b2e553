package icons

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DesktopFile holds the keys of a .desktop file's main group that matter
// for shortcuts.
type DesktopFile struct {
	Type string
	Name string
	Icon string
	URL  string
	Exec string
}

// ParseDesktopFile reads the [Desktop Entry] group of path.
func ParseDesktopFile(path string) (DesktopFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return DesktopFile{}, err
	}
	defer func() { _ = f.Close() }()

	var d DesktopFile
	inEntry := false
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			inEntry = line == "[Desktop Entry]"
			continue
		}
		if !inEntry {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = unescape(strings.TrimSpace(value))
		switch strings.TrimSpace(key) {
		case "Type":
			d.Type = value
		case "Name":
			d.Name = value
		case "Icon":
			d.Icon = value
		case "URL":
			d.URL = value
		case "Exec":
			d.Exec = value
		}
	}
	if err := sc.Err(); err != nil {
		return DesktopFile{}, fmt.Errorf("read %s: %w", path, err)
	}
	return d, nil
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	return strings.NewReplacer(`\\`, `\`, `\n`, "\n", `\t`, "\t", `\r`, "\r", `\s`, " ").Replace(s)
}

// ResolveTarget returns the local path a shortcut points at: the target
// of a symlink or the file:// URL of a Link desktop entry.
func ResolveTarget(path string) (string, bool) {
	fi, err := os.Lstat(path)
	if err != nil {
		return "", false
	}
	if fi.Mode()&os.ModeSymlink != 0 {
		target, err := filepath.EvalSymlinks(path)
		if err != nil {
			return "", false
		}
		return target, true
	}
	if !strings.EqualFold(filepath.Ext(path), ".desktop") {
		return "", false
	}

	d, err := ParseDesktopFile(path)
	if err != nil || d.Type != "Link" || d.URL == "" {
		return "", false
	}
	u, err := url.Parse(d.URL)
	if err != nil {
		return "", false
	}
	switch u.Scheme {
	case "file":
		return u.Path, u.Path != ""
	case "":
		return d.URL, filepath.IsAbs(d.URL)
	}
	return "", false
}

// ResolveTargetWithin runs ResolveTarget but gives up after timeout, e.g.
// when the target lives on a stalled network mount.
func ResolveTargetWithin(path string, timeout time.Duration) (string, bool) {
	type result struct {
		target string
		ok     bool
	}
	done := make(chan result, 1)
	go func() {
		t, ok := ResolveTarget(path)
		done <- result{t, ok}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case r := <-done:
		return r.target, r.ok
	case <-timer.C:
		return "", false
	}
}
