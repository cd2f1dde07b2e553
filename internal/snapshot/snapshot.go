package snapshot

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// DefaultMaxEntries bounds how many children a snapshot keeps.
const DefaultMaxEntries = 256

// Child is one name reported by a Lister.
type Child struct {
	Name  string
	IsDir bool
}

// Lister enumerates the immediate children of a folder.
// Implementations should stop after max children.
type Lister interface {
	ListChildren(path string, max int) ([]Child, error)
}

// IconProvider resolves icons for filesystem paths.
type IconProvider interface {
	// IconFor returns the icon for path, or false when none resolves.
	IconFor(path string, isDir bool) (*Icon, bool)
	// ResolveShortcutTarget returns the target of a shortcut, or false
	// when path is not a shortcut or cannot be resolved in time.
	ResolveShortcutTarget(path string) (string, bool)
}

// LoadOptions configures Load.
type LoadOptions struct {
	MaxEntries int
	Lister     Lister
	Icons      IconProvider // optional
	Logger     *slog.Logger
}

// Snapshot is the loaded, sorted and bounded content of one folder.
type Snapshot struct {
	Folder  string
	Entries []Entry

	released bool
}

// Load enumerates folder and returns its snapshot. It never fails: an
// unreadable folder yields an empty snapshot.
func Load(folder string, opts LoadOptions) *Snapshot {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limit := opts.MaxEntries
	if limit <= 0 {
		limit = DefaultMaxEntries
	}

	s := &Snapshot{Folder: folder}
	if opts.Lister == nil {
		return s
	}

	children, err := opts.Lister.ListChildren(folder, limit)
	if err != nil {
		logger.Debug("folder enumeration failed, using empty snapshot", "folder", folder, "error", err)
		return s
	}

	s.Entries = make([]Entry, 0, min(len(children), limit))
	for _, c := range children {
		if c.Name == "." || c.Name == ".." || c.Name == "" {
			continue
		}
		if len(s.Entries) >= limit {
			break
		}
		path := filepath.Join(folder, c.Name)
		s.Entries = append(s.Entries, Entry{
			Name:  c.Name,
			Path:  path,
			IsDir: c.IsDir,
			Icon:  loadIcon(opts.Icons, path, c.IsDir),
		})
	}

	Sort(s.Entries)

	logger.Debug("snapshot loaded", "folder", folder, "entries", len(s.Entries), "listed", len(children))
	return s
}

// loadIcon prefers the shortcut target's icon and falls back to the
// shortcut's own icon.
func loadIcon(icons IconProvider, path string, isDir bool) *Icon {
	if icons == nil {
		return nil
	}
	if target, ok := icons.ResolveShortcutTarget(path); ok && target != "" {
		if icon, ok := icons.IconFor(target, isDir); ok {
			return icon
		}
	}
	if icon, ok := icons.IconFor(path, isDir); ok {
		return icon
	}
	return nil
}

// Len returns the number of entries.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Entries)
}

// At returns the entry at index i.
func (s *Snapshot) At(i int) (Entry, bool) {
	if s == nil || i < 0 || i >= len(s.Entries) {
		return Entry{}, false
	}
	return s.Entries[i], true
}

// Title returns the folder's display name: its last path element.
func (s *Snapshot) Title() string {
	if s == nil {
		return ""
	}
	trimmed := strings.TrimRight(s.Folder, string(filepath.Separator))
	if trimmed == "" {
		return s.Folder
	}
	base := filepath.Base(trimmed)
	if base == "." {
		return s.Folder
	}
	return base
}

// Counts returns how many entries are folders and files.
func (s *Snapshot) Counts() (folders, files int) {
	if s == nil {
		return 0, 0
	}
	for _, e := range s.Entries {
		if e.IsDir {
			folders++
		} else {
			files++
		}
	}
	return folders, files
}

// StatusText returns the status bar summary for the snapshot.
func (s *Snapshot) StatusText() string {
	return StatusText(s.Counts())
}

// StatusText formats folder and file counts as shown in the status bar.
func StatusText(folders, files int) string {
	switch {
	case folders > 0 && files > 0:
		return plural(folders, "folder") + ", " + plural(files, "file")
	case folders > 0:
		return plural(folders, "folder")
	case files > 0:
		return plural(files, "file")
	default:
		return "Empty folder"
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// Release frees every entry icon. Only the first call has any effect.
func (s *Snapshot) Release() {
	if s == nil || s.released {
		return
	}
	s.released = true
	for i := range s.Entries {
		s.Entries[i].Icon.Release()
	}
}

// Released reports whether Release has run.
func (s *Snapshot) Released() bool {
	return s == nil || s.released
}
