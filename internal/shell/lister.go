// Package shell talks to the desktop: it lists folders, opens paths with
// their default handler, registers file manager context menu actions,
// writes launcher shortcuts and shows notifications.
package shell

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/jmylchreest/folderpop/internal/snapshot"
)

const readDirBatch = 64

// DirLister enumerates folders on the local filesystem in directory order.
type DirLister struct{}

// ListChildren returns at most limit children of path. Symlinks report
// whether their target is a directory. A read error after some entries
// were returned ends the listing early without an error.
func (DirLister) ListChildren(path string, limit int) ([]snapshot.Child, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var out []snapshot.Child
	for len(out) < limit {
		batch, err := f.ReadDir(min(readDirBatch, limit-len(out)))
		for _, de := range batch {
			name := de.Name()
			if name == "." || name == ".." {
				continue
			}
			isDir := de.IsDir()
			if de.Type()&os.ModeSymlink != 0 {
				if fi, err := os.Stat(filepath.Join(path, name)); err == nil {
					isDir = fi.IsDir()
				}
			}
			out = append(out, snapshot.Child{Name: name, IsDir: isDir})
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if len(out) == 0 {
				return nil, err
			}
			break
		}
	}
	return out, nil
}
