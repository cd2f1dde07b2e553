// Package snapshot loads a bounded, sorted view of a folder's immediate children.
package snapshot

import (
	"image"
	"strings"
)

// Icon is a handle to a decoded entry icon.
// Released icons report a nil image; releasing twice is a no-op.
type Icon struct {
	img      image.Image
	release  func()
	released bool
}

// NewIcon wraps an image. The optional release func runs exactly once.
func NewIcon(img image.Image, release func()) *Icon {
	return &Icon{img: img, release: release}
}

// Image returns the icon bitmap, or nil once released.
func (i *Icon) Image() image.Image {
	if i == nil || i.released {
		return nil
	}
	return i.img
}

// Release frees the icon. It reports whether this call did the release.
func (i *Icon) Release() bool {
	if i == nil || i.released {
		return false
	}
	i.released = true
	i.img = nil
	if i.release != nil {
		i.release()
	}
	return true
}

// Released reports whether the icon has been released.
func (i *Icon) Released() bool {
	return i == nil || i.released
}

// Entry is one child of the loaded folder.
type Entry struct {
	Name  string
	Path  string
	IsDir bool
	Icon  *Icon // nil when no icon could be resolved
}

// TooltipText returns the name shown when hovering the entry.
// Files lose their trailing extension unless the only dot leads the name.
func (e Entry) TooltipText() string {
	if e.IsDir {
		return e.Name
	}
	if dot := strings.LastIndexByte(e.Name, '.'); dot > 0 {
		return e.Name[:dot]
	}
	return e.Name
}
