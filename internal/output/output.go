// Package output provides output formatters for folder snapshots.
package output

import (
	"io"
	"os"
	"time"

	"github.com/jmylchreest/folderpop/internal/snapshot"
)

// Record is one folder entry as printed by the list command.
type Record struct {
	Index    int       `json:"index" yaml:"index"`
	Name     string    `json:"name" yaml:"name"`
	Path     string    `json:"path" yaml:"path"`
	Kind     string    `json:"kind" yaml:"kind"` // "folder" or "file"
	Tooltip  string    `json:"tooltip" yaml:"tooltip"`
	Size     int64     `json:"size" yaml:"size"`
	Modified time.Time `json:"modified" yaml:"modified"`
	HasIcon  bool      `json:"has_icon" yaml:"has_icon"`
}

// Listing is a snapshot in printable form.
type Listing struct {
	Folder  string   `json:"folder" yaml:"folder"`
	Title   string   `json:"title" yaml:"title"`
	Status  string   `json:"status" yaml:"status"`
	Entries []Record `json:"entries" yaml:"entries"`
}

// NewListing converts a snapshot. Size and modification time come from
// lstat and stay zero when it fails.
func NewListing(s *snapshot.Snapshot) Listing {
	l := Listing{
		Folder:  s.Folder,
		Title:   s.Title(),
		Status:  s.StatusText(),
		Entries: make([]Record, 0, s.Len()),
	}
	for i, e := range s.Entries {
		r := Record{
			Index:   i + 1,
			Name:    e.Name,
			Path:    e.Path,
			Kind:    "file",
			Tooltip: e.TooltipText(),
			HasIcon: e.Icon.Image() != nil,
		}
		if e.IsDir {
			r.Kind = "folder"
		}
		if fi, err := os.Lstat(e.Path); err == nil {
			r.Modified = fi.ModTime()
			if !e.IsDir {
				r.Size = fi.Size()
			}
		}
		l.Entries = append(l.Entries, r)
	}
	return l
}

// Formatter formats a listing for output.
type Formatter interface {
	// Format writes the formatted listing to the writer.
	Format(w io.Writer, l Listing) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatPlain FormatType = "plain"
	FormatDmenu FormatType = "dmenu"
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
)

// ValidFormats returns all format names.
func ValidFormats() []FormatType {
	return []FormatType{FormatPlain, FormatDmenu, FormatJSON, FormatYAML}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template  string // Custom per-entry template for plain/dmenu format
	ShowIndex bool   // Show 1-based index prefix
	ShowSize  bool   // Show humanized file size
	ShowTime  bool   // Show relative modification time
	Header    bool   // Print title and status lines
}

// DefaultFormatterOptions returns sensible defaults for plain output.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		ShowIndex: true,
		ShowSize:  true,
		ShowTime:  true,
		Header:    true,
	}
}

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) Formatter {
	switch format {
	case FormatJSON:
		return NewJSONFormatter()
	case FormatYAML:
		return NewYAMLFormatter()
	case FormatDmenu:
		return NewDmenuFormatter(opts)
	case FormatPlain:
		fallthrough
	default:
		return NewPlainFormatter(opts)
	}
}
