package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
)

// PlainFormatter formats a listing as aligned text.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	return &PlainFormatter{opts: opts, template: parseTemplate("plain", opts.Template)}
}

// Format writes the listing as plain text.
func (f *PlainFormatter) Format(w io.Writer, l Listing) error {
	if f.opts.Header {
		if _, err := fmt.Fprintf(w, "%s\n%s\n\n", l.Title, l.Status); err != nil {
			return err
		}
	}
	for i := range l.Entries {
		line, err := f.formatRecord(&l.Entries[i])
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func (f *PlainFormatter) formatRecord(r *Record) (string, error) {
	if f.template != nil {
		return execTemplate(f.template, r)
	}

	var sb strings.Builder
	if f.opts.ShowIndex {
		fmt.Fprintf(&sb, "%3d  ", r.Index)
	}
	if f.opts.ShowSize {
		size := "-"
		if r.Kind == "file" {
			size = humanize.Bytes(uint64(max(r.Size, 0)))
		}
		fmt.Fprintf(&sb, "%8s  ", size)
	}
	if f.opts.ShowTime {
		fmt.Fprintf(&sb, "%-14s  ", relativeTime(r.Modified))
	}
	sb.WriteString(r.Name)
	if r.Kind == "folder" {
		sb.WriteString("/")
	}
	return sb.String(), nil
}

// templateFuncs returns template helper functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"bytes":   func(n int64) string { return humanize.Bytes(uint64(max(n, 0))) },
		"reltime": relativeTime,
		"truncate": func(s string, maxLen int) string {
			r := []rune(s)
			if maxLen <= 0 || len(r) <= maxLen {
				return s
			}
			if maxLen <= 1 {
				return string(r[:maxLen])
			}
			return string(r[:maxLen-1]) + "…"
		},
	}
}

// parseTemplate returns nil for an empty or invalid template, falling
// back to the built-in layout.
func parseTemplate(name, text string) *template.Template {
	if text == "" {
		return nil
	}
	tmpl, err := template.New(name).Funcs(templateFuncs()).Parse(text)
	if err != nil {
		return nil
	}
	return tmpl
}

func execTemplate(tmpl *template.Template, r *Record) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, r); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return sb.String(), nil
}

// relativeTime returns a human-readable relative time string.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return humanize.Time(t)
}
