package output

import (
	"fmt"
	"io"
	"text/template"
)

// DmenuFormatter writes one path per line for dmenu, rofi or fuzzel.
type DmenuFormatter struct {
	template *template.Template
}

// NewDmenuFormatter creates a new dmenu formatter.
func NewDmenuFormatter(opts FormatterOptions) *DmenuFormatter {
	return &DmenuFormatter{template: parseTemplate("dmenu", opts.Template)}
}

// Format writes the listing in dmenu format.
func (f *DmenuFormatter) Format(w io.Writer, l Listing) error {
	for i := range l.Entries {
		line := l.Entries[i].Path
		if f.template != nil {
			var err error
			if line, err = execTemplate(f.template, &l.Entries[i]); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
