package shell

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

const actionID = "folderpop"

// fmaTemplate is a FileManager-Actions entry, read by Nautilus, Caja and
// Nemo extensions that support the format.
var fmaTemplate = template.Must(template.New("fma").Funcs(funcs).Parse(`[Desktop Entry]
Type=Action
Name={{ value .Label }}
Tooltip={{ value .Tooltip }}
Icon=folder
Profiles={{ .ID }};

[X-Action-Profile {{ .ID }}]
MimeTypes=inode/directory;
Exec={{ exec .Exe "--folder" }} %f
`))

var kdeTemplate = template.Must(template.New("kde").Funcs(funcs).Parse(`[Desktop Entry]
Type=Service
MimeType=inode/directory;
Actions={{ .ID }};
X-KDE-ServiceTypes=KonqPopupMenu/Plugin

[Desktop Action {{ .ID }}]
Name={{ value .Label }}
Icon=folder
Exec={{ exec .Exe "--folder" }} %f
`))

var nemoTemplate = template.Must(template.New("nemo").Funcs(funcs).Parse(`[Nemo Action]
Name={{ value .Label }}
Comment={{ value .Tooltip }}
Exec={{ exec .Exe "--folder" }} %F
Icon-Name=folder
Selection=s
Extensions=dir;
`))

var shortcutTemplate = template.Must(template.New("shortcut").Funcs(funcs).Parse(`[Desktop Entry]
Type=Application
Version=1.0
Name={{ value .Label }}
Comment={{ value .Tooltip }}
Exec={{ exec .Exe "--folder" .Target }}
Icon=folder
Terminal=false
Categories=Utility;
`))

var funcs = template.FuncMap{
	"value": EscapeValue,
	"exec":  ExecLine,
}

type entryData struct {
	ID      string
	Label   string
	Tooltip string
	Exe     string
	Target  string
}

type integration struct {
	rel  string
	tmpl *template.Template
	mode fs.FileMode
}

var integrations = []integration{
	{rel: filepath.Join("file-manager", "actions", actionID+".desktop"), tmpl: fmaTemplate, mode: 0o644},
	{rel: filepath.Join("kio", "servicemenus", actionID+".desktop"), tmpl: kdeTemplate, mode: 0o755},
	{rel: filepath.Join("nemo", "actions", actionID+".nemo_action"), tmpl: nemoTemplate, mode: 0o644},
}

// RegistrarOptions configures a Registrar.
type RegistrarOptions struct {
	// DataHome is $XDG_DATA_HOME; empty resolves it from the environment.
	DataHome string
	// Executable is the program the menu entries run; empty uses os.Executable.
	Executable string
	// ShortcutDir receives launcher shortcuts; empty uses the executable's
	// directory.
	ShortcutDir string
	Logger      *slog.Logger
}

// Registrar installs the "Show in folderpop" context menu action for the
// file managers that read user action files, and writes launcher
// shortcuts.
type Registrar struct {
	dataHome    string
	exe         string
	shortcutDir string
	logger      *slog.Logger
}

// NewRegistrar resolves defaults and creates a Registrar.
func NewRegistrar(opts RegistrarOptions) (*Registrar, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	dataHome := opts.DataHome
	if dataHome == "" {
		dataHome = DataHome()
	}
	exe := opts.Executable
	if exe == "" {
		var err error
		if exe, err = os.Executable(); err != nil {
			return nil, fmt.Errorf("locate executable: %w", err)
		}
	}
	shortcutDir := opts.ShortcutDir
	if shortcutDir == "" {
		shortcutDir = filepath.Dir(exe)
	}
	return &Registrar{
		dataHome:    dataHome,
		exe:         exe,
		shortcutDir: shortcutDir,
		logger:      logger,
	}, nil
}

func (r *Registrar) data() entryData {
	return entryData{
		ID:      actionID,
		Label:   "Show in folderpop",
		Tooltip: "Show the folder contents in a popup",
		Exe:     r.exe,
	}
}

// Paths returns the files Register writes.
func (r *Registrar) Paths() []string {
	paths := make([]string, len(integrations))
	for i, in := range integrations {
		paths[i] = filepath.Join(r.dataHome, in.rel)
	}
	return paths
}

// IsRegistered reports whether the context menu action is installed.
func (r *Registrar) IsRegistered() bool {
	_, err := os.Stat(filepath.Join(r.dataHome, integrations[0].rel))
	return err == nil
}

// Register writes every context menu action file.
func (r *Registrar) Register() error {
	d := r.data()
	for _, in := range integrations {
		path := filepath.Join(r.dataHome, in.rel)
		if err := writeTemplate(path, in.tmpl, d, in.mode); err != nil {
			return fmt.Errorf("register %s: %w", path, err)
		}
		r.logger.Debug("wrote context menu action", "path", path)
	}
	return nil
}

// Unregister removes every context menu action file. Missing files are
// not an error.
func (r *Registrar) Unregister() error {
	var errs []error
	for _, in := range integrations {
		path := filepath.Join(r.dataHome, in.rel)
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("unregister %s: %w", path, err))
			continue
		}
		r.logger.Debug("removed context menu action", "path", path)
	}
	return errors.Join(errs...)
}

// CreateLauncherShortcut writes an application entry that opens target in
// the popup and returns its path.
func (r *Registrar) CreateLauncherShortcut(target string) (string, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", target, err)
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("shortcut target: %w", err)
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("shortcut target %s is not a folder", abs)
	}

	name := ShortcutName(abs)
	d := r.data()
	d.Label = name
	d.Tooltip = "Show " + abs + " in a popup"
	d.Target = abs

	path := filepath.Join(r.shortcutDir, name+".desktop")
	if err := writeTemplate(path, shortcutTemplate, d, 0o755); err != nil {
		return "", fmt.Errorf("create shortcut: %w", err)
	}
	r.logger.Debug("wrote launcher shortcut", "path", path, "target", abs)
	return path, nil
}

func writeTemplate(path string, tmpl *template.Template, data entryData, mode fs.FileMode) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), mode); err != nil {
		return err
	}
	// WriteFile keeps the mode of an existing file.
	return os.Chmod(path, mode)
}

// ShortcutName derives a file and display name from a folder path.
func ShortcutName(path string) string {
	base := filepath.Base(filepath.Clean(path))
	if base == string(filepath.Separator) || base == "." || base == "" {
		return "root"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, base)
}

// EscapeValue escapes a desktop entry string value.
func EscapeValue(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\t", `\t`, "\r", `\r`)
	return r.Replace(s)
}

// ExecLine builds an Exec key value from arguments, quoting those that
// need it and escaping field codes.
func ExecLine(args ...string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = EscapeValue(quoteExecArg(a))
	}
	return strings.Join(quoted, " ")
}

const execReserved = " \t\n\"'\\><~|&;$*?#()`"

func quoteExecArg(a string) string {
	a = strings.ReplaceAll(a, "%", "%%")
	if a != "" && !strings.ContainsAny(a, execReserved) {
		return a
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range a {
		switch r {
		case '"', '`', '$', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}
