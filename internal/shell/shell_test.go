package shell

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	godbus "github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/folderpop/internal/snapshot"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestDirLister(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	touch(t, filepath.Join(dir, "a.txt"))
	touch(t, filepath.Join(dir, ".hidden"))
	require.NoError(t, os.Symlink(filepath.Join(dir, "sub"), filepath.Join(dir, "link")))

	children, err := DirLister{}.ListChildren(dir, 100)
	require.NoError(t, err)

	sort.Slice(children, func(i, j int) bool { return children[i].Name < children[j].Name })
	assert.Equal(t, []snapshot.Child{
		{Name: ".hidden"},
		{Name: "a.txt"},
		{Name: "link", IsDir: true},
		{Name: "sub", IsDir: true},
	}, children)
}

func TestDirLister_Limit(t *testing.T) {
	dir := t.TempDir()
	for i := range 150 {
		touch(t, filepath.Join(dir, string(rune('a'+i%26))+string(rune('a'+i/26))))
	}

	children, err := DirLister{}.ListChildren(dir, 100)
	require.NoError(t, err)
	assert.Len(t, children, 100)
}

func TestDirLister_Missing(t *testing.T) {
	_, err := DirLister{}.ListChildren(filepath.Join(t.TempDir(), "nope"), 10)
	assert.Error(t, err)
}

func TestDirLister_FeedsSnapshot(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.txt"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Zeta"), 0o755))

	s := snapshot.Load(dir, snapshot.LoadOptions{Lister: DirLister{}})

	require.Equal(t, 2, s.Len())
	first, _ := s.At(0)
	assert.Equal(t, "Zeta", first.Name)
	assert.Equal(t, "1 folder, 1 file", s.StatusText())
}

func newTestRegistrar(t *testing.T) (*Registrar, string) {
	t.Helper()
	data := t.TempDir()
	r, err := NewRegistrar(RegistrarOptions{
		DataHome:    data,
		Executable:  "/opt/folder pop/folderpop",
		ShortcutDir: filepath.Join(data, "shortcuts"),
	})
	require.NoError(t, err)
	return r, data
}

func TestRegistrar_RoundTrip(t *testing.T) {
	r, data := newTestRegistrar(t)

	assert.False(t, r.IsRegistered())
	require.NoError(t, r.Register())
	assert.True(t, r.IsRegistered())

	for _, p := range r.Paths() {
		assert.FileExists(t, p)
	}

	fma, err := os.ReadFile(filepath.Join(data, "file-manager", "actions", "folderpop.desktop"))
	require.NoError(t, err)
	assert.Contains(t, string(fma), `Exec="/opt/folder pop/folderpop" --folder %f`)
	assert.Contains(t, string(fma), "MimeTypes=inode/directory;")

	fi, err := os.Stat(filepath.Join(data, "kio", "servicemenus", "folderpop.desktop"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), fi.Mode().Perm())

	require.NoError(t, r.Unregister())
	assert.False(t, r.IsRegistered())
	for _, p := range r.Paths() {
		assert.NoFileExists(t, p)
	}
}

func TestRegistrar_UnregisterWhenAbsent(t *testing.T) {
	r, _ := newTestRegistrar(t)

	assert.NoError(t, r.Unregister())
}

func TestRegistrar_RegisterFailure(t *testing.T) {
	data := t.TempDir()
	// A file where a directory is needed makes every write fail.
	touch(t, filepath.Join(data, "file-manager"))
	r, err := NewRegistrar(RegistrarOptions{DataHome: data, Executable: "/usr/bin/folderpop"})
	require.NoError(t, err)

	err = r.Register()
	assert.Error(t, err)
	assert.False(t, r.IsRegistered())
}

func TestRegistrar_CreateLauncherShortcut(t *testing.T) {
	r, data := newTestRegistrar(t)
	target := filepath.Join(t.TempDir(), "My Projects")
	require.NoError(t, os.Mkdir(target, 0o755))

	path, err := r.CreateLauncherShortcut(target)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(data, "shortcuts", "My Projects.desktop"), path)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Name=My Projects\n")
	assert.Contains(t, string(content), `Exec="/opt/folder pop/folderpop" --folder "`+target+`"`)

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), fi.Mode().Perm())
}

func TestRegistrar_ShortcutRejectsFiles(t *testing.T) {
	r, _ := newTestRegistrar(t)
	file := filepath.Join(t.TempDir(), "a.txt")
	touch(t, file)

	_, err := r.CreateLauncherShortcut(file)
	assert.Error(t, err)

	_, err = r.CreateLauncherShortcut(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestRegistrar_DefaultShortcutDirIsExecutableDir(t *testing.T) {
	r, err := NewRegistrar(RegistrarOptions{DataHome: t.TempDir(), Executable: "/usr/local/bin/folderpop"})
	require.NoError(t, err)

	assert.Equal(t, "/usr/local/bin", r.shortcutDir)
}

func TestExecLine(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"plain", []string{"/usr/bin/folderpop", "--folder"}, "/usr/bin/folderpop --folder"},
		{"space", []string{"/home/a b/x"}, `"/home/a b/x"`},
		{"percent", []string{"/tmp/100%"}, "/tmp/100%%"},
		{"dollar", []string{"/tmp/$HOME"}, `"/tmp/\\$HOME"`},
		{"quote", []string{`/tmp/say "hi"`}, `"/tmp/say \\"hi\\""`},
		{"empty", []string{""}, `""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExecLine(tt.args...))
		})
	}
}

func TestShortcutName(t *testing.T) {
	assert.Equal(t, "Projects", ShortcutName("/home/user/Projects/"))
	assert.Equal(t, "root", ShortcutName("/"))
	assert.Equal(t, "a_b", ShortcutName("/tmp/a:b"))
}

func TestEscapeValue(t *testing.T) {
	assert.Equal(t, `a\nb\\c`, EscapeValue("a\nb\\c"))
}

type recordingSender struct {
	sent []Notification
	err  error
}

func (r *recordingSender) send(ctx context.Context, n Notification) (uint32, error) {
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("no deadline")
	}
	r.sent = append(r.sent, n)
	return uint32(len(r.sent)), r.err
}

func TestNotifier(t *testing.T) {
	rec := &recordingSender{}
	n := NewNotifier(rec.send, time.Second, nil)

	n.Notify("Registered", "Added to the context menu.", false)
	n.Notify("Failed", "permission denied", true)

	require.Len(t, rec.sent, 2)
	assert.Equal(t, "folderpop", rec.sent[0].AppName)
	assert.Equal(t, godbus.MakeVariant(byte(0)), rec.sent[0].Hints["urgency"])
	assert.Equal(t, godbus.MakeVariant(byte(2)), rec.sent[1].Hints["urgency"])
	assert.Equal(t, "dialog-error", rec.sent[1].AppIcon)
}

func TestNotifier_RateLimitsRepeats(t *testing.T) {
	rec := &recordingSender{}
	n := NewNotifier(rec.send, time.Second, nil)

	n.Notify("Same", "message", false)
	n.Notify("Same", "message", false)
	n.Notify("Same", "other", false)

	assert.Len(t, rec.sent, 2)
}

func TestNotifier_SendFailureIsAbsorbed(t *testing.T) {
	rec := &recordingSender{err: errors.New("no server")}
	n := NewNotifier(rec.send, time.Second, nil)

	assert.NotPanics(t, func() { n.Notify("x", "y", true) })
}

func TestXDGLauncher(t *testing.T) {
	l := &XDGLauncher{Command: "true"}
	assert.NoError(t, l.Open("/tmp"))

	l = &XDGLauncher{Command: filepath.Join(t.TempDir(), "missing-opener")}
	assert.Error(t, l.Open("/tmp"))
}

func TestDataHome(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/custom/share")
	assert.Equal(t, "/custom/share", DataHome())

	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, "/home/tester/.local/share", DataHome())
}
