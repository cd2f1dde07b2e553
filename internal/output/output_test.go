package output

import (
	"bytes"
	"encoding/json"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/folderpop/internal/snapshot"
)

func testListing(t *testing.T) Listing {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Photos"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), bytes.Repeat([]byte("x"), 2048), 0o644))

	s := &snapshot.Snapshot{
		Folder: dir,
		Entries: []snapshot.Entry{
			{Name: "Photos", Path: filepath.Join(dir, "Photos"), IsDir: true,
				Icon: snapshot.NewIcon(image.NewRGBA(image.Rect(0, 0, 1, 1)), nil)},
			{Name: "notes.txt", Path: filepath.Join(dir, "notes.txt")},
		},
	}
	return NewListing(s)
}

func TestNewListing(t *testing.T) {
	l := testListing(t)

	assert.Equal(t, filepath.Base(l.Folder), l.Title)
	assert.Equal(t, "1 folder, 1 file", l.Status)
	require.Len(t, l.Entries, 2)

	assert.Equal(t, Record{Index: 1, Name: "Photos", Path: l.Entries[0].Path, Kind: "folder",
		Tooltip: "Photos", Modified: l.Entries[0].Modified, HasIcon: true}, l.Entries[0])
	assert.Equal(t, "file", l.Entries[1].Kind)
	assert.Equal(t, "notes", l.Entries[1].Tooltip)
	assert.Equal(t, int64(2048), l.Entries[1].Size)
	assert.False(t, l.Entries[1].Modified.IsZero())
	assert.False(t, l.Entries[1].HasIcon)
}

func TestPlainFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPlainFormatter(DefaultFormatterOptions()).Format(&buf, testListing(t)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "1 folder, 1 file", lines[1])
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[3]), "1"))
	assert.True(t, strings.HasSuffix(lines[3], "Photos/"))
	assert.Contains(t, lines[4], "2.0 kB")
	assert.Regexp(t, `now|ago`, lines[4])
	assert.True(t, strings.HasSuffix(lines[4], "notes.txt"))
}

func TestPlainFormatter_Bare(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPlainFormatter(FormatterOptions{}).Format(&buf, testListing(t)))

	assert.Equal(t, "Photos/\nnotes.txt\n", buf.String())
}

func TestPlainFormatter_CustomTemplate(t *testing.T) {
	opts := FormatterOptions{Template: "{{.Index}}:{{.Kind}}:{{truncate .Name 4}}:{{bytes .Size}}"}
	var buf bytes.Buffer
	require.NoError(t, NewPlainFormatter(opts).Format(&buf, testListing(t)))

	assert.Equal(t, "1:folder:Pho…:0 B\n2:file:not…:2.0 kB\n", buf.String())
}

func TestPlainFormatter_InvalidTemplateFallsBack(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPlainFormatter(FormatterOptions{Template: "{{.Name"}).Format(&buf, testListing(t)))

	assert.Equal(t, "Photos/\nnotes.txt\n", buf.String())
}

func TestDmenuFormatter_Format(t *testing.T) {
	l := testListing(t)
	var buf bytes.Buffer
	require.NoError(t, NewDmenuFormatter(FormatterOptions{}).Format(&buf, l))

	assert.Equal(t, l.Entries[0].Path+"\n"+l.Entries[1].Path+"\n", buf.String())
}

func TestJSONFormatter_Format(t *testing.T) {
	l := testListing(t)
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().Format(&buf, l))

	var decoded Listing
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, l.Folder, decoded.Folder)
	require.Len(t, decoded.Entries, 2)
	assert.Equal(t, "notes.txt", decoded.Entries[1].Name)
	assert.Contains(t, buf.String(), `"kind": "folder"`)
}

func TestYAMLFormatter_Format(t *testing.T) {
	l := testListing(t)
	var buf bytes.Buffer
	require.NoError(t, NewYAMLFormatter().Format(&buf, l))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "1 folder, 1 file", decoded["status"])
	assert.Len(t, decoded["entries"], 2)
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format FormatType
		want   any
	}{
		{FormatPlain, &PlainFormatter{}},
		{FormatDmenu, &DmenuFormatter{}},
		{FormatJSON, &JSONFormatter{}},
		{FormatYAML, &YAMLFormatter{}},
		{"unknown", &PlainFormatter{}},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			assert.IsType(t, tt.want, NewFormatter(tt.format, FormatterOptions{}))
		})
	}
}
