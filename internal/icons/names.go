// Package icons maps filesystem entries to freedesktop icon names and
// resolves shortcut targets. The toolkit-bound lookup lives in the
// display package.
package icons

import (
	"mime"
	"path/filepath"
	"strings"
)

// Names returns icon theme names to try for path, most specific first.
func Names(path string, isDir bool) []string {
	if isDir {
		return folderNames(path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".desktop" {
		if d, err := ParseDesktopFile(path); err == nil && d.Icon != "" {
			return []string{d.Icon, "application-x-executable", "text-x-generic"}
		}
	}

	var names []string
	if mt := MimeType(path); mt != "" {
		base, _, _ := strings.Cut(mt, ";")
		major, _, _ := strings.Cut(base, "/")
		names = append(names,
			strings.ReplaceAll(base, "/", "-"),
			major+"-x-generic",
		)
		if major == "application" {
			names = append(names, "application-x-executable")
		}
	}
	if n, ok := extraNames[ext]; ok {
		names = append([]string{n}, names...)
	}
	return append(names, "text-x-generic", "unknown")
}

// MimeType guesses a MIME type from the file extension.
func MimeType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return ""
	}
	if mt, ok := extraTypes[ext]; ok {
		return mt
	}
	return mime.TypeByExtension(ext)
}

// extraTypes covers extensions the system MIME tables often miss.
var extraTypes = map[string]string{
	".go":   "text/x-go",
	".md":   "text/markdown",
	".rs":   "text/rust",
	".py":   "text/x-python",
	".sh":   "application/x-shellscript",
	".toml": "application/toml",
	".yaml": "application/x-yaml",
	".yml":  "application/x-yaml",
	".iso":  "application/x-cd-image",
	".deb":  "application/vnd.debian.binary-package",
	".rpm":  "application/x-rpm",
	".7z":   "application/x-7z-compressed",
}

var extraNames = map[string]string{
	".appimage": "application-x-executable",
}

// well-known XDG folders have their own icons.
var folderIcons = map[string]string{
	"desktop":   "user-desktop",
	"documents": "folder-documents",
	"downloads": "folder-download",
	"music":     "folder-music",
	"pictures":  "folder-pictures",
	"videos":    "folder-videos",
	"templates": "folder-templates",
	"public":    "folder-publicshare",
}

func folderNames(path string) []string {
	if n, ok := folderIcons[strings.ToLower(filepath.Base(path))]; ok {
		return []string{n, "folder"}
	}
	return []string{"folder"}
}
