package snapshot

import (
	"sort"
	"strings"
)

// Less orders directories before files, then names case-insensitively.
func Less(a, b Entry) bool {
	if a.IsDir != b.IsDir {
		return a.IsDir
	}
	return strings.ToLower(a.Name) < strings.ToLower(b.Name)
}

// Sort sorts entries in place. Entries that compare equal keep their
// enumeration order.
func Sort(entries []Entry) {
	if len(entries) < 2 {
		return
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return Less(entries[i], entries[j])
	})
}

// IsSorted reports whether entries are already in display order.
func IsSorted(entries []Entry) bool {
	return sort.SliceIsSorted(entries, func(i, j int) bool {
		return Less(entries[i], entries[j])
	})
}
