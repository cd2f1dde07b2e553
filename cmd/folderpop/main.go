// Package main provides the folderpop command: a transient popup showing
// the contents of a folder next to the pointer.
package main

func main() {
	Execute()
}
