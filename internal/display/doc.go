// Package display hosts the popup in a GTK4/libadwaita layer-shell window.
// It turns toolkit input into popup events, shows rendered frames, and
// drives the popup's timers from the GLib main loop.
package display
