package ui

import "fmt"

// ANSI256 color codes for the diff status line.
const (
	colorAdded    = 40  // green
	colorRemoved  = 160 // red
	colorModified = 178 // yellow
	colorMuted    = 245 // medium gray
)

var noColor bool

// RenderAdded returns s in the added (green) color.
func RenderAdded(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorAdded, s)
}

// RenderRemoved returns s in the removed (red) color.
func RenderRemoved(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorRemoved, s)
}

// RenderModified returns s in the modified (yellow) color.
func RenderModified(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorModified, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorMuted, s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
