// Package ui provides theme and color support for the command-line output.
// Colors are rendered through lipgloss, which downgrades them to whatever the
// output terminal supports and drops them entirely when it is not a terminal.
package ui
