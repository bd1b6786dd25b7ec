// Package ui holds the lipgloss stylesheet shared by the CLI commands.
//
// The [Palette] groups the named styles (title, ok, err, warn, help) used
// when rendering run history, playlist listings, and progress output.
package ui
