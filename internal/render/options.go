// Package render turns assistant markdown into styled terminal output.
package render

import (
	"os"

	"github.com/maduarte/chatdeck/internal/config"
)

// Options configures the markdown renderer.
type Options struct {
	// Width is the maximum output width in cells
	Width int

	// Style is a glamour style name ("dark", "light") or a path to a
	// JSON style file
	Style string

	// PreserveNewLines keeps single line breaks from the source
	PreserveNewLines bool
}

// DefaultOptions returns the default renderer configuration.
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            "dark",
		PreserveNewLines: true,
	}
}

// WithWidth returns Options with the specified width.
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithStyle returns Options with the specified style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}

// OptionsFromConfig maps the user's markdown settings onto renderer
// options. The GLAMOUR_STYLE environment variable overrides the
// configured style.
func OptionsFromConfig(md config.MarkdownConfig) Options {
	opts := DefaultOptions()
	if md.Style != "" {
		opts.Style = md.Style
	}
	opts.PreserveNewLines = md.PreserveNewLines

	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}
	return opts
}
