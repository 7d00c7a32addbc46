// Package render turns markdown replies into styled terminal output.
package render

import (
	"os"

	"github.com/diogo/companion/internal/config"
)

// Options configures the markdown renderer.
type Options struct {
	// Width is the maximum output width (default: 80)
	Width int

	// Style is a glamour style name: "dark", "light", "dracula", "notty",
	// "ascii", or a path to a custom JSON style file
	Style string

	// EnableEmoji converts :emoji: codes to unicode characters
	EnableEmoji bool

	// PreserveNewLines keeps the original line breaks
	PreserveNewLines bool
}

// DefaultOptions returns the default renderer configuration.
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            "dark",
		EnableEmoji:      true,
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

// KnownStyle reports whether the style names one of glamour's bundled
// styles. Anything else is treated as a path to a JSON style file.
func KnownStyle(style string) bool {
	switch style {
	case "dark", "light", "dracula", "notty", "ascii", "auto":
		return true
	default:
		return false
	}
}

// OptionsFromConfig builds renderer options from the user configuration.
// The GLAMOUR_STYLE environment variable overrides the configured style.
func OptionsFromConfig(cfg *config.Config, width int) Options {
	opts := DefaultOptions().WithWidth(width)
	if cfg != nil && cfg.MarkdownStyle != "" {
		opts.Style = cfg.MarkdownStyle
	}
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}
	return opts
}
