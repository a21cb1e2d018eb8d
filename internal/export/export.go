// Package export packages a generated map for download: a standalone HTML
// document embedding the diagram plus references, and a plain-text outline.
// Filenames and MIME types remain the caller's concern.
package export

import (
	"fmt"
	"regexp"

	"github.com/bubbledive/sparkmap/internal/insight"
	"github.com/bubbledive/sparkmap/internal/outline"
)

// Diagram rendering modes.
const (
	// ModeInteractive embeds the node/link data with a browser-side force
	// simulation (d3 from CDN), reproducing live pan/zoom/drag/hover.
	ModeInteractive = "interactive"

	// ModeStatic runs the layout to convergence here and embeds the result
	// as SVG; the document works fully offline.
	ModeStatic = "static"
)

// ValidModes lists the supported diagram modes.
var ValidModes = []string{ModeInteractive, ModeStatic}

// Options configures HTML generation.
type Options struct {
	Mode   string // ModeInteractive (default) or ModeStatic
	Width  float64
	Height float64
}

// DefaultOptions returns the default HTML generation options.
func DefaultOptions() Options {
	return Options{Mode: ModeInteractive, Width: 1200, Height: 880}
}

// validateMode checks the diagram mode option.
func validateMode(mode string) error {
	switch mode {
	case "", ModeInteractive, ModeStatic:
		return nil
	default:
		return fmt.Errorf("invalid mode %q: must be interactive or static", mode)
	}
}

// nonWordPattern collapses runs of non-alphanumeric characters for safe
// filenames.
var nonWordPattern = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// SafeFilename converts a topic into a filesystem-safe stem.
func SafeFilename(topic string) string {
	return nonWordPattern.ReplaceAllString(topic, "_")
}

// HTMLFilename returns the download name for the HTML document.
func HTMLFilename(topic string) string {
	return SafeFilename(topic) + "_SparkMap.html"
}

// TextFilename returns the download name for the text outline.
func TextFilename(topic string) string {
	return SafeFilename(topic) + "_SparkMap.txt"
}

// Text renders the outline export for a normalized tree.
func Text(root *insight.Node) string {
	return outline.Render(root)
}
