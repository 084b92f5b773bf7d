// Package report prints the human-readable status line of each step.
package report

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Reporter writes one line per step outcome.
type Reporter struct {
	out     io.Writer
	success *color.Color
	failure *color.Color
	muted   *color.Color
}

// New returns a Reporter writing to out. Colour is used only when out is a terminal
// and NO_COLOR is not set.
func New(out io.Writer) *Reporter {
	r := &Reporter{
		out:     out,
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed, color.Bold),
		muted:   color.New(color.Faint),
	}
	if IsTerminal(out) && !color.NoColor {
		r.SetColor(true)
	} else {
		r.SetColor(false)
	}
	return r
}

// SetColor forces colour on or off.
func (r *Reporter) SetColor(enabled bool) {
	for _, c := range []*color.Color{r.success, r.failure, r.muted} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}

// IsTerminal reports whether w is a terminal file descriptor.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SitemapUpdated reports a rewritten sitemap.
func (r *Reporter) SitemapUpdated(path, stamp string, updated, urls int, dryRun bool) {
	r.success.Fprintf(r.out, "✅ sitemap lastmod set to %s on %d of %d url entries → %s%s\n",
		stamp, updated, urls, path, dryRunSuffix(dryRun))
}

// MetadataUpdated reports rewritten metadata dates.
func (r *Reporter) MetadataUpdated(path, stamp string, published, modified int, dryRun bool) {
	r.success.Fprintf(r.out, "✅ metadata dates set to local time %s (datePublished: %d, dateModified: %d) → %s%s\n",
		stamp, published, modified, path, dryRunSuffix(dryRun))
}

// NotFound reports a missing artifact at its absolute path.
func (r *Reporter) NotFound(what, path string) {
	r.failure.Fprintf(r.out, "❌ error: %s not found, check the path → %s\n", what, path)
}

// Disabled reports a step switched off by configuration.
func (r *Reporter) Disabled(step string) {
	r.muted.Fprintf(r.out, "– %s step disabled\n", step)
}

func dryRunSuffix(dryRun bool) string {
	if dryRun {
		return " (dry run, not written)"
	}
	return ""
}
