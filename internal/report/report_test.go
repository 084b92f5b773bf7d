package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReporterLines(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := New(&buf)

	r.SitemapUpdated("/site/public/sitemap.xml", "2024-06-01T12:00:00+00:00", 2, 3, false)
	r.MetadataUpdated("/site/public/index.html", "2024-06-01T21:00:00+09:00", 1, 1, true)
	r.NotFound("public/sitemap.xml", "/site/public/sitemap.xml")
	r.Disabled("metadata")

	want := "✅ sitemap lastmod set to 2024-06-01T12:00:00+00:00 on 2 of 3 url entries → /site/public/sitemap.xml\n" +
		"✅ metadata dates set to local time 2024-06-01T21:00:00+09:00 (datePublished: 1, dateModified: 1) → /site/public/index.html (dry run, not written)\n" +
		"❌ error: public/sitemap.xml not found, check the path → /site/public/sitemap.xml\n" +
		"– metadata step disabled\n"
	assert.Equal(t, want, buf.String())
}

func TestReporterColor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := New(&buf)
	r.SetColor(true)
	r.NotFound("public/index.html", "/x/public/index.html")

	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "/x/public/index.html")
}

func TestIsTerminal(t *testing.T) {
	t.Parallel()

	assert.False(t, IsTerminal(&bytes.Buffer{}))
}
