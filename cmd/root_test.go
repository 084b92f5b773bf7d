package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSite(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "public"), 0o750))
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(body), 0o600))
	}
	return root
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommandStampsSite(t *testing.T) {
	root := writeSite(t, map[string]string{
		"public/sitemap.xml": `<urlset><url><loc>https://x</loc><lastmod>2020-01-01T00:00:00+00:00</lastmod></url></urlset>`,
		"public/index.html":  `<script type="application/ld+json">{"datePublished":"a","dateModified":"b"}</script>`,
	})

	out, err := execute(t, "--root", root, "--at", "2024-06-01T12:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "✅"))

	// #nosec G304 -- test reads from the controlled temp directory.
	sitemap, err := os.ReadFile(filepath.Join(root, "public/sitemap.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(sitemap), "<lastmod>2024-06-01T12:00:00+00:00</lastmod>")

	// #nosec G304 -- test reads from the controlled temp directory.
	index, err := os.ReadFile(filepath.Join(root, "public/index.html"))
	require.NoError(t, err)
	assert.Equal(t,
		`<script type="application/ld+json">{"datePublished":"2024-06-01T21:00:00+09:00","dateModified":"2024-06-01T21:00:00+09:00"}</script>`,
		string(index))
}

func TestRootCommandMissingFilesExitCleanly(t *testing.T) {
	root := writeSite(t, nil)

	out, err := execute(t, "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(root, "public", "sitemap.xml"))
	assert.Contains(t, out, filepath.Join(root, "public", "index.html"))
	assert.Equal(t, 2, strings.Count(out, "❌"))
}

func TestRootCommandDryRun(t *testing.T) {
	const index = `{"dateModified": "2020-01-01"}`
	root := writeSite(t, map[string]string{"public/index.html": index})

	out, err := execute(t, "--root", root, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "(dry run, not written)")

	// #nosec G304 -- test reads from the controlled temp directory.
	data, err := os.ReadFile(filepath.Join(root, "public/index.html"))
	require.NoError(t, err)
	assert.Equal(t, index, string(data))
}

func TestRootCommandConfigFile(t *testing.T) {
	root := writeSite(t, nil)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dist"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "dist/index.html"), []byte(`"datePublished": "x"`), 0o600))

	cfgPath := filepath.Join(t.TempDir(), "sitestamp.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
sitemap:
  enabled: false
metadata:
  path: dist/index.html
  utc_offset: 0s
run:
  at: "2024-06-01T12:00:00Z"
logging:
  development: false
`), 0o600))

	out, err := execute(t, "--config", cfgPath, "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "– sitemap step disabled")

	// #nosec G304 -- test reads from the controlled temp directory.
	data, err := os.ReadFile(filepath.Join(root, "dist/index.html"))
	require.NoError(t, err)
	assert.Equal(t, `"datePublished": "2024-06-01T12:00:00+00:00"`, string(data))
}

func TestRootCommandErrors(t *testing.T) {
	t.Run("unexpected argument", func(t *testing.T) {
		_, err := execute(t, "extra")
		assert.Error(t, err)
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := execute(t, "--root", filepath.Join(t.TempDir(), "missing"))
		assert.Error(t, err)
	})

	t.Run("bad pinned time", func(t *testing.T) {
		_, err := execute(t, "--root", t.TempDir(), "--at", "noon")
		assert.Error(t, err)
	})

	t.Run("malformed sitemap", func(t *testing.T) {
		root := writeSite(t, map[string]string{"public/sitemap.xml": "<urlset>"})
		_, err := execute(t, "--root", root)
		assert.Error(t, err)
	})
}
