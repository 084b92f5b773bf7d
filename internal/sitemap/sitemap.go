package sitemap

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
	"go.uber.org/zap"

	"github.com/JakeFAU/sitestamp/internal/storage"
)

const (
	urlExpr     = "/*/*[local-name()='url']"
	lastmodExpr = "*[local-name()='lastmod'][1]"
)

// Result summarizes one sitemap rewrite.
type Result struct {
	Path    string
	URLs    int
	Updated int
	Changed bool
	Stamp   string
}

// Updater rewrites sitemap files through a storage.Files.
type Updater struct {
	files  storage.Files
	logger *zap.Logger
}

// NewUpdater builds an Updater. A nil logger discards logs.
func NewUpdater(files storage.Files, logger *zap.Logger) *Updater {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Updater{files: files, logger: logger}
}

// Update stamps every lastmod in the sitemap at path and writes the document back.
// A missing file yields an error wrapping storage.ErrNotFound and nothing is written.
func (u *Updater) Update(ctx context.Context, path, stamp string) (Result, error) {
	data, err := u.files.Read(ctx, path)
	if err != nil {
		return Result{Path: path}, err
	}

	out, res, err := Rewrite(data, stamp)
	if err != nil {
		return Result{Path: path}, fmt.Errorf("rewrite %s: %w", path, err)
	}
	res.Path = path

	if err := u.files.Replace(ctx, path, out); err != nil {
		return res, fmt.Errorf("write %s: %w", path, err)
	}
	u.logger.Debug("sitemap rewritten",
		zap.String("path", path),
		zap.Int("urls", res.URLs),
		zap.Int("updated", res.Updated),
		zap.Bool("changed", res.Changed))
	return res, nil
}

// Rewrite returns data with every url/lastmod text set to stamp.
func Rewrite(data []byte, stamp string) ([]byte, Result, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, Result{}, fmt.Errorf("parse sitemap: %w", err)
	}
	if rootElement(doc) == nil {
		return nil, Result{}, fmt.Errorf("parse sitemap: no root element")
	}

	urls, err := xmlquery.QueryAll(doc, urlExpr)
	if err != nil {
		return nil, Result{}, fmt.Errorf("select url entries: %w", err)
	}

	res := Result{URLs: len(urls), Stamp: stamp}
	for _, u := range urls {
		lastmod, err := xmlquery.Query(u, lastmodExpr)
		if err != nil {
			return nil, Result{}, fmt.Errorf("select lastmod: %w", err)
		}
		if lastmod == nil {
			continue
		}
		setText(lastmod, stamp)
		res.Updated++
	}

	out := serialize(doc)
	res.Changed = !bytes.Equal(out, data)
	return out, res, nil
}

// setText drops every child of n and appends a single text node.
func setText(n *xmlquery.Node, text string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		xmlquery.RemoveFromTree(c)
		c = next
	}
	xmlquery.AddChild(n, &xmlquery.Node{Type: xmlquery.TextNode, Data: text})
}

func rootElement(doc *xmlquery.Node) *xmlquery.Node {
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return c
		}
	}
	return nil
}

// serialize writes the standard declaration followed by every top-level node
// except the original declaration and whitespace around the root, one per line.
func serialize(doc *xmlquery.Node) []byte {
	var b strings.Builder
	b.WriteString(xml.Header)
	first := true
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == xmlquery.DeclarationNode && c.Data == "xml":
			continue
		case c.Type == xmlquery.TextNode && strings.TrimSpace(c.Data) == "":
			continue
		}
		if !first {
			b.WriteByte('\n')
		}
		b.WriteString(c.OutputXML(true))
		first = false
	}
	b.WriteByte('\n')
	return []byte(b.String())
}
