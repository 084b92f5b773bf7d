package metadata

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Scope selects which part of the document date values are rewritten in.
type Scope string

const (
	// ScopeDocument matches anywhere in the text.
	ScopeDocument Scope = "document"
	// ScopeLDJSON matches only inside <script type="application/ld+json"> elements.
	ScopeLDJSON Scope = "ldjson"
)

const ldJSONType = "application/ld+json"

// ParseScope validates a configured scope name.
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScopeDocument:
		return ScopeDocument, nil
	case ScopeLDJSON:
		return ScopeLDJSON, nil
	default:
		return "", fmt.Errorf("unknown metadata scope %q", s)
	}
}

// rewriteLDJSON re-emits the raw bytes of every token and passes the bodies of
// ld+json script elements through apply.
func rewriteLDJSON(data []byte, apply func([]byte) []byte) ([]byte, error) {
	z := html.NewTokenizer(bytes.NewReader(data))
	var out bytes.Buffer
	out.Grow(len(data))
	inBlock := false
	for {
		tt := z.Next()
		raw := append([]byte(nil), z.Raw()...)
		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				out.Write(raw)
				return out.Bytes(), nil
			}
			return nil, fmt.Errorf("tokenize html: %w", z.Err())
		case html.StartTagToken:
			inBlock = isLDJSONScript(z)
		case html.EndTagToken, html.SelfClosingTagToken:
			inBlock = false
		case html.TextToken:
			if inBlock {
				raw = apply(raw)
			}
		}
		out.Write(raw)
	}
}

func isLDJSONScript(z *html.Tokenizer) bool {
	name, hasAttr := z.TagName()
	if string(name) != "script" {
		return false
	}
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		if string(key) != "type" {
			continue
		}
		mediaType, _, _ := strings.Cut(string(val), ";")
		return strings.EqualFold(strings.TrimSpace(mediaType), ldJSONType)
	}
	return false
}
