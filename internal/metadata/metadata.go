// Package metadata rewrites the datePublished and dateModified values embedded in an
// HTML document. Matching is textual: the bytes outside each matched value are left
// exactly as they were.
package metadata

import (
	"bytes"
	"context"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/JakeFAU/sitestamp/internal/storage"
)

var (
	publishedPattern = regexp.MustCompile(`("datePublished"\s*:\s*")([^"]+)(")`)
	modifiedPattern  = regexp.MustCompile(`("dateModified"\s*:\s*")([^"]+)(")`)
)

// Result summarizes one metadata rewrite.
type Result struct {
	Path      string
	Published int
	Modified  int
	Changed   bool
	Stamp     string
}

// Updated reports the total number of values replaced.
func (r Result) Updated() int {
	return r.Published + r.Modified
}

// Updater rewrites metadata dates through a storage.Files.
type Updater struct {
	files  storage.Files
	scope  Scope
	logger *zap.Logger
}

// NewUpdater builds an Updater for the given scope. A nil logger discards logs.
func NewUpdater(files storage.Files, scope Scope, logger *zap.Logger) *Updater {
	if logger == nil {
		logger = zap.NewNop()
	}
	if scope == "" {
		scope = ScopeDocument
	}
	return &Updater{files: files, scope: scope, logger: logger}
}

// Update replaces every date value in the document at path with stamp and writes the
// result back. A missing file yields an error wrapping storage.ErrNotFound.
func (u *Updater) Update(ctx context.Context, path, stamp string) (Result, error) {
	data, err := u.files.Read(ctx, path)
	if err != nil {
		return Result{Path: path}, err
	}

	out, res, err := Rewrite(data, stamp, u.scope)
	if err != nil {
		return Result{Path: path}, fmt.Errorf("rewrite %s: %w", path, err)
	}
	res.Path = path

	if err := u.files.Replace(ctx, path, out); err != nil {
		return res, fmt.Errorf("write %s: %w", path, err)
	}
	u.logger.Debug("metadata dates rewritten",
		zap.String("path", path),
		zap.String("scope", string(u.scope)),
		zap.Int("published", res.Published),
		zap.Int("modified", res.Modified),
		zap.Bool("changed", res.Changed))
	return res, nil
}

// Rewrite returns data with every datePublished and dateModified value set to stamp.
func Rewrite(data []byte, stamp string, scope Scope) ([]byte, Result, error) {
	res := Result{Stamp: stamp}
	apply := func(src []byte) []byte {
		var n int
		src, n = replaceValues(publishedPattern, src, stamp)
		res.Published += n
		src, n = replaceValues(modifiedPattern, src, stamp)
		res.Modified += n
		return src
	}

	var out []byte
	switch scope {
	case ScopeDocument, "":
		out = apply(data)
	case ScopeLDJSON:
		var err error
		out, err = rewriteLDJSON(data, apply)
		if err != nil {
			return nil, Result{}, err
		}
	default:
		return nil, Result{}, fmt.Errorf("unknown scope %q", scope)
	}

	res.Changed = !bytes.Equal(out, data)
	return out, res, nil
}

// replaceValues swaps the second capture group of every match for value.
func replaceValues(re *regexp.Regexp, src []byte, value string) ([]byte, int) {
	matches := re.FindAllSubmatchIndex(src, -1)
	if len(matches) == 0 {
		return src, 0
	}
	var b bytes.Buffer
	b.Grow(len(src))
	last := 0
	for _, m := range matches {
		b.Write(src[last:m[4]])
		b.WriteString(value)
		last = m[5]
	}
	b.Write(src[last:])
	return b.Bytes(), len(matches)
}
