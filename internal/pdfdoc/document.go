// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfdoc reads positioned words out of PDF text layers. It wraps
// github.com/ledongthuc/pdf and satisfies extract.Document.
package pdfdoc

import (
	"errors"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/calparse/pkg/types"
)

// defaultPageHeight is US Letter, used when a page has no usable MediaBox.
const defaultPageHeight = 792.0

// maxTreeDepth bounds the walk up the page tree; malformed files can
// contain Parent cycles.
const maxTreeDepth = 32

// ErrNoPage is returned by Tokens for a page number outside the document.
var ErrNoPage = errors.New("page does not exist")

// Document is an open PDF.
type Document struct {
	r      *pdf.Reader
	closer io.Closer
}

// Open opens the PDF at path. The caller must Close the Document.
func Open(path string) (*Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	return &Document{r: r, closer: f}, nil
}

// OpenReader reads a PDF of the given size from ra, e.g. an archive member
// held in memory.
func OpenReader(ra io.ReaderAt, size int64) (*Document, error) {
	r, err := pdf.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("reading PDF: %w", err)
	}
	return &Document{r: r}, nil
}

// Close releases the underlying file, if any.
func (d *Document) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}

// NumPages returns the page count.
func (d *Document) NumPages() int {
	return d.r.NumPage()
}

// Tokens returns the words of page num (1-based).
func (d *Document) Tokens(num int) (toks []types.Token, err error) {
	// The object resolver and the content stream interpreter both panic on
	// malformed input.
	defer func() {
		if rec := recover(); rec != nil {
			toks, err = nil, fmt.Errorf("page %d: reading content: %v", num, rec)
		}
	}()

	if num < 1 || num > d.NumPages() {
		return nil, fmt.Errorf("page %d: %w", num, ErrNoPage)
	}
	p := d.r.Page(num)
	if p.V.IsNull() {
		return nil, fmt.Errorf("page %d: %w", num, ErrNoPage)
	}

	content := p.Content()
	glyphs := make([]Glyph, len(content.Text))
	for i, t := range content.Text {
		glyphs[i] = Glyph{Text: t.S, Font: t.Font, X: t.X, Y: t.Y, W: t.W}
	}
	return Words(glyphs, pageHeight(p.V)), nil
}

// pageHeight returns the MediaBox height of a page, following the
// inheritance chain through parent page-tree nodes.
func pageHeight(v pdf.Value) float64 {
	node := v
	for depth := 0; depth < maxTreeDepth && !node.IsNull(); depth++ {
		box := node.Key("MediaBox")
		if box.Len() == 4 {
			if h := box.Index(3).Float64() - box.Index(1).Float64(); h > 0 {
				return h
			}
		}
		node = node.Key("Parent")
	}
	return defaultPageHeight
}
