// Package engine wraps the external PDF machinery behind a four-operation
// contract: load a document from bytes, rasterize a page at a zoom level,
// append a text drawing operation to a page, and serialize the document back
// to bytes. Application code never touches PDF structure directly — any
// engine offering this contract is a valid substitute.
package engine

import (
	"errors"
	"image"
)

// Failure classes for the engine boundary. Callers classify with errors.Is
// and surface each failure as a single user-facing message; nothing is
// retried automatically.
var (
	ErrLoad      = errors.New("engine: load failed")
	ErrRender    = errors.New("engine: render failed")
	ErrEdit      = errors.New("engine: edit failed")
	ErrSerialize = errors.New("engine: serialize failed")
)

// PageDim is a page size in PDF points (1/72 inch), origin bottom-left.
type PageDim struct {
	Width  float64
	Height float64
}

// FontSpec selects the face and size for appended text.
type FontSpec struct {
	Name string // PDF base font name, e.g. "Helvetica"
	Size int    // points
}

func (f FontSpec) withDefaults() FontSpec {
	if f.Name == "" {
		f.Name = "Helvetica"
	}
	if f.Size <= 0 {
		f.Size = 12
	}
	return f
}

// Document is the opaque handle for one open PDF. Exactly one live instance
// exists per open file: it is replaced wholesale on open and never shared
// across files. The zero value is not usable — obtain one from Engine.Load.
type Document struct {
	data      []byte
	pageCount int
	dims      []PageDim
}

// NewDocument assembles a handle from a byte stream and per-page dimensions.
// Most callers obtain documents from Engine.Load; this exists for engines
// that manage their own parsing.
func NewDocument(data []byte, dims []PageDim) *Document {
	return &Document{data: data, pageCount: len(dims), dims: dims}
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return d.pageCount }

// PageDim returns the media box size of the zero-based page.
func (d *Document) PageDim(page int) (PageDim, error) {
	if page < 0 || page >= len(d.dims) {
		return PageDim{}, errors.New("engine: page index out of range")
	}
	return d.dims[page], nil
}

// Engine is the external-collaborator boundary. All methods mutate at most
// the passed Document handle; a failed call leaves it untouched.
type Engine interface {
	// Load parses and validates a PDF. On failure the previous document,
	// if any, is unaffected (the caller replaces only on success).
	Load(data []byte) (*Document, error)

	// Render rasterizes the zero-based page at the given zoom factor
	// (1.0 = 72 dpi) and returns the bitmap.
	Render(doc *Document, page int, zoom float64) (image.Image, error)

	// AppendText appends a text drawing operation to the page content at
	// (x, y) in document space (points, origin bottom-left).
	AppendText(doc *Document, page int, x, y float64, text string, font FontSpec) error

	// Serialize returns the document as a self-contained PDF byte stream.
	Serialize(doc *Document) ([]byte, error)
}
