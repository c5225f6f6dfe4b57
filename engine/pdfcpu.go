package engine

import (
	"bytes"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Hybrid implements Engine with pdfcpu for document structure work (load,
// validate, text stamping, serialization) and MuPDF via go-fitz for
// rasterization (render.go). pdfcpu operates on whole byte streams, so the
// Document carries its current bytes and every edit is a full round trip —
// acceptable for interactive single-document use.
type Hybrid struct {
	conf   *model.Configuration
	logger *slog.Logger
}

// Config configures the hybrid engine.
type Config struct {
	// Logger for debug/error messages.
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// NewHybrid creates the pdfcpu+MuPDF engine.
func NewHybrid(cfg Config) *Hybrid {
	cfg.defaults()
	return &Hybrid{
		conf:   model.NewDefaultConfiguration(),
		logger: cfg.Logger,
	}
}

// Load parses and validates the PDF and captures page count and page
// dimensions for coordinate mapping.
func (e *Hybrid) Load(data []byte) (*Document, error) {
	start := time.Now()

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), e.conf)
	if err != nil {
		return nil, fmt.Errorf("%w: pdfcpu read: %v", ErrLoad, err)
	}
	if ctx.PageCount < 1 {
		return nil, fmt.Errorf("%w: document has no pages", ErrLoad)
	}

	pd, err := ctx.PageDims()
	if err != nil {
		return nil, fmt.Errorf("%w: page dims: %v", ErrLoad, err)
	}
	dims := make([]PageDim, len(pd))
	for i, d := range pd {
		dims[i] = PageDim{Width: d.Width, Height: d.Height}
	}

	doc := &Document{
		data:      append([]byte(nil), data...),
		pageCount: ctx.PageCount,
		dims:      dims,
	}

	e.logger.Debug("engine: loaded document",
		"pages", doc.pageCount, "bytes", len(data), "duration", time.Since(start))
	return doc, nil
}

// AppendText stamps text onto the page at (x, y) points from the bottom-left
// corner. The document bytes are replaced only after pdfcpu succeeds, so a
// failed edit leaves the handle untouched.
func (e *Hybrid) AppendText(doc *Document, page int, x, y float64, text string, font FontSpec) error {
	if doc == nil || len(doc.data) == 0 {
		return fmt.Errorf("%w: no document", ErrEdit)
	}
	if page < 0 || page >= doc.pageCount {
		return fmt.Errorf("%w: page %d out of range", ErrEdit, page)
	}

	font = font.withDefaults()

	// Anchor the stamp at the page's bottom-left corner and shift it to the
	// target point, full opacity, no scaling relative to the page.
	desc := fmt.Sprintf(
		"fontname:%s, points:%d, scalefactor:1 abs, position:bl, offset:%.2f %.2f, rotation:0, fillcolor:#000000, opacity:1",
		font.Name, font.Size, x, y)

	wm, err := api.TextWatermark(text, desc, true, false, types.POINTS)
	if err != nil {
		return fmt.Errorf("%w: stamp spec: %v", ErrEdit, err)
	}

	start := time.Now()
	var out bytes.Buffer
	pages := []string{strconv.Itoa(page + 1)}
	if err := api.AddWatermarks(bytes.NewReader(doc.data), &out, pages, wm, e.conf); err != nil {
		return fmt.Errorf("%w: pdfcpu stamp: %v", ErrEdit, err)
	}

	doc.data = out.Bytes()
	e.logger.Debug("engine: appended text",
		"page", page, "x", x, "y", y, "chars", len(text), "duration", time.Since(start))
	return nil
}

// Serialize returns the current document bytes. The bytes are always a
// complete PDF (load and every edit go through pdfcpu), so the only failure
// mode here is a missing document.
func (e *Hybrid) Serialize(doc *Document) ([]byte, error) {
	if doc == nil || len(doc.data) == 0 {
		return nil, fmt.Errorf("%w: no document", ErrSerialize)
	}
	return append([]byte(nil), doc.data...), nil
}
