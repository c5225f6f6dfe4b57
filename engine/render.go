package engine

import (
	"fmt"
	"image"
	"time"

	fitz "github.com/gen2brain/go-fitz"
)

// Render rasterizes one page with MuPDF. A fresh fitz document is opened per
// call: the bytes change after every committed edit anyway, and the snapshot
// is regenerated rather than mutated in place.
func (e *Hybrid) Render(doc *Document, page int, zoom float64) (image.Image, error) {
	if doc == nil || len(doc.data) == 0 {
		return nil, fmt.Errorf("%w: no document", ErrRender)
	}
	if page < 0 || page >= doc.pageCount {
		return nil, fmt.Errorf("%w: page %d out of range", ErrRender, page)
	}
	if zoom <= 0 {
		return nil, fmt.Errorf("%w: non-positive zoom %v", ErrRender, zoom)
	}

	start := time.Now()
	fd, err := fitz.NewFromMemory(doc.data)
	if err != nil {
		return nil, fmt.Errorf("%w: mupdf open: %v", ErrRender, err)
	}
	defer fd.Close()

	// Zoom 1.0 means native page size at 72 dpi.
	img, err := fd.ImageDPI(page, 72*zoom)
	if err != nil {
		return nil, fmt.Errorf("%w: mupdf rasterize page %d: %v", ErrRender, page, err)
	}

	e.logger.Debug("engine: rendered page",
		"page", page, "zoom", zoom,
		"w", img.Bounds().Dx(), "h", img.Bounds().Dy(),
		"duration", time.Since(start))
	return img, nil
}
