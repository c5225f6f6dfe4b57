// Package viewer owns the zoom state and the current page snapshot. A
// snapshot is a derived, disposable rendering of one page at one zoom level;
// it is regenerated on every committed edit or zoom change and never mutated
// in place. The displayed bitmap is replaced only after the new one is ready,
// so no partially-applied edit is ever visible.
package viewer

import (
	"image"
	"log/slog"
	"math"

	"github.com/hazyhaar/plume/engine"
)

// Snapshot is one rendered page at one zoom level.
type Snapshot struct {
	Image image.Image
	Zoom  float64
	Page  int
}

// Options tunes the viewer.
type Options struct {
	// Engine renders pages. Required.
	Engine engine.Engine
	// MinZoom/MaxZoom bound the zoom factor. Defaults: 0.2 and 6.0.
	MinZoom float64
	MaxZoom float64
	// ZoomStep is the increment per zoom action. Default: 0.1.
	ZoomStep float64
	// InitialZoom is the zoom applied when a document opens. Default: 1.0.
	InitialZoom float64
	// OnSnapshot is invoked after the snapshot is swapped. Optional.
	OnSnapshot func(*Snapshot)
	// Logger overrides the default slog logger.
	Logger *slog.Logger
}

func (o *Options) defaults() {
	if o.MinZoom <= 0 {
		o.MinZoom = 0.2
	}
	if o.MaxZoom <= 0 {
		o.MaxZoom = 6.0
	}
	if o.ZoomStep <= 0 {
		o.ZoomStep = 0.1
	}
	if o.InitialZoom <= 0 {
		o.InitialZoom = 1.0
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Viewer drives rendering for the single open document. Page index is fixed
// at 0 — this tool has no page navigation. All methods run on the event
// goroutine.
type Viewer struct {
	opts Options

	doc  *engine.Document
	page int
	zoom float64
	snap *Snapshot
}

// New creates a Viewer with no document.
func New(opts Options) *Viewer {
	opts.defaults()
	return &Viewer{opts: opts, zoom: opts.InitialZoom}
}

// Zoom returns the current zoom factor.
func (v *Viewer) Zoom() float64 { return v.zoom }

// Page returns the current page index (always 0 — no page navigation).
func (v *Viewer) Page() int { return v.page }

// Bounds returns the zoom limits.
func (v *Viewer) Bounds() (min, max float64) { return v.opts.MinZoom, v.opts.MaxZoom }

// Snapshot returns the current snapshot, or nil before the first render.
func (v *Viewer) Snapshot() *Snapshot { return v.snap }

// Document returns the open document, or nil.
func (v *Viewer) Document() *engine.Document { return v.doc }

// PageHeight returns the current page's height in points, or 0 when no
// document is open. The overlay needs it to flip the vertical axis.
func (v *Viewer) PageHeight() float64 {
	if v.doc == nil {
		return 0
	}
	dim, err := v.doc.PageDim(v.page)
	if err != nil {
		return 0
	}
	return dim.Height
}

// SetDocument replaces the open document wholesale, resets the page index
// and zoom, and renders the first snapshot. On render failure the new
// document is still installed — the caller already committed to it by
// loading successfully — but the stale snapshot is cleared.
func (v *Viewer) SetDocument(doc *engine.Document) error {
	v.doc = doc
	v.page = 0
	v.zoom = v.opts.InitialZoom
	v.snap = nil
	if doc == nil {
		v.notify()
		return nil
	}
	return v.Refresh()
}

// ZoomIn increases zoom by one step, saturating at the upper bound.
func (v *Viewer) ZoomIn() error { return v.SetZoom(v.zoom + v.opts.ZoomStep) }

// ZoomOut decreases zoom by one step, saturating at the lower bound.
func (v *Viewer) ZoomOut() error { return v.SetZoom(v.zoom - v.opts.ZoomStep) }

// SetZoom clamps z into bounds, snaps it to the step grid, and re-renders.
// A value equal to the current zoom is a no-op.
func (v *Viewer) SetZoom(z float64) error {
	z = snap(z, v.opts.ZoomStep)
	z = math.Min(math.Max(z, v.opts.MinZoom), v.opts.MaxZoom)
	if z == v.zoom {
		return nil
	}
	v.zoom = z
	if v.doc == nil {
		return nil
	}
	return v.Refresh()
}

// Refresh re-renders the current page at the current zoom and swaps the
// snapshot. The old snapshot stays on display until the new image exists.
func (v *Viewer) Refresh() error {
	img, err := v.opts.Engine.Render(v.doc, v.page, v.zoom)
	if err != nil {
		return err
	}
	v.snap = &Snapshot{Image: img, Zoom: v.zoom, Page: v.page}
	v.opts.Logger.Debug("viewer: snapshot replaced",
		"page", v.page, "zoom", v.zoom,
		"w", img.Bounds().Dx(), "h", img.Bounds().Dy())
	v.notify()
	return nil
}

func (v *Viewer) notify() {
	if v.opts.OnSnapshot != nil {
		v.opts.OnSnapshot(v.snap)
	}
}

// snap rounds z onto the step grid so repeated ±step clicks stay exact
// (0.1 is not representable in binary floating point).
func snap(z, step float64) float64 {
	return math.Round(z/step) * step
}
