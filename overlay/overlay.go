// Package overlay translates pointer positions on the viewport into document
// space and tracks the transient text-entry state for the "add text" mode.
//
// Viewport coordinates are screen pixels, origin top-left, Y growing down.
// Document coordinates are PDF page points, origin bottom-left, Y growing up.
package overlay

import (
	"log/slog"
	"strings"
)

// Map converts a viewport point to document space at the given zoom.
// The vertical axis flips: viewport Y grows downward, page Y grows upward.
func Map(viewX, viewY, zoom, pageHeight float64) (docX, docY float64) {
	docX = viewX / zoom
	docY = pageHeight - viewY/zoom
	return docX, docY
}

// Unmap is the inverse of Map, exact up to floating-point rounding.
func Unmap(docX, docY, zoom, pageHeight float64) (viewX, viewY float64) {
	viewX = docX * zoom
	viewY = (pageHeight - docY) * zoom
	return viewX, viewY
}

// Annotation is a confirmed text placement in document space.
type Annotation struct {
	Text string
	DocX float64
	DocY float64
}

// Input tracks the add-text mode and at most one open text entry. All
// methods run on the event goroutine; there is no locking.
type Input struct {
	logger *slog.Logger

	active    bool
	entryOpen bool
	clickX    float64 // viewport coords of the pending entry
	clickY    float64
}

// NewInput creates an Input with add-text mode off.
func NewInput(logger *slog.Logger) *Input {
	if logger == nil {
		logger = slog.Default()
	}
	return &Input{logger: logger}
}

// Toggle flips add-text mode and reports the new state. Turning the mode
// off abandons any open entry.
func (in *Input) Toggle() bool {
	in.active = !in.active
	if !in.active {
		in.entryOpen = false
	}
	in.logger.Debug("overlay: add-text mode", "active", in.active)
	return in.active
}

// Active reports whether add-text mode is on.
func (in *Input) Active() bool { return in.active }

// EntryOpen reports whether a transient text entry is showing.
func (in *Input) EntryOpen() bool { return in.entryOpen }

// PointerDown handles a click at viewport (x, y). It returns true when the
// caller should spawn a text entry at that position; clicks outside add-text
// mode are ignored.
func (in *Input) PointerDown(x, y float64) bool {
	if !in.active {
		return false
	}
	in.clickX, in.clickY = x, y
	in.entryOpen = true
	return true
}

// EntryPos returns the viewport position of the open entry.
func (in *Input) EntryPos() (x, y float64) { return in.clickX, in.clickY }

// Confirm commits the entered text. Whitespace-only text is silently
// dropped — the document is never touched for an empty annotation. The
// entry closes either way. The returned annotation carries document-space
// coordinates mapped at the zoom the click happened under.
func (in *Input) Confirm(text string, zoom, pageHeight float64) (Annotation, bool) {
	if !in.entryOpen {
		return Annotation{}, false
	}
	in.entryOpen = false

	text = strings.TrimSpace(text)
	if text == "" {
		in.logger.Debug("overlay: empty annotation dropped")
		return Annotation{}, false
	}

	docX, docY := Map(in.clickX, in.clickY, zoom, pageHeight)
	return Annotation{Text: text, DocX: docX, DocY: docY}, true
}

// Cancel abandons the open entry without committing.
func (in *Input) Cancel() {
	in.entryOpen = false
}
