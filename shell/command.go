package shell

// Command is a typed user action. The UI layer produces commands from
// widget events; the controller consumes them. Keeping the set closed and
// value-based lets the whole interaction flow run headless in tests.
type Command interface{ command() }

// OpenFile replaces the open document with one loaded from Data. Name is
// display-only (window title, event log).
type OpenFile struct {
	Name string
	Data []byte
}

// SaveTo serializes the document and hands the bytes to Write (the UI binds
// it to the picked destination). Any pending edit is flushed first so the
// saved file reflects everything the user confirmed.
type SaveTo struct {
	Name  string
	Write func([]byte) error
}

// ZoomIn increases zoom by one step, saturating at the upper bound.
type ZoomIn struct{}

// ZoomOut decreases zoom by one step, saturating at the lower bound.
type ZoomOut struct{}

// SetZoom jumps to an absolute zoom factor (slider drag).
type SetZoom struct{ Z float64 }

// ToggleAnnotate flips the add-text mode.
type ToggleAnnotate struct{}

// PointerDown is a click on the overlay at viewport coordinates.
type PointerDown struct{ X, Y float64 }

// ConfirmText commits the transient entry's text as an annotation.
type ConfirmText struct{ Text string }

// CancelText abandons the transient entry.
type CancelText struct{}

func (OpenFile) command()       {}
func (SaveTo) command()         {}
func (ZoomIn) command()         {}
func (ZoomOut) command()        {}
func (SetZoom) command()        {}
func (ToggleAnnotate) command() {}
func (PointerDown) command()    {}
func (ConfirmText) command()    {}
func (CancelText) command()     {}
