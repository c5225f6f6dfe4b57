// Package shell is the application controller: it owns the open document,
// the viewer, the overlay input state and the edit commit queue, and it
// consumes typed commands from the UI layer. No widget toolkit types appear
// here, so every user interaction is testable without a display.
package shell

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hazyhaar/plume/editq"
	"github.com/hazyhaar/plume/engine"
	"github.com/hazyhaar/plume/observability"
	"github.com/hazyhaar/plume/overlay"
	"github.com/hazyhaar/plume/viewer"
)

// Events are the controller's outbound notifications. The UI implements
// them; every field is optional.
type Events struct {
	// OnSnapshot fires after the displayed bitmap should be swapped.
	OnSnapshot func(*viewer.Snapshot)
	// OnMode fires when add-text mode toggles.
	OnMode func(active bool)
	// OnEntry asks the UI to spawn a transient text entry at the viewport
	// position that was clicked.
	OnEntry func(x, y float64)
	// OnInfo surfaces a non-blocking confirmation (e.g. "saved").
	OnInfo func(msg string)
	// OnError surfaces one blocking error message. Never called twice for
	// the same failure.
	OnError func(msg string, err error)
	// OnTitle fires when the window title should change (file opened).
	OnTitle func(name string)
}

// Options wires the controller.
type Options struct {
	// Engine is the PDF engine. Required.
	Engine engine.Engine
	// Viewer options; Engine and OnSnapshot are filled in by the shell.
	Viewer viewer.Options
	// Queue options; the UI supplies a Scheduler that marshals the commit
	// back onto the event goroutine.
	Queue editq.Options
	// Font for appended annotations.
	Font engine.FontSpec
	// Events receive controller notifications.
	Events Events
	// EventLog records open/commit/save events. Optional.
	EventLog *observability.EventLogger
	// Logger overrides the default slog logger.
	Logger *slog.Logger
}

// Controller is the single writer for all application state. All methods
// run on the event goroutine.
type Controller struct {
	opts   Options
	logger *slog.Logger

	viewer *viewer.Viewer
	input  *overlay.Input
	queue  *editq.Queue

	fileName string
}

// New creates a Controller with no document open.
func New(opts Options) (*Controller, error) {
	if opts.Engine == nil {
		return nil, errors.New("shell: Engine is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	c := &Controller{opts: opts, logger: opts.Logger}

	vopts := opts.Viewer
	vopts.Engine = opts.Engine
	vopts.Logger = opts.Logger
	vopts.OnSnapshot = func(s *viewer.Snapshot) {
		if opts.Events.OnSnapshot != nil {
			opts.Events.OnSnapshot(s)
		}
	}
	c.viewer = viewer.New(vopts)

	qopts := opts.Queue
	qopts.Logger = opts.Logger
	c.queue = editq.New(qopts)

	c.input = overlay.NewInput(opts.Logger)
	return c, nil
}

// Viewer exposes the viewer for read-only UI needs (zoom bounds, snapshot).
func (c *Controller) Viewer() *viewer.Viewer { return c.viewer }

// AnnotateActive reports whether add-text mode is on.
func (c *Controller) AnnotateActive() bool { return c.input.Active() }

// FileName returns the display name of the open file, or "".
func (c *Controller) FileName() string { return c.fileName }

// Dispatch routes one command. Every engine-boundary failure is caught here
// and surfaced as exactly one OnError notification; nothing is retried and
// nothing is fatal.
func (c *Controller) Dispatch(cmd Command) {
	switch m := cmd.(type) {
	case OpenFile:
		c.open(m)
	case SaveTo:
		c.save(m)
	case ZoomIn:
		c.fail("Zoom failed", c.viewer.ZoomIn())
	case ZoomOut:
		c.fail("Zoom failed", c.viewer.ZoomOut())
	case SetZoom:
		c.fail("Zoom failed", c.viewer.SetZoom(m.Z))
	case ToggleAnnotate:
		active := c.input.Toggle()
		if c.opts.Events.OnMode != nil {
			c.opts.Events.OnMode(active)
		}
	case PointerDown:
		if c.viewer.Document() == nil {
			return
		}
		if c.input.PointerDown(m.X, m.Y) && c.opts.Events.OnEntry != nil {
			c.opts.Events.OnEntry(m.X, m.Y)
		}
	case ConfirmText:
		c.confirm(m.Text)
	case CancelText:
		c.input.Cancel()
	default:
		c.logger.Warn("shell: unknown command", "type", fmt.Sprintf("%T", cmd))
	}
}

// Close discards any pending edit. Call on application exit.
func (c *Controller) Close() {
	c.queue.Stop()
}

// open loads a new document. Failure leaves the previous document and its
// snapshot untouched: nothing is replaced until Load succeeds.
func (c *Controller) open(m OpenFile) {
	doc, err := c.opts.Engine.Load(m.Data)
	if err != nil {
		c.logEvent("document_open", m.Name, false)
		c.fail("Could not open file", err)
		return
	}

	c.queue.Stop()
	c.input.Cancel()
	c.fileName = m.Name

	if err := c.viewer.SetDocument(doc); err != nil {
		// The document itself is valid; only the first render failed.
		c.fail("Could not render page", err)
	}
	c.logEvent("document_open", m.Name, true)
	if c.opts.Events.OnTitle != nil {
		c.opts.Events.OnTitle(m.Name)
	}
	c.logger.Info("shell: opened document", "file", m.Name, "pages", doc.PageCount())
}

// save flushes the pending edit, serializes, and hands the bytes to the
// command's writer.
func (c *Controller) save(m SaveTo) {
	doc := c.viewer.Document()
	if doc == nil {
		c.fail("Nothing to save", fmt.Errorf("%w: no document open", engine.ErrSerialize))
		return
	}

	c.queue.Flush()

	data, err := c.opts.Engine.Serialize(doc)
	if err != nil {
		c.logEvent("document_save", m.Name, false)
		c.fail("Could not save file", err)
		return
	}
	if err := m.Write(data); err != nil {
		c.logEvent("document_save", m.Name, false)
		c.fail("Could not save file", fmt.Errorf("%w: write: %v", engine.ErrSerialize, err))
		return
	}

	c.logEvent("document_save", m.Name, true)
	c.logger.Info("shell: saved document", "file", m.Name, "bytes", len(data))
	if c.opts.Events.OnInfo != nil {
		c.opts.Events.OnInfo(fmt.Sprintf("Saved %s", m.Name))
	}
}

// confirm turns the entry text into an annotation and queues the edit. The
// annotation is bound to (text, docX, docY) now; the queue may still discard
// it if a newer edit supersedes it within the window.
func (c *Controller) confirm(text string) {
	ann, ok := c.input.Confirm(text, c.viewer.Zoom(), c.viewer.PageHeight())
	if !ok {
		return
	}
	c.queue.Queue(func() { c.commit(ann) })
}

// commit applies one annotation to the document and re-renders. Runs when
// the debounce window expires (or on flush-before-save).
func (c *Controller) commit(ann overlay.Annotation) {
	doc := c.viewer.Document()
	if doc == nil {
		return
	}

	err := c.opts.Engine.AppendText(doc, c.viewer.Page(), ann.DocX, ann.DocY, ann.Text, c.opts.Font)
	if err != nil {
		c.logEvent("edit_commit", c.fileName, false)
		c.fail("Could not add annotation", err)
		return
	}
	c.logEvent("edit_commit", c.fileName, true)

	if err := c.viewer.Refresh(); err != nil {
		c.fail("Could not render page", err)
	}
}

// fail surfaces one blocking error notification, or does nothing for nil.
func (c *Controller) fail(msg string, err error) {
	if err == nil {
		return
	}
	c.logger.Error("shell: "+msg, "error", err)
	if c.opts.Events.OnError != nil {
		c.opts.Events.OnError(msg, err)
	}
}

func (c *Controller) logEvent(eventType, file string, success bool) {
	if c.opts.EventLog == nil {
		return
	}
	c.opts.EventLog.Log(context.Background(), observability.Event{
		Type:    eventType,
		File:    file,
		Success: success,
	})
}
