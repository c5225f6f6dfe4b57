// Package ui is the Fyne layer: window, toolbar, dialogs, and the overlay
// canvas. It translates widget events into shell commands and renders
// controller notifications; it holds no domain state of its own.
package ui

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/hazyhaar/plume/config"
	"github.com/hazyhaar/plume/editq"
	"github.com/hazyhaar/plume/engine"
	"github.com/hazyhaar/plume/observability"
	"github.com/hazyhaar/plume/shell"
	"github.com/hazyhaar/plume/viewer"
)

const appTitle = "plume"

type ui struct {
	win    fyne.Window
	ctrl   *shell.Controller
	view   *pageView
	slider *widget.Slider
	status *widget.Label
	logger *slog.Logger

	// lastTapAbs places the transient entry popup; the shell only sees
	// widget-local coordinates.
	lastTapAbs fyne.Position
	// settingSlider suppresses the OnChanged feedback loop when the
	// controller pushes a zoom value back into the slider.
	settingSlider bool
	entryPopup    *widget.PopUp
}

// Run builds the window and blocks until the user closes it.
func Run(cfg *config.Config, eng engine.Engine, evlog *observability.EventLogger, logger *slog.Logger) error {
	a := app.New()
	w := a.NewWindow(appTitle)
	w.Resize(fyne.NewSize(900, 700))

	u := &ui{win: w, logger: logger}
	u.view = newPageView(u.tapped)
	u.status = widget.NewLabel("Open a PDF to begin")

	ctrl, err := shell.New(shell.Options{
		Engine: eng,
		Viewer: viewer.Options{
			MinZoom:     cfg.Zoom.Min,
			MaxZoom:     cfg.Zoom.Max,
			ZoomStep:    cfg.Zoom.Step,
			InitialZoom: cfg.Zoom.Initial,
		},
		Queue: editq.Options{
			Window: cfg.Edit.DebounceWindow,
			// Timer callbacks hop back onto the Fyne event goroutine so all
			// state keeps its single-writer discipline.
			Scheduler: func(d time.Duration, fn func()) func() {
				t := time.AfterFunc(d, func() { fyne.Do(fn) })
				return func() { t.Stop() }
			},
		},
		Font: engine.FontSpec{Name: cfg.Font.Name, Size: cfg.Font.Size},
		Events: shell.Events{
			OnSnapshot: u.snapshotChanged,
			OnMode:     u.modeChanged,
			OnEntry:    u.spawnEntry,
			OnInfo:     func(msg string) { dialog.ShowInformation(appTitle, msg, w); u.status.SetText(msg) },
			OnError:    func(msg string, err error) { dialog.ShowError(fmt.Errorf("%s: %w", msg, err), w) },
			OnTitle:    func(name string) { w.SetTitle(fmt.Sprintf("%s — %s", appTitle, name)) },
		},
		EventLog: evlog,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	u.ctrl = ctrl

	u.slider = widget.NewSlider(cfg.Zoom.Min, cfg.Zoom.Max)
	u.slider.Step = cfg.Zoom.Step
	u.slider.Value = cfg.Zoom.Initial
	u.slider.OnChanged = u.sliderDragged
	u.slider.OnChangeEnded = func(z float64) {
		if u.settingSlider {
			return
		}
		ctrl.Dispatch(shell.SetZoom{Z: z})
	}

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.FolderOpenIcon(), u.openFile),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), u.saveFile),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ZoomOutIcon(), func() { ctrl.Dispatch(shell.ZoomOut{}) }),
		widget.NewToolbarAction(theme.ZoomInIcon(), func() { ctrl.Dispatch(shell.ZoomIn{}) }),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentCreateIcon(), func() { ctrl.Dispatch(shell.ToggleAnnotate{}) }),
	)

	top := container.NewBorder(nil, nil, toolbar, nil, u.slider)
	bottom := u.status
	center := container.NewScroll(u.view)
	w.SetContent(container.NewBorder(top, bottom, nil, nil, center))

	w.SetOnClosed(ctrl.Close)
	w.ShowAndRun()
	return nil
}

func (u *ui) tapped(local, absolute fyne.Position) {
	u.lastTapAbs = absolute
	u.ctrl.Dispatch(shell.PointerDown{X: float64(local.X), Y: float64(local.Y)})
}

func (u *ui) snapshotChanged(s *viewer.Snapshot) {
	if s == nil {
		return
	}
	u.view.SetImage(s.Image)
	u.setSlider(s.Zoom)
	u.status.SetText(fmt.Sprintf("%s — zoom %.1fx", u.ctrl.FileName(), s.Zoom))
}

func (u *ui) setSlider(z float64) {
	u.settingSlider = true
	u.slider.SetValue(z)
	u.settingSlider = false
}

// sliderDragged shows a cheap rescaled preview while the drag is still in
// progress; the real render happens once on OnChangeEnded.
func (u *ui) sliderDragged(z float64) {
	if u.settingSlider {
		return
	}
	snap := u.ctrl.Viewer().Snapshot()
	if snap == nil || snap.Zoom <= 0 {
		return
	}
	u.view.SetImage(scalePreview(snap.Image, z/snap.Zoom))
}

func (u *ui) modeChanged(active bool) {
	u.view.SetCrosshair(active)
	if active {
		u.status.SetText("Add text: click on the page")
	} else {
		u.status.SetText("Add text off")
	}
}

// spawnEntry shows the transient text entry at the clicked position.
// Enter confirms, the button cancels, tapping elsewhere dismisses.
func (u *ui) spawnEntry(x, y float64) {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("Annotation text")
	entry.OnSubmitted = func(s string) {
		u.dismissEntry()
		u.ctrl.Dispatch(shell.ConfirmText{Text: s})
	}
	cancel := widget.NewButtonWithIcon("", theme.CancelIcon(), func() {
		u.dismissEntry()
		u.ctrl.Dispatch(shell.CancelText{})
	})

	box := container.NewBorder(nil, nil, nil, cancel, entry)
	u.entryPopup = widget.NewPopUp(box, u.win.Canvas())
	u.entryPopup.ShowAtPosition(u.lastTapAbs)
	u.entryPopup.Resize(fyne.NewSize(260, u.entryPopup.MinSize().Height))
	u.win.Canvas().Focus(entry)
}

func (u *ui) dismissEntry() {
	if u.entryPopup != nil {
		u.entryPopup.Hide()
		u.entryPopup = nil
	}
}

func (u *ui) openFile() {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, u.win)
			return
		}
		if rc == nil {
			return
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			dialog.ShowError(fmt.Errorf("read %s: %w", rc.URI().Name(), err), u.win)
			return
		}
		u.ctrl.Dispatch(shell.OpenFile{Name: rc.URI().Name(), Data: data})
	}, u.win)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))
	fd.Show()
}

func (u *ui) saveFile() {
	fd := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, u.win)
			return
		}
		if wc == nil {
			return
		}
		defer wc.Close()

		u.ctrl.Dispatch(shell.SaveTo{
			Name: wc.URI().Name(),
			Write: func(data []byte) error {
				_, err := wc.Write(data)
				return err
			},
		})
	}, u.win)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))
	fd.SetFileName("annotated.pdf")
	fd.Show()
}
