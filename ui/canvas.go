package ui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	xdraw "golang.org/x/image/draw"
)

// pageView displays the rendered page bitmap and captures clicks in
// viewport coordinates. It carries no document state — taps are forwarded
// as positions and the shell decides what they mean.
type pageView struct {
	widget.BaseWidget

	img       *canvas.Image
	onTapped  func(local, absolute fyne.Position)
	crosshair bool
}

func newPageView(onTapped func(local, absolute fyne.Position)) *pageView {
	v := &pageView{
		img:      canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1))),
		onTapped: onTapped,
	}
	v.img.FillMode = canvas.ImageFillOriginal
	v.img.ScaleMode = canvas.ImageScaleFastest
	v.ExtendBaseWidget(v)
	return v
}

func (v *pageView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.img)
}

// SetImage swaps the displayed bitmap. The overlay size always tracks the
// bitmap so viewport coordinates line up with rendered pixels.
func (v *pageView) SetImage(img image.Image) {
	v.img.Image = img
	b := img.Bounds()
	v.img.SetMinSize(fyne.NewSize(float32(b.Dx()), float32(b.Dy())))
	v.img.Refresh()
	v.Refresh()
}

// SetCrosshair switches the pointer appearance for add-text mode.
func (v *pageView) SetCrosshair(on bool) { v.crosshair = on }

func (v *pageView) Cursor() desktop.Cursor {
	if v.crosshair {
		return desktop.CrosshairCursor
	}
	return desktop.DefaultCursor
}

func (v *pageView) Tapped(e *fyne.PointEvent) {
	if v.onTapped != nil {
		v.onTapped(e.Position, e.AbsolutePosition)
	}
}

// scalePreview rescales the current bitmap by factor. Used while the zoom
// slider is dragging: the cheap interim preview keeps the view responsive
// and the real render replaces it when the drag ends.
func scalePreview(src image.Image, factor float64) image.Image {
	if factor <= 0 {
		return src
	}
	b := src.Bounds()
	w := int(float64(b.Dx()) * factor)
	h := int(float64(b.Dy()) * factor)
	if w < 1 || h < 1 {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}
