package ui

import (
	"image"

	"LiveSketch/internal/render"
	"LiveSketch/internal/session"
	"LiveSketch/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
)

// SketchCanvas is the square drawing surface. It forwards pointer and touch
// gestures to the session and repaints the session's strokes.
type SketchCanvas struct {
	widget.BaseWidget
	session  *session.Session
	renderer *render.Renderer
	size     float32
	touching bool
}

var _ fyne.Widget = (*SketchCanvas)(nil)
var _ fyne.Draggable = (*SketchCanvas)(nil)
var _ desktop.Mouseable = (*SketchCanvas)(nil)
var _ mobile.Touchable = (*SketchCanvas)(nil)

// NewSketchCanvas creates the canvas and registers it as the session's
// snapshot source.
func NewSketchCanvas(s *session.Session, r *render.Renderer, size int) *SketchCanvas {
	c := &SketchCanvas{session: s, renderer: r, size: float32(size)}
	c.ExtendBaseWidget(c)
	s.AttachSnapshot(func(strokes []state.Stroke) (string, error) {
		return r.Snapshot(strokes, size)
	})
	return c
}

func toPoint(p fyne.Position) state.Point {
	return state.Point{X: p.X, Y: p.Y}
}

func (c *SketchCanvas) begin(pos fyne.Position) {
	c.touching = true
	c.session.TouchStart(toPoint(pos))
}

func (c *SketchCanvas) end() {
	if !c.touching {
		return
	}
	c.touching = false
	c.session.TouchEnd()
}

func (c *SketchCanvas) MouseDown(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		c.begin(e.Position)
	}
}

func (c *SketchCanvas) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		c.end()
	}
}

func (c *SketchCanvas) TouchDown(e *mobile.TouchEvent) { c.begin(e.Position) }
func (c *SketchCanvas) TouchUp(*mobile.TouchEvent)     { c.end() }
func (c *SketchCanvas) TouchCancel(*mobile.TouchEvent) { c.end() }

func (c *SketchCanvas) Dragged(e *fyne.DragEvent) {
	if c.touching {
		c.session.TouchMove(toPoint(e.Position))
	}
}

func (c *SketchCanvas) DragEnd() { c.end() }

func (c *SketchCanvas) CreateRenderer() fyne.WidgetRenderer {
	r := &sketchCanvasRenderer{sketch: c}
	r.raster = canvas.NewRaster(r.paint)
	return r
}

type sketchCanvasRenderer struct {
	sketch *SketchCanvas
	raster *canvas.Raster
}

// paint is called with the raster's pixel size, which differs from the
// widget size on high density screens.
func (r *sketchCanvasRenderer) paint(w, h int) image.Image {
	scale := float32(1)
	if width := r.sketch.Size().Width; width > 0 {
		scale = float32(w) / width
	}
	return r.sketch.renderer.Render(r.sketch.session.Drawing.Strokes(), w, h, scale)
}

func (r *sketchCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.raster}
}

func (r *sketchCanvasRenderer) Layout(size fyne.Size) {
	r.raster.Resize(size)
}

func (r *sketchCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(r.sketch.size, r.sketch.size)
}

func (r *sketchCanvasRenderer) Refresh() {
	r.raster.Refresh()
}

func (r *sketchCanvasRenderer) Destroy() {}
