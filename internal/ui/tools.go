package ui

import (
	"fmt"
	"image/color"
	"log"

	"LiveSketch/internal/session"
	"LiveSketch/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Color    state.Color
	Selected bool
	OnTapped func(state.Color)
}

func newColorSwatch(c state.Color, tapped func(state.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) SetSelected(selected bool) {
	if s.Selected == selected {
		return
	}
	s.Selected = selected
	s.Refresh()
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	dot := canvas.NewCircle(s.Color.NRGBA())
	dot.StrokeColor = color.Black
	r := &swatchRenderer{swatch: s, dot: dot}
	r.Refresh()
	return r
}

type swatchRenderer struct {
	swatch *colorSwatch
	dot    *canvas.Circle
}

func (r *swatchRenderer) Objects() []fyne.CanvasObject { return []fyne.CanvasObject{r.dot} }
func (r *swatchRenderer) Layout(size fyne.Size)        { r.dot.Resize(size) }
func (r *swatchRenderer) MinSize() fyne.Size           { return fyne.NewSize(30, 30) }
func (r *swatchRenderer) Destroy()                     {}

func (r *swatchRenderer) Refresh() {
	if r.swatch.Selected {
		r.dot.StrokeWidth = 2
	} else {
		r.dot.StrokeWidth = 0
	}
	r.dot.Refresh()
}

// StrokePicker shows the current width on a button; tapping it toggles a
// row with every selectable width. Picking a width collapses the row.
type StrokePicker struct {
	Current  *widget.Button
	Options  *fyne.Container
	OnSelect func(w float32) error

	expanded bool
}

func NewStrokePicker(current float32, onSelect func(float32) error) *StrokePicker {
	p := &StrokePicker{OnSelect: onSelect}
	p.Current = widget.NewButton(formatWidth(current), p.Toggle)

	buttons := make([]fyne.CanvasObject, 0, len(state.Widths))
	for _, w := range state.Widths {
		buttons = append(buttons, widget.NewButton(formatWidth(w), func() { p.Select(w) }))
	}
	p.Options = container.NewHBox(buttons...)
	p.Options.Hide()
	return p
}

func formatWidth(w float32) string {
	return fmt.Sprintf("%g", w)
}

// Expanded reports whether the width row is visible.
func (p *StrokePicker) Expanded() bool {
	return p.expanded
}

func (p *StrokePicker) Toggle() {
	p.setExpanded(!p.expanded)
}

func (p *StrokePicker) Select(w float32) {
	if p.OnSelect != nil {
		if err := p.OnSelect(w); err != nil {
			log.Printf("[TOOLBAR] %v", err)
			p.setExpanded(false)
			return
		}
	}
	p.Current.SetText(formatWidth(w))
	p.setExpanded(false)
}

func (p *StrokePicker) setExpanded(expanded bool) {
	p.expanded = expanded
	if expanded {
		p.Options.Show()
	} else {
		p.Options.Hide()
	}
}

// Toolbar is the width picker plus one swatch per palette color.
type Toolbar struct {
	Picker   *StrokePicker
	Swatches []*colorSwatch

	session *session.Session
}

func NewToolbar(s *session.Session) *Toolbar {
	t := &Toolbar{session: s}
	t.Picker = NewStrokePicker(s.Selection.Width(), s.SetWidth)

	for _, c := range state.Palette {
		t.Swatches = append(t.Swatches, newColorSwatch(c, t.selectColor))
	}
	t.markSelected(s.Selection.Color())
	return t
}

func (t *Toolbar) selectColor(c state.Color) {
	if err := t.session.SetColor(c); err != nil {
		log.Printf("[TOOLBAR] %v", err)
		return
	}
	t.markSelected(c)
}

func (t *Toolbar) markSelected(c state.Color) {
	for _, sw := range t.Swatches {
		sw.SetSelected(sw.Color == c)
	}
}

// Object lays the toolbar out with the width row below it.
func (t *Toolbar) Object() fyne.CanvasObject {
	row := []fyne.CanvasObject{layout.NewSpacer(), t.Picker.Current, widget.NewSeparator()}
	for _, sw := range t.Swatches {
		row = append(row, sw)
	}
	row = append(row, layout.NewSpacer())
	return container.NewVBox(container.NewHBox(row...), container.NewCenter(t.Picker.Options))
}
