package state

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// Drawing is the ordered list of strokes on the canvas. Strokes are only
// appended while drawing and are dropped all at once on Reset.
type Drawing struct {
	strokes []Stroke
	mu      sync.RWMutex
}

// NewDrawing creates an empty drawing.
func NewDrawing() *Drawing {
	return &Drawing{strokes: make([]Stroke, 0)}
}

// Begin starts a new stroke at p with the given color and width and
// returns a copy of it.
func (d *Drawing) Begin(p Point, c Color, width float32) Stroke {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := Stroke{
		ID:       uuid.NewString(),
		Color:    c,
		Width:    width,
		Segments: []Segment{{Kind: SegMove, To: p}},
	}
	d.strokes = append(d.strokes, s)
	return s.clone()
}

// Extend smooths the last stroke towards p: the previous end point becomes
// the control point and the curve ends halfway to p.
func (d *Drawing) Extend(p Point) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.strokes) == 0 {
		return false
	}
	s := &d.strokes[len(d.strokes)-1]
	last, ok := s.LastPoint()
	if !ok {
		s.Segments = append(s.Segments, Segment{Kind: SegMove, To: p})
		return true
	}
	s.Segments = append(s.Segments, Segment{Kind: SegQuad, Ctrl: last, To: last.Mid(p)})
	return true
}

// Reset removes every stroke.
func (d *Drawing) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	log.Printf("[DRAWING] Cleared %d strokes", len(d.strokes))
	d.strokes = make([]Stroke, 0)
}

// Replace swaps the whole drawing, used when a saved sketch is opened.
func (d *Drawing) Replace(strokes []Stroke) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.strokes = make([]Stroke, 0, len(strokes))
	for _, s := range strokes {
		d.strokes = append(d.strokes, s.clone())
	}
}

// Strokes returns a deep copy of all strokes in drawing order.
func (d *Drawing) Strokes() []Stroke {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Stroke, 0, len(d.strokes))
	for _, s := range d.strokes {
		out = append(out, s.clone())
	}
	return out
}

// Len returns the number of strokes.
func (d *Drawing) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.strokes)
}
