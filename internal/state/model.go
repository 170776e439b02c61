package state

import (
	"errors"
	"fmt"
	"image/color"
)

// Point is a canvas position in device independent units.
type Point struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Mid returns the point halfway between p and q.
func (p Point) Mid(q Point) Point {
	return Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
}

// SegmentKind tells the renderer how to interpret a Segment.
type SegmentKind string

const (
	SegMove SegmentKind = "move"
	SegQuad SegmentKind = "quad"
)

// Valid reports whether k is a kind the renderer knows how to draw.
func (k SegmentKind) Valid() bool {
	return k == SegMove || k == SegQuad
}

// Segment is one element of a stroke's vector path. Ctrl is only set for quads.
type Segment struct {
	Kind SegmentKind `json:"kind"`
	Ctrl Point       `json:"ctrl"`
	To   Point       `json:"to"`
}

// Stroke is one continuous touch gesture with the color and width that
// were selected when it started.
type Stroke struct {
	ID       string    `json:"id"`
	Color    Color     `json:"color"`
	Width    float32   `json:"width"`
	Segments []Segment `json:"segments"`
}

// LastPoint returns the end point of the stroke's path.
func (s *Stroke) LastPoint() (Point, bool) {
	if len(s.Segments) == 0 {
		return Point{}, false
	}
	return s.Segments[len(s.Segments)-1].To, true
}

func (s Stroke) clone() Stroke {
	s.Segments = append([]Segment(nil), s.Segments...)
	return s
}

var (
	ErrUnknownColor   = errors.New("unknown color")
	ErrUnknownWidth   = errors.New("unknown stroke width")
	ErrUnknownSegment = errors.New("unknown segment kind")
)

// Color is one of the fixed palette entries.
type Color string

const (
	Black  Color = "black"
	Red    Color = "red"
	Blue   Color = "blue"
	Green  Color = "green"
	Yellow Color = "yellow"
	Brown  Color = "brown"
)

// Palette lists the selectable colors in toolbar order.
var Palette = []Color{Black, Red, Blue, Green, Yellow, Brown}

// Widths lists the selectable stroke widths in picker order.
var Widths = []float32{2, 4, 6, 8, 10, 12, 14, 16, 18, 20}

const (
	DefaultColor = Black
	DefaultWidth = float32(14)
)

var paletteRGBA = map[Color]color.NRGBA{
	Black:  {A: 255},
	Red:    {R: 255, A: 255},
	Blue:   {B: 255, A: 255},
	Green:  {G: 128, A: 255},
	Yellow: {R: 255, G: 255, A: 255},
	Brown:  {R: 165, G: 42, B: 42, A: 255},
}

// Valid reports whether c belongs to the palette.
func (c Color) Valid() bool {
	_, ok := paletteRGBA[c]
	return ok
}

// NRGBA converts a palette color into an image color. Unknown names render black.
func (c Color) NRGBA() color.NRGBA {
	if v, ok := paletteRGBA[c]; ok {
		return v
	}
	return paletteRGBA[Black]
}

// ParseColor validates a color name.
func ParseColor(name string) (Color, error) {
	c := Color(name)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownColor, name)
	}
	return c, nil
}

// ValidWidth reports whether w is one of Widths.
func ValidWidth(w float32) bool {
	for _, v := range Widths {
		if v == w {
			return true
		}
	}
	return false
}
