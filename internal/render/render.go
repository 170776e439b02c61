package render

import (
	"image"
	"image/color"
	"image/draw"

	"LiveSketch/internal/state"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// Background is the canvas fill behind all strokes (#1e1e1e).
var Background = color.NRGBA{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xff}

// Renderer rasterizes strokes. The zero value is not usable, use New.
type Renderer struct {
	Background color.Color
}

func New() *Renderer {
	return &Renderer{Background: Background}
}

// Render draws strokes onto a fresh w x h image. Stroke coordinates are
// multiplied by scale so the same drawing can be painted at any pixel density.
func (r *Renderer) Render(strokes []state.Stroke, w, h int, scale float32) *image.RGBA {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(r.Background), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	stroker := rasterx.NewStroker(w, h, scanner)

	for _, s := range strokes {
		if len(s.Segments) == 0 {
			continue
		}
		stroker.Clear()
		width := fixed.Int26_6(s.Width * scale * 64)
		stroker.SetStroke(width, 4*64, rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.Round)
		stroker.SetColor(s.Color.NRGBA())
		tracePath(stroker, s.Segments, scale)
		stroker.Draw()
	}
	return img
}

func tracePath(a *rasterx.Stroker, segs []state.Segment, scale float32) {
	started := false
	for _, seg := range segs {
		to := toFixed(seg.To, scale)
		switch seg.Kind {
		case state.SegMove:
			if started {
				a.Stop(false)
			}
			a.Start(to)
			started = true
		case state.SegQuad:
			if !started {
				a.Start(to)
				started = true
				continue
			}
			a.QuadBezier(toFixed(seg.Ctrl, scale), to)
		}
	}
	if started {
		a.Stop(false)
	}
}

func toFixed(p state.Point, scale float32) fixed.Point26_6 {
	return rasterx.ToFixedP(float64(p.X*scale), float64(p.Y*scale))
}
