package export

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"LiveSketch/internal/render"
	"LiveSketch/internal/state"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageMargin = 10.0
	boxSize    = 130.0
	boxTop     = 40.0
)

// Document is what ends up on the exported page.
type Document struct {
	Strokes    []state.Stroke
	CanvasSize int
	Prompt     string
	Result     image.Image
}

// WritePDF renders the sketch as vector paths on a landscape A4 page and
// places the generated image, when there is one, to its right.
func WritePDF(w io.Writer, doc Document) error {
	if doc.CanvasSize <= 0 {
		return fmt.Errorf("invalid canvas size %d", doc.CanvasSize)
	}

	p := gofpdf.New("L", "mm", "A4", "")
	p.AddPage()
	tr := p.UnicodeTranslatorFromDescriptor("")

	p.SetFont("Helvetica", "B", 16)
	p.Text(pageMargin, pageMargin+8, "LiveSketch")
	p.SetFont("Helvetica", "", 10)
	p.SetXY(pageMargin, pageMargin+12)
	p.MultiCell(2*boxSize+7, 5, tr(doc.Prompt), "", "L", false)

	bg := render.Background
	p.SetFillColor(int(bg.R), int(bg.G), int(bg.B))
	p.Rect(pageMargin, boxTop, boxSize, boxSize, "F")

	scale := boxSize / float64(doc.CanvasSize)
	p.SetLineCapStyle("round")
	p.SetLineJoinStyle("round")
	p.ClipRect(pageMargin, boxTop, boxSize, boxSize, false)
	for _, s := range doc.Strokes {
		drawStroke(p, s, pageMargin, boxTop, scale)
	}
	p.ClipEnd()

	if doc.Result != nil {
		data, err := render.EncodePNG(doc.Result)
		if err != nil {
			return err
		}
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		p.RegisterImageOptionsReader("result", opts, bytes.NewReader(data))
		p.ImageOptions("result", pageMargin+boxSize+7, boxTop, boxSize, boxSize, false, opts, 0, "")
	}

	if err := p.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func drawStroke(p *gofpdf.Fpdf, s state.Stroke, ox, oy, scale float64) {
	if len(s.Segments) == 0 {
		return
	}
	c := s.Color.NRGBA()
	p.SetDrawColor(int(c.R), int(c.G), int(c.B))
	p.SetLineWidth(float64(s.Width) * scale)

	x := func(pt state.Point) float64 { return ox + float64(pt.X)*scale }
	y := func(pt state.Point) float64 { return oy + float64(pt.Y)*scale }

	for _, seg := range s.Segments {
		switch seg.Kind {
		case state.SegMove:
			p.MoveTo(x(seg.To), y(seg.To))
		case state.SegQuad:
			p.CurveTo(x(seg.Ctrl), y(seg.Ctrl), x(seg.To), y(seg.To))
		}
	}
	p.DrawPath("D")
}
