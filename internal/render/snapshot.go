package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"LiveSketch/internal/state"
)

const pngDataURIPrefix = "data:image/png;base64,"

// EncodePNG encodes img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURI encodes img as a base64 PNG data URI.
func DataURI(img image.Image) (string, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return "", err
	}
	return pngDataURIPrefix + base64.StdEncoding.EncodeToString(data), nil
}

// Snapshot renders strokes on a size x size canvas and returns it as a data URI.
func (r *Renderer) Snapshot(strokes []state.Stroke, size int) (string, error) {
	return DataURI(r.Render(strokes, size, size, 1))
}
