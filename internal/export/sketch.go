package export

import (
	"encoding/json"
	"fmt"
	"io"
	"log"

	"LiveSketch/internal/state"
)

// SaveJSON writes strokes as an indented JSON array.
func SaveJSON(w io.Writer, strokes []state.Stroke) error {
	data, err := json.MarshalIndent(strokes, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sketch: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write sketch: %w", err)
	}
	log.Printf("[EXPORT] Saved %d strokes", len(strokes))
	return nil
}

// LoadJSON reads a sketch written by SaveJSON. Strokes whose color or width
// is not selectable, or that contain an unknown segment kind, are rejected.
func LoadJSON(r io.Reader) ([]state.Stroke, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read sketch: %w", err)
	}
	var strokes []state.Stroke
	if err := json.Unmarshal(data, &strokes); err != nil {
		return nil, fmt.Errorf("parse sketch: %w", err)
	}
	for i, s := range strokes {
		if !s.Color.Valid() {
			return nil, fmt.Errorf("stroke %d: %w: %q", i, state.ErrUnknownColor, string(s.Color))
		}
		if !state.ValidWidth(s.Width) {
			return nil, fmt.Errorf("stroke %d: %w: %v", i, state.ErrUnknownWidth, s.Width)
		}
		for j, seg := range s.Segments {
			if !seg.Kind.Valid() {
				return nil, fmt.Errorf("stroke %d segment %d: %w: %q", i, j, state.ErrUnknownSegment, string(seg.Kind))
			}
		}
	}
	log.Printf("[EXPORT] Loaded %d strokes", len(strokes))
	return strokes, nil
}
