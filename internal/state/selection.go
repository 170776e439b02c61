package state

import (
	"fmt"
	"sync"
)

// Selection holds the color and width used by the next stroke.
type Selection struct {
	mu    sync.RWMutex
	color Color
	width float32
}

// NewSelection starts with the default color and width.
func NewSelection() *Selection {
	return &Selection{color: DefaultColor, width: DefaultWidth}
}

// SetColor changes the color; names outside the palette return ErrUnknownColor.
func (s *Selection) SetColor(c Color) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownColor, string(c))
	}
	s.mu.Lock()
	s.color = c
	s.mu.Unlock()
	return nil
}

// SetWidth changes the width; values outside Widths return ErrUnknownWidth.
func (s *Selection) SetWidth(w float32) error {
	if !ValidWidth(w) {
		return fmt.Errorf("%w: %v", ErrUnknownWidth, w)
	}
	s.mu.Lock()
	s.width = w
	s.mu.Unlock()
	return nil
}

// Color returns the selected color.
func (s *Selection) Color() Color {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.color
}

// Width returns the selected width.
func (s *Selection) Width() float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width
}

// Result keeps the URL of the newest generated image. Writers race freely;
// whichever Set runs last is what gets displayed.
type Result struct {
	mu  sync.RWMutex
	url string
}

// Set replaces the stored URL.
func (r *Result) Set(url string) {
	r.mu.Lock()
	r.url = url
	r.mu.Unlock()
}

// URL returns the last stored URL, empty before the first result.
func (r *Result) URL() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.url
}
