package ui

import (
	"context"
	"image"
	"log"
	"sync"
	"time"

	"LiveSketch/internal/render"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
)

// ResultView displays the newest generated image. Images are decoded off
// the UI thread; a decode that finishes after a newer one was applied is
// dropped, so the screen never goes back to an older result.
type ResultView struct {
	Image *canvas.Image

	mu        sync.Mutex
	current   image.Image
	requested uint64
	applied   uint64
	decode    func(ctx context.Context, ref string) (image.Image, error)
}

func NewResultView(size int) *ResultView {
	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(float32(size), float32(size)))
	return &ResultView{Image: img, decode: render.DecodeImageURL}
}

// Show loads ref in the background and displays it when ready.
func (v *ResultView) Show(ref string) {
	v.mu.Lock()
	v.requested++
	gen := v.requested
	v.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		img, err := v.decode(ctx, ref)
		if err != nil {
			log.Printf("[RESULT] %v", err)
			return
		}
		fyne.Do(func() { v.set(gen, img) })
	}()
}

func (v *ResultView) set(gen uint64, img image.Image) {
	v.mu.Lock()
	if gen <= v.applied {
		v.mu.Unlock()
		return
	}
	v.applied = gen
	v.current = img
	v.mu.Unlock()
	v.Image.Image = img
	v.Image.Refresh()
}

// Current returns the image on screen, nil before the first result.
func (v *ResultView) Current() image.Image {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}
