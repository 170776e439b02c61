package ui

import (
	"fmt"
	"log"

	"LiveSketch/internal/export"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

func (s *Screen) saveSketch(writer fyne.URIWriteCloser) {
	defer func() {
		if err := writer.Close(); err != nil {
			log.Printf("Error closing writer: %v", err)
		}
	}()
	strokes := s.Session.Drawing.Strokes()
	if err := export.SaveJSON(writer, strokes); err != nil {
		s.showError(err)
		return
	}
	s.setStatus(fmt.Sprintf("Saved %d strokes", len(strokes)))
}

func (s *Screen) openSketch(reader fyne.URIReadCloser) {
	defer func() {
		if err := reader.Close(); err != nil {
			log.Printf("Error closing reader: %v", err)
		}
	}()
	strokes, err := export.LoadJSON(reader)
	if err != nil {
		s.showError(err)
		return
	}
	s.Session.Load(strokes)
	s.setStatus(fmt.Sprintf("Loaded %d strokes", len(strokes)))
}

func (s *Screen) exportPDF(writer fyne.URIWriteCloser) {
	defer func() {
		if err := writer.Close(); err != nil {
			log.Printf("Error closing writer: %v", err)
		}
	}()
	err := export.WritePDF(writer, export.Document{
		Strokes:    s.Session.Drawing.Strokes(),
		CanvasSize: s.size,
		Prompt:     s.Session.Prompt(),
		Result:     s.Result.Current(),
	})
	if err != nil {
		s.showError(err)
		return
	}
	s.setStatus("Exported " + writer.URI().Name())
}

// fileMenu builds the File menu; dialogs need a window to attach to.
func (s *Screen) fileMenu(win fyne.Window) *fyne.Menu {
	jsonFilter := storage.NewExtensionFileFilter([]string{".json"})
	pdfFilter := storage.NewExtensionFileFilter([]string{".pdf"})

	save := fyne.NewMenuItem("Save Sketch...", func() {
		d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
			if err != nil {
				s.showError(err)
				return
			}
			if w != nil {
				s.saveSketch(w)
			}
		}, win)
		d.SetFileName("sketch.json")
		d.SetFilter(jsonFilter)
		d.Show()
	})
	open := fyne.NewMenuItem("Open Sketch...", func() {
		d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
			if err != nil {
				s.showError(err)
				return
			}
			if r != nil {
				s.openSketch(r)
			}
		}, win)
		d.SetFilter(jsonFilter)
		d.Show()
	})
	pdf := fyne.NewMenuItem("Export PDF...", func() {
		d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
			if err != nil {
				s.showError(err)
				return
			}
			if w != nil {
				s.exportPDF(w)
			}
		}, win)
		d.SetFileName("sketch.pdf")
		d.SetFilter(pdfFilter)
		d.Show()
	})
	return fyne.NewMenu("File", open, save, fyne.NewMenuItemSeparator(), pdf)
}
