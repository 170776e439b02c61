package ui

import (
	"log"

	"LiveSketch/internal/config"
	"LiveSketch/internal/render"
	"LiveSketch/internal/session"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

const (
	appID         = "io.livesketch.app"
	promptPrefKey = "prompt"
)

// Screen groups the widgets of the sketch screen around one session.
type Screen struct {
	Session *session.Session
	Canvas  *SketchCanvas
	Toolbar *Toolbar
	Result  *ResultView
	Prompt  *widget.Entry
	Clear   *widget.Button
	Status  *widget.Label

	size   int
	window fyne.Window
}

func NewScreen(s *session.Session, r *render.Renderer, size int) *Screen {
	sc := &Screen{
		Session: s,
		Canvas:  NewSketchCanvas(s, r, size),
		Toolbar: NewToolbar(s),
		Result:  NewResultView(size),
		Status:  widget.NewLabel("Ready"),
		size:    size,
	}
	sc.Clear = widget.NewButton("Clear Canvas", s.Reset)

	sc.Prompt = widget.NewEntry()
	sc.Prompt.SetPlaceHolder("prompt")
	sc.Prompt.SetText(s.Prompt())
	sc.Prompt.OnChanged = s.SetPrompt

	s.OnChange = func() { sc.Canvas.Refresh() }
	s.OnImage = sc.Result.Show
	return sc
}

// Content is the screen's layout: toolbar, canvas, clear button, the
// generated image and the prompt entry, top to bottom.
func (sc *Screen) Content() fyne.CanvasObject {
	return container.NewVScroll(container.NewVBox(
		sc.Toolbar.Object(),
		container.NewCenter(sc.Canvas),
		sc.Clear,
		container.NewCenter(sc.Result.Image),
		sc.Prompt,
		sc.Status,
	))
}

func (sc *Screen) setStatus(text string) {
	sc.Status.SetText(text)
}

func (sc *Screen) showError(err error) {
	log.Printf("[UI] %v", err)
	if sc.window != nil {
		dialog.ShowError(err, sc.window)
	}
	sc.setStatus(err.Error())
}

// RunApp opens the sketch window and blocks until it is closed.
func RunApp(cfg *config.Config, s *session.Session, r *render.Renderer) {
	myApp := app.NewWithID(appID)
	prefs := myApp.Preferences()
	s.SetPrompt(prefs.StringWithFallback(promptPrefKey, cfg.Prompt))

	myWindow := myApp.NewWindow("LiveSketch")
	screen := NewScreen(s, r, cfg.CanvasSize)
	screen.window = myWindow
	screen.Prompt.OnChanged = func(text string) {
		s.SetPrompt(text)
		prefs.SetString(promptPrefKey, text)
	}

	myWindow.SetMainMenu(fyne.NewMainMenu(screen.fileMenu(myWindow)))
	myWindow.SetContent(screen.Content())
	myWindow.Resize(fyne.NewSize(float32(cfg.CanvasSize)+80, float32(2*cfg.CanvasSize)+240))
	myWindow.SetOnClosed(s.Close)
	myWindow.ShowAndRun()
}
