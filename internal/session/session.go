package session

import (
	"log"
	"sync"
	"time"

	"LiveSketch/internal/realtime"
	"LiveSketch/internal/sampler"
	"LiveSketch/internal/state"
)

// Sender submits an image request. realtime.Client satisfies it.
type Sender interface {
	Send(in realtime.Input)
}

// SnapshotFunc rasterizes the given strokes and returns them as a data URI.
type SnapshotFunc func(strokes []state.Stroke) (string, error)

// Options wires a Session to its collaborators. Snapshot may be nil until
// a canvas exists; sends are skipped while it is.
type Options struct {
	Prompt   string
	Seed     int
	Interval time.Duration
	Sender   Sender
	Snapshot SnapshotFunc
}

// Session is the state behind the sketch screen: the drawing, the toolbar
// selection, the prompt and the newest generated image. Touch events start
// and stop a sampler that keeps sending snapshots while a finger is down.
type Session struct {
	Drawing   *state.Drawing
	Selection *state.Selection
	Result    *state.Result

	// OnChange fires after the drawing changes, OnImage after a new result
	// URL is stored. Both may be called from any goroutine.
	OnChange func()
	OnImage  func(url string)

	mu       sync.RWMutex
	prompt   string
	seed     int
	sender   Sender
	snapshot SnapshotFunc
	dragging bool
	sampler  *sampler.Sampler
}

func New(opts Options) *Session {
	s := &Session{
		Drawing:   state.NewDrawing(),
		Selection: state.NewSelection(),
		Result:    &state.Result{},
		prompt:    opts.Prompt,
		seed:      opts.Seed,
		sender:    opts.Sender,
		snapshot:  opts.Snapshot,
	}
	s.sampler = sampler.New(opts.Interval, s.SendSnapshot)
	return s
}

// AttachSnapshot sets the function used to capture the canvas.
func (s *Session) AttachSnapshot(fn SnapshotFunc) {
	s.mu.Lock()
	s.snapshot = fn
	s.mu.Unlock()
}

// AttachSender sets the destination of snapshot requests.
func (s *Session) AttachSender(sender Sender) {
	s.mu.Lock()
	s.sender = sender
	s.mu.Unlock()
}

// TouchStart begins a stroke with the current selection and starts sampling.
func (s *Session) TouchStart(p state.Point) {
	s.Drawing.Begin(p, s.Selection.Color(), s.Selection.Width())
	s.mu.Lock()
	s.dragging = true
	s.mu.Unlock()
	s.sampler.Start()
	s.changed()
}

// TouchMove extends the stroke started by the last TouchStart.
func (s *Session) TouchMove(p state.Point) {
	if s.Drawing.Extend(p) {
		s.changed()
	}
}

// TouchEnd stops sampling. Requests already sent are left to finish.
func (s *Session) TouchEnd() {
	s.mu.Lock()
	s.dragging = false
	s.mu.Unlock()
	s.sampler.Stop()
}

// Dragging reports whether a gesture is in progress.
func (s *Session) Dragging() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dragging
}

// Reset clears the canvas and sends a single snapshot of the empty canvas.
func (s *Session) Reset() {
	s.Drawing.Reset()
	s.changed()
	s.SendSnapshot()
}

// Load replaces the drawing with strokes read from a saved sketch and sends
// one snapshot of the result.
func (s *Session) Load(strokes []state.Stroke) {
	s.Drawing.Replace(strokes)
	s.changed()
	s.SendSnapshot()
}

// SendSnapshot captures the canvas and submits it with the current prompt.
func (s *Session) SendSnapshot() {
	s.mu.RLock()
	snapshot, sender := s.snapshot, s.sender
	in := realtime.Input{Prompt: s.prompt, Seed: s.seed, SyncMode: true}
	s.mu.RUnlock()

	if snapshot == nil || sender == nil {
		return
	}
	uri, err := snapshot(s.Drawing.Strokes())
	if err != nil {
		log.Printf("[SESSION] Snapshot failed: %v", err)
		return
	}
	in.ImageURL = uri
	sender.Send(in)
}

// SetColor selects the palette color for the next stroke.
func (s *Session) SetColor(c state.Color) error { return s.Selection.SetColor(c) }

// SetWidth selects the width for the next stroke.
func (s *Session) SetWidth(w float32) error { return s.Selection.SetWidth(w) }

// Color returns the color the next stroke will use.
func (s *Session) Color() state.Color { return s.Selection.Color() }

// Width returns the width the next stroke will use.
func (s *Session) Width() float32 { return s.Selection.Width() }

// SetPrompt changes the text sent with every following snapshot.
func (s *Session) SetPrompt(p string) {
	s.mu.Lock()
	s.prompt = p
	s.mu.Unlock()
}

// Prompt returns the current prompt text.
func (s *Session) Prompt() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prompt
}

// Seed returns the fixed seed sent with every request.
func (s *Session) Seed() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seed
}

// HandleResult shows the first image of out. Results are applied in arrival
// order, whatever order their requests were sent in.
func (s *Session) HandleResult(out realtime.Output) {
	if len(out.Images) == 0 {
		log.Printf("[SESSION] Result without images (seed %d)", out.Seed)
		return
	}
	url := out.Images[0].URL
	s.Result.Set(url)
	if s.OnImage != nil {
		s.OnImage(url)
	}
}

// HandleError logs a failed request. There is no retry and nothing is shown.
func (s *Session) HandleError(err error) {
	log.Printf("[SESSION] error: %v", err)
}

// Close stops sampling for good; call it when the screen goes away.
func (s *Session) Close() {
	s.TouchEnd()
}

func (s *Session) changed() {
	if s.OnChange != nil {
		s.OnChange()
	}
}
