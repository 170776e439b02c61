package sampler

import (
	"sync"
	"time"
)

// DefaultInterval matches the snapshot period used while a stroke is being drawn.
const DefaultInterval = 8 * time.Millisecond

// Sampler calls a function on a fixed period between Start and Stop.
// It is a plain poll: ticks are not coalesced and work already handed off
// by a tick is never cancelled.
type Sampler struct {
	interval time.Duration
	tick     func()

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

func New(interval time.Duration, tick func()) *Sampler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sampler{interval: interval, tick: tick}
}

// Start launches the loop. Calling Start while running does nothing.
func (s *Sampler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(s.stop, s.done)
}

// Stop ends the loop and waits for it to exit, so no tick fires after
// Stop returns.
func (s *Sampler) Stop() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// Running reports whether the loop is active.
func (s *Sampler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop != nil
}

func (s *Sampler) run(stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// A tick and a stop can be ready together; stop wins.
			select {
			case <-stop:
				return
			default:
			}
			s.tick()
		}
	}
}
