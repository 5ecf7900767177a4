// Package clock abstracts the host video's time source. The rest of the
// engine depends only on a stream of time samples, never on which source
// produced them.
package clock

import (
	"context"
	"sync"
	"time"
)

// DefaultPollHz is the fallback polling rate, one sample per rendering
// frame budget.
const DefaultPollHz = 60

// Sample is one observation of the playback clock.
type Sample struct {
	Media float64 // sec, presentation time
	At    time.Time
}

// PlaybackClock is the host video element's stand-in.
type PlaybackClock interface {
	CurrentTime() float64 // sec
	Paused() bool
}

// Source delivers samples to fn until Stop. Start is idempotent while
// running; after Stop returns no further samples are delivered.
type Source interface {
	Start(ctx context.Context, fn func(Sample))
	Stop()
}

// Pick selects the highest-fidelity source the host supports. Absence of
// per-frame callbacks silently falls back to polling.
func Pick(pc PlaybackClock, frameCallbacks bool, pollHz int) Source {
	if frameCallbacks {
		return NewFrameSource()
	}
	return NewPollingSource(pc, pollHz)
}

// FrameSource is the preferred mode: the host pushes the exact presentation
// timestamp of every decoded frame via OnFrame.
type FrameSource struct {
	mu      sync.Mutex
	fn      func(Sample)
	running bool
}

func NewFrameSource() *FrameSource { return &FrameSource{} }

func (s *FrameSource) Start(_ context.Context, fn func(Sample)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.fn = fn
	s.running = true
}

func (s *FrameSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.fn = nil
}

// OnFrame forwards one decoded frame's presentation timestamp. No-op while
// stopped, so a late host callback after pause is harmless.
func (s *FrameSource) OnFrame(pts float64) {
	s.mu.Lock()
	fn := s.fn
	s.mu.Unlock()
	if fn != nil {
		fn(Sample{Media: pts, At: time.Now()})
	}
}

// PollingSource reads PlaybackClock.CurrentTime on a fixed-rate ticker.
// Samples are suppressed while the clock reports paused.
type PollingSource struct {
	pc PlaybackClock
	hz int

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewPollingSource(pc PlaybackClock, hz int) *PollingSource {
	if hz <= 0 {
		hz = DefaultPollHz
	}
	return &PollingSource{pc: pc, hz: hz}
}

func (s *PollingSource) Start(ctx context.Context, fn func(Sample)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	interval := time.Second / time.Duration(s.hz)
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				if s.pc.Paused() {
					continue
				}
				fn(Sample{Media: s.pc.CurrentTime(), At: now})
			}
		}
	}()
}

func (s *PollingSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
