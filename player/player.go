// Package player wires the caption pipeline together: clock samples flow
// through event resolution, segmentation, animation and projection on a
// single goroutine, so the caches are never touched concurrently.
package player

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/teamKimtaerin/ecg-player/animation"
	"github.com/teamKimtaerin/ecg-player/clock"
	"github.com/teamKimtaerin/ecg-player/layout"
	"github.com/teamKimtaerin/ecg-player/projection"
	"github.com/teamKimtaerin/ecg-player/resolver"
	"github.com/teamKimtaerin/ecg-player/timing"
)

// resize events are coalesced with a trailing debounce of one frame budget
const resizeDebounce = 16 * time.Millisecond

type size struct{ w, h int }

// Options configure a Player.
type Options struct {
	SyncOffset float64 // sec, positive delays captions
	Viewport   animation.Viewport
}

// Player owns the timing document and every downstream cache. All mutation
// happens on its loop goroutine; the exported methods only enqueue.
type Player struct {
	log  *logrus.Entry
	opts Options

	doc      *timing.Document
	engine   *layout.Engine
	anim     *animation.Manager
	source   clock.Source
	vp       animation.Viewport
	offset   float64
	playing  bool
	onSnap   func(projection.Snapshot)

	samples   chan clock.Sample
	resizes   chan size
	ctrl      chan func()
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// New creates a player with no document loaded. Close must be called to
// release the loop.
func New(opts Options) *Player {
	if opts.Viewport.W == 0 {
		opts.Viewport = animation.Viewport{W: 1280, H: 720}
	}
	p := &Player{
		log:     logrus.WithField("component", "player"),
		opts:    opts,
		engine:  layout.New(nil),
		anim:    animation.NewManager(),
		vp:      opts.Viewport,
		offset:  opts.SyncOffset,
		samples: make(chan clock.Sample, 4),
		resizes: make(chan size, 4),
		ctrl:    make(chan func(), 8),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go p.loop()
	return p
}

// OnSnapshot registers the rendering callback, invoked synchronously on the
// loop for every processed sample.
func (p *Player) OnSnapshot(fn func(projection.Snapshot)) {
	p.do(func() { p.onSnap = fn })
}

// Load swaps in a new document atomically: animation handles are cleared
// and layout caches reset. A nil document unloads captions.
func (p *Player) Load(doc *timing.Document) {
	p.do(func() {
		p.doc = doc
		p.engine = layout.New(doc.Effective())
		p.anim.ClearAll()
		if doc != nil {
			p.log.WithFields(logrus.Fields{
				"events":   len(doc.SyncEvents),
				"duration": doc.TotalDuration,
			}).Info("document loaded")
		}
	})
}

// Attach connects a time source. Any previous source is stopped first.
func (p *Player) Attach(src clock.Source) {
	p.do(func() {
		if p.source != nil {
			p.source.Stop()
		}
		p.source = src
		p.playing = false
	})
}

// Play starts sampling. Safe to call repeatedly; resuming re-enters the
// same callback chain without duplicate subscriptions.
func (p *Player) Play(ctx context.Context) {
	p.do(func() {
		if p.source == nil || p.playing {
			return
		}
		p.playing = true
		p.source.Start(ctx, p.push)
	})
}

// Pause deterministically stops sampling. Animation state is frozen, not
// reset.
func (p *Player) Pause() {
	p.do(func() {
		if p.source == nil || !p.playing {
			return
		}
		p.playing = false
		p.source.Stop()
	})
}

// Seek processes t as an ordinary time jump immediately, without waiting
// for the next clock sample.
func (p *Player) Seek(t float64) {
	p.do(func() { p.step(t) })
}

// Flush blocks until every command enqueued before it has run. Intended
// for headless drivers and tests.
func (p *Player) Flush() {
	ack := make(chan struct{})
	p.do(func() { close(ack) })
	select {
	case <-ack:
	case <-p.stopped:
	}
}

// SetOffset changes the global sync offset.
func (p *Player) SetOffset(o float64) {
	p.do(func() { p.offset = o })
}

// Resize reports a new viewport size. Bursts are coalesced; only the
// trailing size is applied.
func (p *Player) Resize(w, h int) {
	select {
	case p.resizes <- size{w, h}:
	case <-p.stopped:
	}
}

// Close clears all animation handles and shuts the loop down. Idempotent.
func (p *Player) Close() {
	p.closeOnce.Do(func() { close(p.done) })
	<-p.stopped
}

// push is handed to the clock source; it forwards samples onto the loop.
// Drops are acceptable: a newer sample always follows.
func (p *Player) push(s clock.Sample) {
	select {
	case p.samples <- s:
	default:
	}
}

func (p *Player) do(fn func()) {
	select {
	case p.ctrl <- fn:
	case <-p.stopped:
	}
}

func (p *Player) loop() {
	defer close(p.stopped)
	var (
		pending   size
		hasResize bool
		debounce  *time.Timer
		fire      <-chan time.Time
	)
	for {
		select {
		case <-p.done:
			if debounce != nil {
				debounce.Stop()
			}
			if p.source != nil {
				p.source.Stop()
			}
			p.anim.ClearAll()
			return
		case fn := <-p.ctrl:
			fn()
		case s := <-p.samples:
			p.step(s.Media)
		case sz := <-p.resizes:
			pending, hasResize = sz, true
			if debounce == nil {
				debounce = time.NewTimer(resizeDebounce)
			} else {
				if !debounce.Stop() {
					select {
					case <-debounce.C:
					default:
					}
				}
				debounce.Reset(resizeDebounce)
			}
			fire = debounce.C
		case <-fire:
			fire = nil
			if hasResize {
				hasResize = false
				p.applyResize(pending)
			}
		}
	}
}

func (p *Player) applyResize(sz size) {
	if sz.w == p.vp.W && sz.h == p.vp.H {
		return
	}
	p.vp = animation.Viewport{W: sz.w, H: sz.h}
	p.engine.InvalidateSize(sz.w, sz.h)
	p.log.WithFields(logrus.Fields{"w": sz.w, "h": sz.h}).Debug("viewport resized")
}

// step runs the whole per-frame pipeline for one media timestamp,
// synchronously: resolve -> segment -> animate -> project -> callback.
func (p *Player) step(t float64) {
	if p.doc == nil {
		return
	}
	frame := resolver.Resolve(p.doc, t, p.offset)

	var live []string
	for _, l := range []*resolver.Live{frame.Primary, frame.Secondary} {
		if l == nil {
			continue
		}
		live = append(live, l.Event.EventID)
		seg, _ := p.engine.SegmentFor(l.Event, frame.Adjusted, p.vp.W, p.vp.H)
		p.anim.Track(l.Event, seg, p.vp)
	}
	p.anim.Prune(live...)
	p.anim.UpdateWave(frame.Adjusted)

	if p.onSnap != nil {
		p.onSnap(projection.Project(frame, p.engine, p.anim, p.settings(), p.vp))
	}
}

func (p *Player) settings() *timing.LayoutSettings {
	if p.doc != nil {
		return p.doc.Effective()
	}
	return timing.DefaultLayout()
}
