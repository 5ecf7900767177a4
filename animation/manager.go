// Package animation owns per-character animation state: wave/bounce motion,
// color transitions and the scale/elevation effect family. Every output is a
// pure function of elapsed time; the manager only tracks which handles exist
// and the retrigger guards.
package animation

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/teamKimtaerin/ecg-player/layout"
	"github.com/teamKimtaerin/ecg-player/timing"
)

// CharKey is the stable identity of one animated character.
type CharKey struct {
	EventID   string
	WordIndex int
	CharIndex int
}

// Phase of a character's bounce lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseBouncing
	PhaseSettled
)

// Viewport is the rendering surface size in pixels.
type Viewport struct {
	W, H int
}

// State is a character's visual output for one sample.
type State struct {
	Phase      Phase
	OffsetY    float64 // px, negative lifts the glyph
	Scale      float64
	FontScale  float64
	Brightness float64
	Weight     float64 // percent delta over baseline weight
	JitterX    float64 // px
	JitterY    float64 // px
	Color      string // #RRGGBB, empty inherits the box color
	Shadow     bool
}

func baseline(phase Phase) State {
	return State{Phase: phase, Scale: 1, FontScale: 1, Brightness: 1}
}

type charState struct {
	idx         int // char index within the word
	word        *timing.Word
	runeCount   int
	ct          timing.CharacterTiming
	anim        timing.Animation
	phase       Phase
	startKey    float64 // ct.StartTime of the bounce that already ran
	fired       bool    // startKey is valid
	colorAnchor float64 // transition time the color timer is armed on
	out         State
}

// Manager owns the map of active animation handles. Its lifetime is the
// mounted lifetime of the player; not safe for concurrent use (the player
// serializes all callers on its loop).
type Manager struct {
	log   *logrus.Entry
	vp    Viewport
	chars map[CharKey]*charState
}

func NewManager() *Manager {
	return &Manager{
		log:   logrus.WithField("component", "animation"),
		chars: make(map[CharKey]*charState),
	}
}

// Track ensures handles exist for every character of the segment's words.
// Idempotent; existing handles keep their guards.
func (m *Manager) Track(ev *timing.SyncEvent, seg layout.Segment, vp Viewport) {
	m.vp = vp
	for wi := seg.First; wi <= seg.Last && wi < len(ev.Words); wi++ {
		w := &ev.Words[wi]
		cts := w.CharTimings()
		runes := []rune(w.Word)
		for ci := range cts {
			k := CharKey{EventID: ev.EventID, WordIndex: w.WordIndex, CharIndex: ci}
			if _, ok := m.chars[k]; ok {
				continue
			}
			m.chars[k] = &charState{
				idx:       ci,
				word:      w,
				runeCount: len(runes),
				ct:        cts[ci],
				anim:      w.Resolved,
				phase:     PhaseIdle,
				out:       baseline(PhaseIdle),
			}
		}
	}
}

// Prune drops handles whose event is no longer live, resetting the
// retrigger guards across an event change and keeping the map bounded under
// repeated seeks.
func (m *Manager) Prune(liveEventIDs ...string) {
	live := make(map[string]struct{}, len(liveEventIDs))
	for _, id := range liveEventIDs {
		live[id] = struct{}{}
	}
	for k := range m.chars {
		if _, ok := live[k.EventID]; !ok {
			delete(m.chars, k)
		}
	}
}

// UpdateWave recomputes every handle's output for time t. Called
// synchronously from the clock sample, same tick. Tolerates t moving
// backward: a character that already settled for its window stays settled
// instead of re-triggering.
func (m *Manager) UpdateWave(t float64) {
	for _, st := range m.chars {
		m.update(st, t)
	}
}

func (m *Manager) update(st *charState, t float64) {
	start, end := st.ct.StartTime, st.ct.EndTime
	switch {
	case t >= end:
		// pin to baseline and clear transform overrides so nothing leaks
		// into the next word's render
		st.phase = PhaseSettled
		st.startKey, st.fired = start, true
		st.out = baseline(PhaseSettled)
	case t < start:
		if st.fired && st.startKey == start {
			// backward seek after the bounce completed: stay settled
			st.out = baseline(PhaseSettled)
		} else {
			st.phase = PhaseIdle
			st.out = baseline(PhaseIdle)
		}
	default:
		if st.fired && st.startKey == start && st.phase == PhaseSettled {
			st.out = baseline(PhaseSettled)
			break
		}
		if st.phase != PhaseBouncing {
			st.phase = PhaseBouncing
			st.startKey, st.fired = start, true
		}
		st.out = m.active(st, t)
	}
	st.out.Color = colorAt(st, t)
}

// active computes the in-window output for the word's animation variant.
func (m *Manager) active(st *charState, t float64) State {
	out := baseline(PhaseBouncing)
	span := st.ct.EndTime - st.ct.StartTime
	if span <= 0 {
		return out
	}
	p := clamp01((t - st.ct.StartTime) / span)
	switch st.anim.Kind {
	case timing.AnimBouncing:
		peak := st.ct.StartTime + span/2
		if st.ct.PeakTime != nil {
			peak = *st.ct.PeakTime
		}
		peakOffset := (peak - st.ct.StartTime) / span
		bounceRange := float64(m.vp.H) * (st.anim.MaxHeightPercent - st.anim.MinHeightPercent) / 100
		out.OffsetY = OffsetAt(p, PhaseOffset(st.idx, st.runeCount), peakOffset, st.anim.WaveCycles, bounceRange)
	case timing.AnimElevation:
		env := riseFall(p)
		out.OffsetY = -float64(m.vp.H) * st.anim.LiftPercent / 100 * env
		out.Scale = 1 + (st.anim.ScalePeak-1)*env
		if st.anim.Trembling {
			out.JitterX = st.anim.TrembleAmp * math.Sin(2*math.Pi*st.anim.TrembleHz*t)
			out.JitterY = st.anim.TrembleAmp * math.Cos(2*math.Pi*st.anim.TrembleHz*t*0.9)
		}
	case timing.AnimWhisper:
		out.FontScale = st.anim.FontScale
	case timing.AnimLoud:
		out.FontScale = st.anim.FontScale
		out.Brightness = st.anim.Brightness
		out.Weight = st.anim.Weight
		out.Shadow = st.anim.Shadow
	}
	return out
}

// colorAt evaluates the word's color transition. The transition is armed
// once per distinct anchor time, so re-sampling never restarts it.
func colorAt(st *charState, t float64) string {
	tr := st.word.ColorTransition
	if tr == nil {
		return ""
	}
	anchor := st.word.TransitionTime()
	if st.colorAnchor != anchor {
		st.colorAnchor = anchor
	}
	dur := tr.DurationMS / 1000
	if dur <= 0 {
		if t >= anchor {
			return tr.ToColor
		}
		return tr.FromColor
	}
	p := (t - anchor) / dur
	if p <= 0 {
		return tr.FromColor
	}
	if p >= 1 {
		return tr.ToColor
	}
	return lerpHex(tr.FromColor, tr.ToColor, easeInOut(p))
}

// StateOf returns a character's current output.
func (m *Manager) StateOf(k CharKey) (State, bool) {
	st, ok := m.chars[k]
	if !ok {
		return State{}, false
	}
	return st.out, true
}

// Cancel discards one handle.
func (m *Manager) Cancel(k CharKey) {
	delete(m.chars, k)
}

// ClearAll synchronously discards every handle. Subsequent UpdateWave calls
// are no-ops until new handles are tracked.
func (m *Manager) ClearAll() {
	m.chars = make(map[CharKey]*charState)
}

// Len reports the number of live handles.
func (m *Manager) Len() int { return len(m.chars) }
