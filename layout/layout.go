// Package layout partitions a sentence's words into line-fitting segments
// against the caption-box width budget, caching per (event, viewport) with a
// sticky forward-only segment index.
package layout

import (
	"strings"
	"unicode/utf8"

	"github.com/teamKimtaerin/ecg-player/timing"
)

const charWidthFactor = 0.6 // average glyph width relative to font size

// Segment is a line-fitting run of words, [First,Last] indices into the
// event's word slice.
type Segment struct {
	First int
	Last  int
}

// Metrics are the estimated text measurements for one viewport.
type Metrics struct {
	FontSizePx  float64
	CharWidthPx float64
	MaxWidthPx  float64
}

type cacheKey struct {
	eventID string
	w, h    int
}

// Engine owns the segmentation cache and the current-segment index, both
// keyed by (event_id, viewport). Not safe for concurrent use; the player
// serializes every caller on its own loop.
type Engine struct {
	settings *timing.LayoutSettings
	segments map[cacheKey][]Segment
	current  map[cacheKey]int
}

func New(settings *timing.LayoutSettings) *Engine {
	if settings == nil {
		settings = timing.DefaultLayout()
	}
	return &Engine{
		settings: settings,
		segments: make(map[cacheKey][]Segment),
		current:  make(map[cacheKey]int),
	}
}

// Measure derives the width budget for a viewport: font size from the
// baseline percentage of the viewport height, glyph width as 0.6x the font
// size, box width minus horizontal padding.
func (e *Engine) Measure(w, h int) Metrics {
	fontSize := e.settings.Style.BaseFontPercent * float64(h) / 100
	workWidth := float64(w) * e.settings.WorkArea.WidthPercent / 100
	pad := workWidth * e.settings.Style.HorizontalPaddingPercent / 100
	return Metrics{
		FontSizePx:  fontSize,
		CharWidthPx: fontSize * charWidthFactor,
		MaxWidthPx:  workWidth - 2*pad,
	}
}

// SegmentsFor returns the event's segments for a viewport, computing and
// caching them on first use.
func (e *Engine) SegmentsFor(ev *timing.SyncEvent, w, h int) []Segment {
	k := cacheKey{eventID: ev.EventID, w: w, h: h}
	if segs, ok := e.segments[k]; ok {
		return segs
	}
	segs := pack(ev.Words, e.Measure(w, h))
	e.segments[k] = segs
	return segs
}

// pack greedily fills segments left to right. A word whose own estimate
// exceeds the budget still gets a segment of its own; nothing is truncated.
func pack(words []timing.Word, m Metrics) []Segment {
	if len(words) == 0 {
		return nil
	}
	var out []Segment
	first := 0
	acc := 0.0
	for i := range words {
		est := float64(utf8.RuneCountInString(words[i].Word)+1) * m.CharWidthPx
		if acc > 0 && acc+est > m.MaxWidthPx {
			out = append(out, Segment{First: first, Last: i - 1})
			first = i
			acc = 0
		}
		acc += est
	}
	return append(out, Segment{First: first, Last: len(words) - 1})
}

// SegmentFor returns the segment to display for ev at time t, applying the
// sticky advancement rule: stay while any word of the current segment is
// active or still ahead; advance once the segment's last word has ended and
// none of its words is active. The index never regresses within an event.
func (e *Engine) SegmentFor(ev *timing.SyncEvent, t float64, w, h int) (Segment, int) {
	segs := e.SegmentsFor(ev, w, h)
	if len(segs) == 0 {
		return Segment{}, 0
	}
	k := cacheKey{eventID: ev.EventID, w: w, h: h}
	idx, ok := e.current[k]
	if !ok {
		// fresh key (first sight or resize mid-sentence): start at the
		// segment containing the first word that has not finished yet
		idx = initialIndex(ev, segs, t)
	}
	for idx < len(segs)-1 && segmentDone(ev, segs[idx], t) {
		idx++
	}
	e.current[k] = idx
	return segs[idx], idx
}

func segmentDone(ev *timing.SyncEvent, s Segment, t float64) bool {
	if t <= ev.Words[s.Last].End {
		return false
	}
	for i := s.First; i <= s.Last; i++ {
		w := &ev.Words[i]
		if w.Start <= t && t <= w.End {
			return false
		}
	}
	return true
}

func initialIndex(ev *timing.SyncEvent, segs []Segment, t float64) int {
	for i, s := range segs {
		if t <= ev.Words[s.Last].End {
			return i
		}
	}
	return len(segs) - 1
}

// Text joins the segment's words for display.
func Text(ev *timing.SyncEvent, s Segment) string {
	var b strings.Builder
	for i := s.First; i <= s.Last && i < len(ev.Words); i++ {
		if i > s.First {
			b.WriteByte(' ')
		}
		b.WriteString(ev.Words[i].Word)
	}
	return b.String()
}

// InvalidateSize drops cache entries built for other viewport sizes.
// Entries are replaced, never merged, when the key changes.
func (e *Engine) InvalidateSize(w, h int) {
	for k := range e.segments {
		if k.w != w || k.h != h {
			delete(e.segments, k)
		}
	}
	for k := range e.current {
		if k.w != w || k.h != h {
			delete(e.current, k)
		}
	}
}

// Reset clears both caches, e.g. on document reload.
func (e *Engine) Reset() {
	e.segments = make(map[cacheKey][]Segment)
	e.current = make(map[cacheKey]int)
}
