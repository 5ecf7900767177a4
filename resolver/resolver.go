// Package resolver maps a playback timestamp to the caption events that are
// live at that moment: pre-reading candidates, the actively spoken word, and
// the two caption slots.
package resolver

import (
	"github.com/teamKimtaerin/ecg-player/timing"
)

// Live is one event occupying a caption slot.
type Live struct {
	Event      *timing.SyncEvent
	ActiveWord int  // index into Event.Words, -1 when none
	PreReading bool // true when shown only because of its pre-reading window
}

// Frame is the resolution result for one time sample. Primary is the bottom
// slot, Secondary the slot above it. At most two simultaneous slots exist;
// further overlapping speakers are dropped.
type Frame struct {
	Time      float64
	Adjusted  float64
	Primary   *Live
	Secondary *Live
	Effects   []*timing.ElevationEffect // elevation effects live at Adjusted
}

// Resolve determines the live events at time t with the global sync offset
// applied. Pure; safe to call every sample.
func Resolve(doc *timing.Document, t, offset float64) Frame {
	adjusted := t - offset
	f := Frame{Time: t, Adjusted: adjusted}
	if doc == nil {
		return f
	}

	for i := range doc.ElevationEffects {
		fx := &doc.ElevationEffects[i]
		if fx.Start <= adjusted && adjusted <= fx.End {
			f.Effects = append(f.Effects, fx)
		}
	}

	// pass 1: pre-reading membership
	var candidates []*timing.SyncEvent
	for i := range doc.SyncEvents {
		ev := &doc.SyncEvents[i]
		if ev.PreReading.Start <= adjusted && adjusted <= ev.PreReading.End {
			candidates = append(candidates, ev)
		}
	}

	// pass 2: active word membership; earliest-in-sentence wins across events
	var primary *Live
	for i := range doc.SyncEvents {
		ev := &doc.SyncEvents[i]
		wi := activeWord(ev, adjusted)
		if wi < 0 {
			continue
		}
		if primary == nil || ev.Words[wi].WordIndex < primary.Event.Words[primary.ActiveWord].WordIndex {
			primary = &Live{Event: ev, ActiveWord: wi}
		}
	}

	// no active word anywhere: fall back to a pre-reading candidate
	if primary == nil {
		if len(candidates) == 0 {
			return f
		}
		primary = &Live{Event: candidates[0], ActiveWord: -1, PreReading: true}
	}
	f.Primary = primary

	// one secondary slot for a different speaker still in pre-reading;
	// earliest pre-reading start wins, the rest are dropped
	var second *timing.SyncEvent
	for _, ev := range candidates {
		if ev.EventID == primary.Event.EventID || ev.SpeakerID == primary.Event.SpeakerID {
			continue
		}
		if second == nil || ev.PreReading.Start < second.PreReading.Start {
			second = ev
		}
	}
	if second != nil {
		wi := activeWord(second, adjusted)
		f.Secondary = &Live{Event: second, ActiveWord: wi, PreReading: wi < 0}
	}
	return f
}

// activeWord returns the lowest-index word of ev whose window contains t,
// or -1.
func activeWord(ev *timing.SyncEvent, t float64) int {
	for i := range ev.Words {
		w := &ev.Words[i]
		if w.Start <= t && t <= w.End {
			return i
		}
	}
	return -1
}
