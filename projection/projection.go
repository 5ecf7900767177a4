// Package projection translates a resolved frame plus animation state into
// plain visual attributes for the rendering surface. It owns no state and is
// safely recomputable every sample.
package projection

import (
	"math"

	"github.com/teamKimtaerin/ecg-player/animation"
	"github.com/teamKimtaerin/ecg-player/layout"
	"github.com/teamKimtaerin/ecg-player/resolver"
	"github.com/teamKimtaerin/ecg-player/timing"
)

// Slot identifies which caption box a projection fills.
type Slot int

const (
	SlotPrimary Slot = iota
	SlotSecondary
)

// CharStyle is everything the surface needs to draw one character.
type CharStyle struct {
	Rune       rune
	WordIndex  int
	X          float64 // px from box left
	TranslateY float64 // px, negative lifts
	Scale      float64
	FontSizePx float64
	Weight     float64 // percent of baseline weight, 100 = normal
	Color      string  // #RRGGBB
	Opacity    float64
	Brightness float64
	Shadow     bool
}

// Box is one rendered caption slot.
type Box struct {
	Slot       Slot
	EventID    string
	Speaker    string
	Text       string
	Segment    int
	X, Y       float64 // px, top-left
	W, H       float64 // px
	Opacity    float64
	RadiusPx   float64
	FontSizePx float64
	ZOrder     int
	Chars      []CharStyle
}

// Snapshot is the full visual state for one time sample.
type Snapshot struct {
	Time  float64
	Boxes []Box
}

const defaultTextColor = "#FFFFFF"

// Project maps (resolved frame, segments, animation state) to style
// attributes. Pure: no side effects, no mutation of its inputs.
func Project(
	frame resolver.Frame,
	eng *layout.Engine,
	anim *animation.Manager,
	settings *timing.LayoutSettings,
	vp animation.Viewport,
) Snapshot {
	snap := Snapshot{Time: frame.Time}
	if frame.Primary != nil {
		box := projectSlot(SlotPrimary, frame.Primary, frame.Adjusted, eng, anim, settings, vp)
		applyEffects(&box, frame, vp)
		snap.Boxes = append(snap.Boxes, box)
	}
	if frame.Secondary != nil {
		box := projectSlot(SlotSecondary, frame.Secondary, frame.Adjusted, eng, anim, settings, vp)
		applyEffects(&box, frame, vp)
		snap.Boxes = append(snap.Boxes, box)
	}
	return snap
}

// applyEffects layers the document's elevation effects on top of the
// per-word animation output. An effect lifts its named words along a 0-1-0
// envelope over the effect window.
func applyEffects(box *Box, frame resolver.Frame, vp animation.Viewport) {
	for _, fx := range frame.Effects {
		if fx.EventID != box.EventID {
			continue
		}
		span := fx.End - fx.Start
		if span <= 0 {
			continue
		}
		p := (frame.Adjusted - fx.Start) / span
		env := math.Sin(p * math.Pi)
		for _, mv := range fx.WordMoves {
			lift := float64(vp.H) * mv.LiftPercent / 100 * env
			for i := range box.Chars {
				if box.Chars[i].WordIndex != mv.WordIndex {
					continue
				}
				box.Chars[i].TranslateY -= lift
				if mv.Scale > 0 {
					box.Chars[i].Scale *= 1 + (mv.Scale-1)*env
				}
			}
		}
	}
}

func projectSlot(
	slot Slot,
	live *resolver.Live,
	adjusted float64,
	eng *layout.Engine,
	anim *animation.Manager,
	settings *timing.LayoutSettings,
	vp animation.Viewport,
) Box {
	ev := live.Event
	seg, segIdx := eng.SegmentFor(ev, adjusted, vp.W, vp.H)
	m := eng.Measure(vp.W, vp.H)

	geo := settings.Boxes[0]
	if slot == SlotSecondary && len(settings.Boxes) > 1 {
		geo = settings.Boxes[1]
	}
	boxW := float64(vp.W) * settings.WorkArea.WidthPercent / 100
	boxH := float64(vp.H) * geo.HeightPercent / 100
	box := Box{
		Slot:       slot,
		EventID:    ev.EventID,
		Speaker:    ev.SpeakerID,
		Text:       layout.Text(ev, seg),
		Segment:    segIdx,
		X:          float64(vp.W) * settings.WorkArea.LeftMarginPercent / 100,
		Y:          float64(vp.H) - float64(vp.H)*geo.BottomPercent/100 - boxH,
		W:          boxW,
		H:          boxH,
		Opacity:    settings.Style.Opacity,
		RadiusPx:   settings.Style.RadiusPx,
		FontSizePx: m.FontSizePx,
		ZOrder:     geo.ZOrder,
	}

	x := boxW * settings.Style.HorizontalPaddingPercent / 100
	for wi := seg.First; wi <= seg.Last && wi < len(ev.Words); wi++ {
		w := &ev.Words[wi]
		fontSize := m.FontSizePx
		weight := 100.0
		if fa := w.FontAdjustments; fa != nil {
			if fa.SizePercent > 0 {
				fontSize *= fa.SizePercent / 100
			}
			if fa.WeightPercent > 0 {
				weight = fa.WeightPercent
			}
		}
		opacity := 1.0
		if adjusted < w.Start {
			// not yet spoken: pre-reading emphasis
			opacity = ev.PreReading.Alpha
		}
		ci := 0
		for _, r := range w.Word {
			cs := charStyle(ev.EventID, w, r, ci, anim, fontSize, weight, opacity, x)
			box.Chars = append(box.Chars, cs)
			x += cs.FontSizePx * 0.6
			ci++
		}
		x += fontSize * 0.6 // trailing space advance
	}
	return box
}

func charStyle(eventID string, w *timing.Word, r rune, ci int, anim *animation.Manager, fontSize, weight, opacity, x float64) CharStyle {
	cs := CharStyle{
		Rune:       r,
		WordIndex:  w.WordIndex,
		X:          x,
		Scale:      1,
		FontSizePx: fontSize,
		Weight:     weight,
		Color:      defaultTextColor,
		Opacity:    opacity,
		Brightness: 1,
	}
	st, ok := anim.StateOf(animation.CharKey{EventID: eventID, WordIndex: w.WordIndex, CharIndex: ci})
	if !ok {
		return cs
	}
	cs.TranslateY = st.OffsetY + st.JitterY
	cs.X = x + st.JitterX
	cs.Scale = st.Scale
	cs.FontSizePx = fontSize * st.FontScale
	cs.Brightness = st.Brightness
	cs.Shadow = st.Shadow
	if st.Weight > 0 {
		cs.Weight = st.Weight
	}
	if st.Color != "" {
		cs.Color = st.Color
	}
	return cs
}
