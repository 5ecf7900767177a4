package timing

import (
	"fmt"
	"unicode/utf8"
)

// animation defaults, used when a document names a variant without config
const (
	defaultMaxHeightPercent = 4.0
	defaultMinHeightPercent = 0.0
	defaultWaveCycles       = 2.0
	defaultLiftPercent      = 6.0
	defaultScalePeak        = 1.15
	defaultWhisperScale     = 0.82
	defaultLoudScale        = 1.25
	defaultLoudBrightness   = 1.2
	defaultTrembleAmp       = 1.5
	defaultTrembleHz        = 18.0
)

// Normalize resolves every word's animation representation into the
// Resolved tagged union and rewrites &HAABBGGRR colors to #RRGGBB, so
// rendering never branches on the raw legacy/unified fields. Called once
// after decoding; idempotent.
func (d *Document) Normalize() error {
	for ei := range d.SyncEvents {
		ev := &d.SyncEvents[ei]
		if ev.PreReading.Alpha == 0 {
			ev.PreReading.Alpha = 0.4
		}
		for wi := range ev.Words {
			w := &ev.Words[wi]
			w.Resolved = resolveAnimation(w)
			if ct := w.ColorTransition; ct != nil {
				from, err := ParseASSColor(ct.FromColor)
				if err != nil {
					return fmt.Errorf("event %s word %d from_color: %w", ev.EventID, w.WordIndex, err)
				}
				to, err := ParseASSColor(ct.ToColor)
				if err != nil {
					return fmt.Errorf("event %s word %d to_color: %w", ev.EventID, w.WordIndex, err)
				}
				ct.FromColor, ct.ToColor = from, to
			}
		}
	}
	return nil
}

// resolveAnimation folds the legacy XOR unified fields into one Animation.
// The unified animation_type wins when present.
func resolveAnimation(w *Word) Animation {
	if w.AnimationType != "" {
		return unifiedAnimation(w.AnimationType, w.AnimationConfig)
	}
	return legacyAnimation(w)
}

func unifiedAnimation(kind string, cfg map[string]float64) Animation {
	get := func(key string, def float64) float64 {
		if v, ok := cfg[key]; ok {
			return v
		}
		return def
	}
	switch kind {
	case "bouncing":
		return Animation{
			Kind:             AnimBouncing,
			MaxHeightPercent: get("max_height_percent", defaultMaxHeightPercent),
			MinHeightPercent: get("min_height_percent", defaultMinHeightPercent),
			WaveCycles:       get("wave_cycles", defaultWaveCycles),
		}
	case "elevation":
		return Animation{
			Kind:        AnimElevation,
			LiftPercent: get("lift_percent", defaultLiftPercent),
			ScalePeak:   get("scale_peak", defaultScalePeak),
			Trembling:   get("trembling", 0) != 0,
			TrembleAmp:  get("tremble_amplitude_px", defaultTrembleAmp),
			TrembleHz:   get("tremble_hz", defaultTrembleHz),
		}
	case "whisper":
		return Animation{
			Kind:      AnimWhisper,
			FontScale: get("font_scale", defaultWhisperScale),
		}
	case "loud":
		return Animation{
			Kind:       AnimLoud,
			FontScale:  get("font_scale", defaultLoudScale),
			Brightness: get("brightness", defaultLoudBrightness),
			Weight:     get("weight_percent", 0),
			Shadow:     get("shadow", 1) != 0,
		}
	default:
		return Animation{Kind: AnimNormal, FontScale: 1}
	}
}

func legacyAnimation(w *Word) Animation {
	switch {
	case w.Bouncing != nil && w.Bouncing.Enabled:
		return Animation{
			Kind:             AnimBouncing,
			MaxHeightPercent: orDefault(w.Bouncing.MaxHeightPercent, defaultMaxHeightPercent),
			MinHeightPercent: w.Bouncing.MinHeightPercent,
			WaveCycles:       orDefault(w.Bouncing.WaveCycles, defaultWaveCycles),
		}
	case w.Pop != nil && w.Pop.Enabled:
		return Animation{
			Kind:        AnimElevation,
			LiftPercent: defaultLiftPercent,
			ScalePeak:   orDefault(w.Pop.ScalePeak, defaultScalePeak),
		}
	case w.Special != nil && w.Special.Trembling:
		return Animation{
			Kind:        AnimElevation,
			LiftPercent: 0,
			ScalePeak:   1,
			Trembling:   true,
			TrembleAmp:  orDefault(w.Special.TrembleAmpPx, defaultTrembleAmp),
			TrembleHz:   orDefault(w.Special.TrembleHz, defaultTrembleHz),
		}
	default:
		return Animation{Kind: AnimNormal, FontScale: 1}
	}
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

// Validate checks structural invariants: unique event IDs, ascending
// word_index per event, pre_reading.start <= end. Violations are load
// errors; the engine never checks these at runtime.
func (d *Document) Validate() error {
	seen := make(map[string]struct{}, len(d.SyncEvents))
	for ei := range d.SyncEvents {
		ev := &d.SyncEvents[ei]
		if ev.EventID == "" {
			return fmt.Errorf("sync event %d: empty event_id", ei)
		}
		if _, dup := seen[ev.EventID]; dup {
			return fmt.Errorf("duplicate event_id %q", ev.EventID)
		}
		seen[ev.EventID] = struct{}{}
		if ev.PreReading.Start > ev.PreReading.End {
			return fmt.Errorf("event %s: pre_reading start %.3f after end %.3f",
				ev.EventID, ev.PreReading.Start, ev.PreReading.End)
		}
		prev := -1
		for wi := range ev.Words {
			w := &ev.Words[wi]
			if w.WordIndex <= prev {
				return fmt.Errorf("event %s: word_index %d not ascending", ev.EventID, w.WordIndex)
			}
			prev = w.WordIndex
			if w.Start > w.End {
				return fmt.Errorf("event %s word %d: start %.3f after end %.3f",
					ev.EventID, w.WordIndex, w.Start, w.End)
			}
		}
	}
	return nil
}

// CharTimings returns the per-character windows for the word's runes. When
// the document carries none, the word's window is sliced evenly and
// peak_time defaults to each slice's midpoint.
func (w *Word) CharTimings() []CharacterTiming {
	n := utf8.RuneCountInString(w.Word)
	if n == 0 {
		return nil
	}
	if len(w.CharacterTimings) >= n {
		return w.CharacterTimings[:n]
	}
	out := make([]CharacterTiming, n)
	span := (w.End - w.Start) / float64(n)
	for i := range out {
		start := w.Start + span*float64(i)
		end := start + span
		peak := (start + end) / 2
		out[i] = CharacterTiming{StartTime: start, EndTime: end, PeakTime: &peak}
	}
	return out
}

// TransitionTime is the anchor for a word's color transition:
// peak_time of the first character when known, else pronunciation_start,
// else the word's own start.
func (w *Word) TransitionTime() float64 {
	if len(w.CharacterTimings) > 0 && w.CharacterTimings[0].PeakTime != nil {
		return *w.CharacterTimings[0].PeakTime
	}
	if w.PronunciationStart > 0 {
		return w.PronunciationStart
	}
	return w.Start
}
