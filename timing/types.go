// Package timing holds the caption sync document: the schema the player
// consumes, normalized once at load and read-only afterwards.
package timing

// Document is the root of a timing sync file. It is immutable once loaded;
// a reload replaces it wholesale.
type Document struct {
	Version           string            `json:"version"`
	TotalDuration     float64           `json:"total_duration"` // sec
	SyncPrecisionMS   int               `json:"sync_precision_ms"`
	LayoutSettings    *LayoutSettings   `json:"layout_settings,omitempty"`
	SyncEvents        []SyncEvent       `json:"sync_events"`
	GlobalAdjustments GlobalAdjustments `json:"global_timing_adjustments"`
	ElevationEffects  []ElevationEffect `json:"elevation_effects,omitempty"`
}

// GlobalAdjustments shifts every timestamp comparison uniformly. Positive
// offset delays captions, negative advances them.
type GlobalAdjustments struct {
	OffsetSec   float64 `json:"offset_sec"`
	SpeedFactor float64 `json:"speed_factor,omitempty"`
}

// PreReading is the display window before a sentence is spoken, shown with
// reduced emphasis.
type PreReading struct {
	Start float64 `json:"start"` // sec
	End   float64 `json:"end"`   // sec
	Alpha float64 `json:"alpha,omitempty"`
	Style string  `json:"display_style,omitempty"`
}

// SyncEvent is one spoken sentence instance.
type SyncEvent struct {
	EventID    string     `json:"event_id"`
	SpeakerID  string     `json:"speaker_id"`
	SegmentID  string     `json:"segment_id,omitempty"`
	Sentence   string     `json:"sentence"`
	PreReading PreReading `json:"pre_reading"`
	Words      []Word     `json:"words"`
}

// ColorTransition animates a word from one color to another around the
// moment it is pronounced. Colors arrive in &HAABBGGRR notation and are
// rewritten to #RRGGBB by Document.Normalize.
type ColorTransition struct {
	FromColor  string  `json:"from_color"`
	ToColor    string  `json:"to_color"`
	DurationMS float64 `json:"duration_ms"`
}

// FontAdjustments are percentage tweaks relative to the baseline font.
type FontAdjustments struct {
	SizePercent   float64 `json:"size_percent,omitempty"`
	WeightPercent float64 `json:"weight_percent,omitempty"`
	WidthPercent  float64 `json:"width_percent,omitempty"`
}

// CharacterTiming refines a word's window to character granularity for the
// wave animation. Optional; see Word.CharTimings for the derived default.
type CharacterTiming struct {
	StartTime     float64  `json:"start_time"`
	EndTime       float64  `json:"end_time"`
	PeakTime      *float64 `json:"peak_time,omitempty"`
	RelativeDelay float64  `json:"relative_delay,omitempty"`
}

// Legacy per-word animation bundle. Kept for documents produced before the
// unified animation_type field; Normalize folds either form into
// Word.Resolved.
type BouncingAnimation struct {
	Enabled          bool    `json:"enabled"`
	MaxHeightPercent float64 `json:"max_height_percent"`
	MinHeightPercent float64 `json:"min_height_percent"`
	WaveCycles       float64 `json:"wave_cycles"`
}

type PopAnimation struct {
	Enabled    bool    `json:"enabled"`
	ScalePeak  float64 `json:"scale_peak"`
	DurationMS float64 `json:"duration_ms"`
}

type SpecialEffects struct {
	Trembling    bool    `json:"trembling"`
	TrembleAmpPx float64 `json:"tremble_amplitude_px,omitempty"`
	TrembleHz    float64 `json:"tremble_hz,omitempty"`
}

// Word is one spoken word with its speech window and visual treatment.
// Exactly one animation representation is honored: the unified
// animation_type wins when present, the legacy bundle otherwise.
type Word struct {
	Word               string           `json:"word"`
	WordIndex          int              `json:"word_index"`
	Start              float64          `json:"start"` // sec
	End                float64          `json:"end"`   // sec
	PronunciationStart float64          `json:"pronunciation_start,omitempty"`
	ColorTransition    *ColorTransition `json:"color_transition,omitempty"`
	FontAdjustments    *FontAdjustments `json:"font_adjustments,omitempty"`

	CharacterTimings []CharacterTiming `json:"character_timings,omitempty"`

	// legacy animation bundle
	Bouncing *BouncingAnimation `json:"bouncing_animation,omitempty"`
	Pop      *PopAnimation      `json:"pop_animation,omitempty"`
	Special  *SpecialEffects    `json:"special_effects,omitempty"`

	// unified animation
	AnimationType   string             `json:"animation_type,omitempty"`
	AnimationConfig map[string]float64 `json:"animation_config,omitempty"`

	// Resolved is filled by Document.Normalize; rendering never branches on
	// the raw fields above.
	Resolved Animation `json:"-"`
}

// AnimKind selects which visual transform family applies during a word's
// active window. Variants are mutually exclusive per word.
type AnimKind int

const (
	AnimNormal AnimKind = iota
	AnimBouncing
	AnimElevation
	AnimWhisper
	AnimLoud
)

func (k AnimKind) String() string {
	switch k {
	case AnimBouncing:
		return "bouncing"
	case AnimElevation:
		return "elevation"
	case AnimWhisper:
		return "whisper"
	case AnimLoud:
		return "loud"
	default:
		return "normal"
	}
}

// Animation is the tagged union the legacy and unified word fields resolve
// into at load time.
type Animation struct {
	Kind AnimKind

	// bouncing
	MaxHeightPercent float64
	MinHeightPercent float64
	WaveCycles       float64

	// elevation
	LiftPercent float64
	ScalePeak   float64
	Trembling   bool
	TrembleAmp  float64 // px
	TrembleHz   float64

	// whisper / loud
	FontScale  float64
	Brightness float64
	Weight     float64 // percent delta over baseline weight
	Shadow     bool
}

// ElevationEffect is a dramatic vertical-lift event keyed by sentence and
// speaker, with its own lifecycle independent of SyncEvent.
type ElevationEffect struct {
	EffectID  string     `json:"effect_id"`
	EventID   string     `json:"event_id"`
	SpeakerID string     `json:"speaker_id,omitempty"`
	Start     float64    `json:"start"`
	End       float64    `json:"end"`
	WordMoves []WordMove `json:"word_moves,omitempty"`
}

// WordMove is one word's move animation inside an elevation effect.
type WordMove struct {
	WordIndex   int     `json:"word_index"`
	LiftPercent float64 `json:"lift_percent"`
	Scale       float64 `json:"scale,omitempty"`
	DurationMS  float64 `json:"duration_ms,omitempty"`
}
