package animation

import "math"

// PhaseOffset spreads adjacent characters along a travelling sine wave
// instead of bouncing in unison.
func PhaseOffset(charIndex, wordLen int) float64 {
	if wordLen <= 0 {
		return 0
	}
	return float64(charIndex) * (2 * math.Pi / float64(wordLen))
}

// OffsetAt returns the vertical pixel offset (negative = up) at progress p
// through a character's window. peakOffset is the peak's position within
// the window [0,1]. The offset is pinned to the baseline at both ends of
// the window regardless of cycles and range.
func OffsetAt(p, charPhase, peakOffset, cycles, bounceRange float64) float64 {
	if p <= 0 || p >= 1 {
		return 0
	}
	phaseShift := -peakOffset*cycles*2*math.Pi + math.Pi/2
	// smooth decay so the bounce settles near the end instead of cutting off
	damp := math.Pow(math.Cos(p*math.Pi/2), 1.5)
	return -bounceRange * math.Abs(math.Sin(p*cycles*2*math.Pi+charPhase+phaseShift)) * damp
}

// riseFall is the 0→1→0 envelope used by the elevation variant.
func riseFall(p float64) float64 {
	if p <= 0 || p >= 1 {
		return 0
	}
	return math.Sin(p * math.Pi)
}

func clamp01(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
