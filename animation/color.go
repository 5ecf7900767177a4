package animation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// easeInOut is the quadratic ease-in/ease-out curve used by color
// transitions.
func easeInOut(p float64) float64 {
	p = clamp01(p)
	if p < 0.5 {
		return 2 * p * p
	}
	return 1 - math.Pow(-2*p+2, 2)/2
}

// lerpHex interpolates between two #RRGGBB colors. Malformed input returns
// the target color, an idempotent no-op rather than an error (stale state
// must never break a frame).
func lerpHex(from, to string, p float64) string {
	fr, fg, fb, okF := splitHex(from)
	tr, tg, tb, okT := splitHex(to)
	if !okF || !okT {
		return to
	}
	p = clamp01(p)
	mix := func(a, b uint64) uint64 {
		return uint64(math.Round(float64(a) + (float64(b)-float64(a))*p))
	}
	return fmt.Sprintf("#%02X%02X%02X", mix(fr, tr), mix(fg, tg), mix(fb, tb))
}

func splitHex(c string) (r, g, b uint64, ok bool) {
	c = strings.TrimPrefix(strings.TrimSpace(c), "#")
	if len(c) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(c, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return v >> 16 & 0xFF, v >> 8 & 0xFF, v & 0xFF, true
}
