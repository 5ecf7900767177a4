package timing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBadColor reports a color string that is not 8 hex digits (with or
// without the &H prefix).
var ErrBadColor = errors.New("malformed &HAABBGGRR color")

// ParseASSColor converts an &HAABBGGRR-style color to standard #RRGGBB by
// reversing the byte order of the trailing six hex digits (BGR -> RGB).
// The literal 00FFFFFF is pure white.
func ParseASSColor(s string) (string, error) {
	hexDigits := strings.ToUpper(strings.TrimSpace(s))
	hexDigits = strings.TrimPrefix(hexDigits, "&H")
	if len(hexDigits) > 8 {
		return "", fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	// short forms are zero-padded on the left, e.g. "FFFFFF" == "00FFFFFF"
	hexDigits = strings.Repeat("0", 8-len(hexDigits)) + hexDigits
	for _, r := range hexDigits {
		if !isHex(r) {
			return "", fmt.Errorf("%w: %q", ErrBadColor, s)
		}
	}
	if hexDigits == "00FFFFFF" {
		return "#FFFFFF", nil
	}
	bb, gg, rr := hexDigits[2:4], hexDigits[4:6], hexDigits[6:8]
	return "#" + rr + gg + bb, nil
}

// ToASSColor is the inverse of ParseASSColor for a fully opaque color:
// "#RRGGBB" -> "&H00BBGGRR".
func ToASSColor(rgb string) (string, error) {
	hexDigits := strings.ToUpper(strings.TrimSpace(rgb))
	hexDigits = strings.TrimPrefix(hexDigits, "#")
	if len(hexDigits) != 6 {
		return "", fmt.Errorf("%w: %q", ErrBadColor, rgb)
	}
	for _, r := range hexDigits {
		if !isHex(r) {
			return "", fmt.Errorf("%w: %q", ErrBadColor, rgb)
		}
	}
	rr, gg, bb := hexDigits[0:2], hexDigits[2:4], hexDigits[4:6]
	return "&H00" + bb + gg + rr, nil
}

func isHex(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'A' && r <= 'F')
}
