package cards

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	imagepkg "github.com/youruser/storycards/internal/image"
)

// PastelColors is the card-back palette.
var PastelColors = []string{
	"#F9D5E5", "#C2E0C6", "#FFF2CC", "#E1D5F0", "#FFE4E1",
	"#D4F1F4", "#F0E68C", "#DDA0DD", "#F5DEB3", "#E0E6FF",
	"#FFE4CD", "#D1F2EB", "#FFEAA7", "#E6B3FF", "#F0F8E8",
	"#FFB6C1", "#B0E0E6", "#FFFFE0", "#E6E6FA", "#FFF8DC",
	"#F0FFF0", "#FFFACD", "#F5F5DC", "#E0FFFF", "#FAFAFA",
	"#F8F8FF", "#FFF5EE", "#F0FFFF", "#FFFAF0", "#FDF5E6",
	"#FAF0E6", "#FFEFD5", "#FFE4E1", "#F0F0F0", "#F5FFFA",
	"#F0F8E8", "#FFF0F5", "#E0F6FF", "#FFEFD5", "#F5F0FF",
}

// GradientShift is how far the second gradient stop is darkened.
const GradientShift = -10

var ErrInvalidColor = errors.New("invalid hex color")

// Shuffled returns a shuffled copy of palette.
func Shuffled(palette []string, rng imagepkg.RandomSource) []string {
	out := append([]string(nil), palette...)
	for i := len(out) - 1; i > 0; i-- {
		j := imagepkg.Intn(rng, i+1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// ParseHex parses "#RRGGBB" or "RRGGBB".
func ParseHex(hex string) (color.NRGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// FormatHex renders c as lower-case "#rrggbb".
func FormatHex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// AdjustBrightness adds amount to each channel, clamping to 0..255.
func AdjustBrightness(hex string, amount int) (string, error) {
	c, err := ParseHex(hex)
	if err != nil {
		return "", err
	}
	return FormatHex(color.NRGBA{
		R: clampChannel(int(c.R) + amount),
		G: clampChannel(int(c.G) + amount),
		B: clampChannel(int(c.B) + amount),
		A: 0xff,
	}), nil
}

// AdjustBrightnessPercent shifts each channel by pct percent of full scale.
func AdjustBrightnessPercent(hex string, pct float64) (string, error) {
	return AdjustBrightness(hex, int(math.Round(2.55*pct)))
}

// Gradient returns the two stops of a card back.
func Gradient(hex string) (from, to color.NRGBA, err error) {
	from, err = ParseHex(hex)
	if err != nil {
		return
	}
	shifted, err := AdjustBrightness(hex, GradientShift)
	if err != nil {
		return
	}
	to, err = ParseHex(shifted)
	return
}

func clampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
