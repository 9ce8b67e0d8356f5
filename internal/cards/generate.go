package cards

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	imagepkg "github.com/youruser/storycards/internal/image"
)

var ErrInvalidCount = errors.New("invalid card count")

// CountRange bounds how many cards one batch may hold.
type CountRange struct {
	Min int `yaml:"min" toml:"min" json:"min"`
	Max int `yaml:"max" toml:"max" json:"max"`
}

var DefaultCountRange = CountRange{Min: 1, Max: 30}

func (r CountRange) Check(n int) error {
	if n < r.Min || n > r.Max {
		return fmt.Errorf("%w: %d is outside %d-%d", ErrInvalidCount, n, r.Min, r.Max)
	}
	return nil
}

// ParseCount reads a user-typed card count.
func ParseCount(s string, r CountRange) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidCount, s)
	}
	if err := r.Check(n); err != nil {
		return 0, err
	}
	return n, nil
}

// Generate builds n face-down cards with ids 0..n-1. Colors come from a
// shuffled copy of palette and wrap around when n exceeds its length.
func Generate(n int, palette []string, rng imagepkg.RandomSource) []Card {
	if n <= 0 {
		return []Card{}
	}
	if len(palette) == 0 {
		palette = PastelColors
	}
	colors := Shuffled(palette, rng)
	out := make([]Card, n)
	for i := range out {
		out[i] = Card{ID: i, Color: colors[i%len(colors)]}
	}
	return out
}
