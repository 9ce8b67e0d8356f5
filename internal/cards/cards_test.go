package cards

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	imagepkg "github.com/youruser/storycards/internal/image"
)

func TestGenerate_SequentialIDs(t *testing.T) {
	rng := imagepkg.NewSeededRNG(42)
	for n := DefaultCountRange.Min; n <= DefaultCountRange.Max; n++ {
		got := Generate(n, PastelColors, rng)
		require.Len(t, got, n)
		for i, c := range got {
			assert.Equal(t, i, c.ID)
			assert.False(t, c.Revealed)
			assert.False(t, c.HasImage())
			assert.Contains(t, PastelColors, c.Color)
		}
	}
}

func TestGenerate_ColorsWrap(t *testing.T) {
	palette := []string{"#000001", "#000002"}
	got := Generate(5, palette, imagepkg.NewSeededRNG(1))
	assert.Equal(t, got[0].Color, got[2].Color)
	assert.Equal(t, got[1].Color, got[3].Color)
	assert.NotEqual(t, got[0].Color, got[1].Color)
}

func TestShuffledKeepsPalette(t *testing.T) {
	got := Shuffled(PastelColors, imagepkg.NewSeededRNG(9))
	assert.ElementsMatch(t, PastelColors, got)
	assert.Equal(t, "#F9D5E5", PastelColors[0], "input must not be mutated")
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{" 30 ", 30, false},
		{"0", 0, true},
		{"31", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{"2.5", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCount(tt.in, DefaultCountRange)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAdjustBrightness(t *testing.T) {
	tests := []struct {
		hex    string
		amount int
		want   string
	}{
		{"#F9D5E5", -10, "#efcbdb"},
		{"#FFFFFF", 20, "#ffffff"},
		{"#050505", -10, "#000000"},
		{"102030", 0, "#102030"},
	}
	for _, tt := range tests {
		got, err := AdjustBrightness(tt.hex, tt.amount)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := AdjustBrightness("#12345", 1)
	assert.ErrorIs(t, err, ErrInvalidColor)
	_, err = AdjustBrightness("#GGGGGG", 1)
	assert.ErrorIs(t, err, ErrInvalidColor)
}

func TestAdjustBrightnessPercent(t *testing.T) {
	got, err := AdjustBrightnessPercent("#808080", 10)
	require.NoError(t, err)
	assert.Equal(t, "#9a9a9a", got)
}

func TestGradient(t *testing.T) {
	from, to, err := Gradient("#F9D5E5")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0xf9, G: 0xd5, B: 0xe5, A: 0xff}, from)
	assert.Equal(t, color.NRGBA{R: 0xef, G: 0xcb, B: 0xdb, A: 0xff}, to)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyToggle, p)

	p, err = ParsePolicy("sticky")
	require.NoError(t, err)
	assert.Equal(t, PolicySticky, p)

	_, err = ParsePolicy("flip")
	assert.Error(t, err)
}
