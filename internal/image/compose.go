package imagepkg

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

const (
	CardWidth  = 200
	CardHeight = 300
)

// RenderCardBack paints the face-down side of a card: a 135° linear
// gradient from `from` in the top-left corner to `to` in the bottom-right.
func RenderCardBack(from, to color.Color, w, h int) image.Image {
	w, h = clampSize(w, h)
	c0 := color.NRGBAModel.Convert(from).(color.NRGBA)
	c1 := color.NRGBAModel.Convert(to).(color.NRGBA)

	canvas := imaging.New(w, h, c0)
	span := float64(w + h - 2)
	if span <= 0 {
		return canvas
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := float64(x+y) / span
			canvas.SetNRGBA(x, y, color.NRGBA{
				R: lerp(c0.R, c1.R, t),
				G: lerp(c0.G, c1.G, t),
				B: lerp(c0.B, c1.B, t),
				A: 0xff,
			})
		}
	}
	return canvas
}

// RenderPlaceholder draws the "failed to load" card: a white face with a
// red cross inside a grey frame.
func RenderPlaceholder(w, h int) image.Image {
	w, h = clampSize(w, h)
	canvas := imaging.New(w, h, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})

	grey := color.NRGBA{R: 0xd1, G: 0xd5, B: 0xdb, A: 0xff}
	for x := 0; x < w; x++ {
		for t := 0; t < 2; t++ {
			canvas.SetNRGBA(x, t, grey)
			canvas.SetNRGBA(x, h-1-t, grey)
		}
	}
	for y := 0; y < h; y++ {
		for t := 0; t < 2; t++ {
			canvas.SetNRGBA(t, y, grey)
			canvas.SetNRGBA(w-1-t, y, grey)
		}
	}

	size := w / 5
	if h/5 < size {
		size = h / 5
	}
	cross := imaging.New(size, size, color.NRGBA{})
	red := color.NRGBA{R: 0xe5, G: 0x3e, B: 0x3e, A: 0xff}
	thick := size/8 + 1
	for i := 0; i < size; i++ {
		for t := -thick / 2; t <= thick/2; t++ {
			if j := i + t; j >= 0 && j < size {
				cross.SetNRGBA(i, j, red)
				cross.SetNRGBA(size-1-i, j, red)
			}
		}
	}
	return imaging.Overlay(canvas, cross, image.Pt((w-size)/2, (h-size)/2), 1.0)
}

// Thumbnail crops and scales img to exactly w x h.
func Thumbnail(img image.Image, w, h int) image.Image {
	w, h = clampSize(w, h)
	return imaging.Fill(img, w, h, imaging.Center, imaging.Lanczos)
}

func clampSize(w, h int) (int, int) {
	if w <= 0 {
		w = CardWidth
	}
	if h <= 0 {
		h = CardHeight
	}
	if w > 2000 {
		w = 2000
	}
	if h > 2000 {
		h = 2000
	}
	return w, h
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}
