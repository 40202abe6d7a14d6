// Package colorutil provides shared color utilities for the tabletop guide:
// the overlay palette and conversions into OpenCV's HSV ranges.
package colorutil

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Common overlay colors used throughout the application.
var (
	Black  = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red    = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Blue   = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	Green  = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Yellow = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	Cyan   = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	Gray   = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	Orange = color.RGBA{R: 255, G: 140, B: 0, A: 255}
)

// ColorToHSV converts any color.Color to HSV in OpenCV ranges
// (H 0-180, S 0-255, V 0-255). Alpha is ignored.
func ColorToHSV(c color.Color) (h, s, v float64) {
	cf, _ := colorful.MakeColor(c)
	hue, sat, val := cf.Clamped().Hsv()
	return hue / 2, sat * 255, val * 255
}

// AverageHSV averages a set of colors in RGB space and returns the result in
// OpenCV-range HSV. Averaging RGB avoids the hue wrap-around at red.
func AverageHSV(colors []color.Color) (h, s, v float64, ok bool) {
	if len(colors) == 0 {
		return 0, 0, 0, false
	}
	var sr, sg, sb float64
	for _, c := range colors {
		cf, _ := colorful.MakeColor(c)
		sr += cf.R
		sg += cf.G
		sb += cf.B
	}
	n := float64(len(colors))
	h, s, v = ColorToHSV(colorful.Color{R: sr / n, G: sg / n, B: sb / n})
	return h, s, v, true
}
