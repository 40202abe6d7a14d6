package main

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"tabletop-guide/internal/objects"
	"tabletop-guide/pkg/colorutil"

	"github.com/disintegration/imaging"
)

// parseRect parses "x,y,w,h".
func parseRect(s string) (image.Rectangle, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("region %q: want x,y,w,h", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("region %q: %w", s, err)
		}
		v[i] = n
	}
	if v[2] <= 0 || v[3] <= 0 {
		return image.Rectangle{}, fmt.Errorf("region %q: empty", s)
	}
	return image.Rect(v[0], v[1], v[0]+v[2], v[1]+v[3]), nil
}

// sampleProfile averages the colors inside rect and derives a profile
// around them. It returns the number of pixels sampled.
func sampleProfile(img image.Image, rect image.Rectangle, base objects.ColorProfile, tolerance float64) (objects.ColorProfile, int, error) {
	rect = rect.Intersect(img.Bounds())
	if rect.Empty() {
		return base, 0, fmt.Errorf("sample region outside image %v", img.Bounds())
	}

	crop := imaging.Crop(img, rect)
	b := crop.Bounds()
	colors := make([]color.Color, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			colors = append(colors, crop.At(x, y))
		}
	}

	h, s, v, ok := colorutil.AverageHSV(colors)
	if !ok {
		return base, 0, fmt.Errorf("no pixels in %v", rect)
	}
	return objects.ProfileFromSample(base, h, s, v, tolerance), len(colors), nil
}

// tuneProfiles applies command-line overrides to the configured profiles.
// A negative minAspect leaves the pencil profile as configured.
func tuneProfiles(s objects.ProfileSet, minAspect float64) objects.ProfileSet {
	if minAspect >= 0 {
		s.Profiles[objects.ClassPencil] = s.For(objects.ClassPencil).WithMinAspect(minAspect)
	}
	return s
}
