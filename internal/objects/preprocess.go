package objects

import (
	"image"

	"gocv.io/x/gocv"
)

// Preprocessor converts a BGR camera frame into the HSV image every class
// detector works on.
type Preprocessor struct {
	BlurKernel int     // Gaussian blur kernel side; 0 disables blurring
	Equalize   bool    // CLAHE on the V channel to flatten uneven lighting
	ClipLimit  float64 // CLAHE contrast limit
	TileSize   int     // CLAHE grid tile count per side
}

// DefaultPreprocessor returns the settings used by the camera loop.
func DefaultPreprocessor() Preprocessor {
	return Preprocessor{
		BlurKernel: 0,
		Equalize:   true,
		ClipLimit:  2.0,
		TileSize:   8,
	}
}

// ToHSV returns a new HSV Mat. The caller owns it and must Close it.
// An empty frame yields an empty Mat.
func (p Preprocessor) ToHSV(frame gocv.Mat) gocv.Mat {
	hsv := gocv.NewMat()
	if frame.Empty() {
		return hsv
	}

	src := frame
	if p.BlurKernel > 0 {
		k := p.BlurKernel
		if k%2 == 0 {
			k++ // Gaussian kernels must be odd
		}
		blurred := gocv.NewMat()
		defer blurred.Close()
		gocv.GaussianBlur(frame, &blurred, image.Pt(k, k), 0, 0, gocv.BorderDefault)
		src = blurred
	}

	gocv.CvtColor(src, &hsv, gocv.ColorBGRToHSV)

	if p.Equalize {
		p.equalizeValue(&hsv)
	}
	return hsv
}

// equalizeValue applies CLAHE to the V channel in place.
func (p Preprocessor) equalizeValue(hsv *gocv.Mat) {
	tiles := p.TileSize
	if tiles < 1 {
		tiles = 8
	}
	clip := p.ClipLimit
	if clip <= 0 {
		clip = 2.0
	}

	channels := gocv.Split(*hsv)
	defer func() {
		for i := range channels {
			channels[i].Close()
		}
	}()
	if len(channels) != 3 {
		return
	}

	clahe := gocv.NewCLAHEWithParams(clip, image.Pt(tiles, tiles))
	defer clahe.Close()

	equalized := gocv.NewMat()
	clahe.Apply(channels[2], &equalized)
	channels[2].Close()
	channels[2] = equalized

	gocv.Merge(channels, hsv)
}
