package objects

import (
	"errors"
	"fmt"
)

// MorphMode selects the mask cleanup operation.
type MorphMode string

const (
	// MorphOpen erodes then dilates: removes speckle noise around compact objects.
	MorphOpen MorphMode = "open"
	// MorphClose dilates then erodes: fills gaps in objects that fragment.
	MorphClose MorphMode = "close"
)

// AnchorMode selects which image point of a box is projected onto the table.
type AnchorMode string

const (
	// AnchorCenter uses the bounding box center.
	AnchorCenter AnchorMode = "center"
	// AnchorGround uses the bottom-edge midpoint pushed GroundOffset pixels
	// down, approximating where a tall object touches the table.
	AnchorGround AnchorMode = "ground"
)

// ColorProfile holds the per-class detection parameters.
// See DefaultProfiles for the tuned values.
type ColorProfile struct {
	// HSV color filtering (OpenCV scale), bounds inclusive
	HueMin float64 `mapstructure:"hueMin" json:"hueMin"` // 0-180
	HueMax float64 `mapstructure:"hueMax" json:"hueMax"`
	SatMin float64 `mapstructure:"satMin" json:"satMin"` // 0-255
	SatMax float64 `mapstructure:"satMax" json:"satMax"`
	ValMin float64 `mapstructure:"valMin" json:"valMin"` // 0-255
	ValMax float64 `mapstructure:"valMax" json:"valMax"`

	// Mask cleanup
	Morph      MorphMode `mapstructure:"morph" json:"morph"`
	KernelSize int       `mapstructure:"kernelSize" json:"kernelSize"` // Square kernel side (px)

	// Shape constraints
	MinArea   float64 `mapstructure:"minArea" json:"minArea"`     // Contour area floor (px²)
	MinAspect float64 `mapstructure:"minAspect" json:"minAspect"` // 0 disables the elongation filter

	// Coordinate mapping
	Anchor              AnchorMode `mapstructure:"anchor" json:"anchor"`
	GroundOffset        int        `mapstructure:"groundOffset" json:"groundOffset"` // px below the box, AnchorGround only
	RequireInBoundary   bool       `mapstructure:"requireInBoundary" json:"requireInBoundary"`
	RequireInUnitSquare bool       `mapstructure:"requireInUnitSquare" json:"requireInUnitSquare"`
}

// ProfileSet is the versioned set of profiles, one per class.
type ProfileSet struct {
	Version  string
	Profiles [NumClasses]ColorProfile
}

// DefaultProfilesVersion identifies the built-in tuning.
const DefaultProfilesVersion = "2"

// DefaultProfiles returns the tuned profiles for an orange bottle, a purple
// cup and a blue pencil under indoor lighting.
func DefaultProfiles() ProfileSet {
	var s ProfileSet
	s.Version = DefaultProfilesVersion

	s.Profiles[ClassBottle] = ColorProfile{
		HueMin: 5, HueMax: 20,
		SatMin: 120, SatMax: 255,
		ValMin: 120, ValMax: 255,
		Morph:      MorphOpen,
		KernelSize: 3,
		MinArea:    800,
		// Tall object: project where it stands, not its visual middle.
		// The box center was already checked against the table boundary.
		Anchor:       AnchorGround,
		GroundOffset: 5,
	}

	s.Profiles[ClassCup] = ColorProfile{
		HueMin: 130, HueMax: 165,
		SatMin: 80, SatMax: 255,
		ValMin: 80, ValMax: 255,
		Morph:               MorphOpen,
		KernelSize:          3,
		MinArea:             800,
		Anchor:              AnchorCenter,
		RequireInBoundary:   true,
		RequireInUnitSquare: true,
	}

	s.Profiles[ClassPencil] = ColorProfile{
		HueMin: 80, HueMax: 130,
		SatMin: 80, SatMax: 255,
		ValMin: 80, ValMax: 255,
		Morph:               MorphClose, // thin; open would erase it
		KernelSize:          3,
		MinArea:             150,
		MinAspect:           2.5,
		Anchor:              AnchorCenter,
		RequireInBoundary:   true,
		RequireInUnitSquare: true,
	}

	return s
}

// For returns the profile of a class.
func (s ProfileSet) For(c Class) ColorProfile {
	return s.Profiles[c]
}

// Validate checks every profile in the set.
func (s ProfileSet) Validate() error {
	var errs []error
	for _, c := range Classes {
		if err := s.Profiles[c].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s profile: %w", c, err))
		}
	}
	return errors.Join(errs...)
}

// Validate reports malformed bounds or modes. It is a setup-time check; the
// detector itself never rejects a profile.
func (p ColorProfile) Validate() error {
	check := func(name string, lo, hi, limit float64) error {
		if lo < 0 || hi > limit || lo > hi {
			return fmt.Errorf("%s range [%g, %g] outside [0, %g] or inverted", name, lo, hi, limit)
		}
		return nil
	}
	if err := check("hue", p.HueMin, p.HueMax, 180); err != nil {
		return err
	}
	if err := check("saturation", p.SatMin, p.SatMax, 255); err != nil {
		return err
	}
	if err := check("value", p.ValMin, p.ValMax, 255); err != nil {
		return err
	}
	switch p.Morph {
	case MorphOpen, MorphClose:
	default:
		return fmt.Errorf("unknown morph mode %q", p.Morph)
	}
	switch p.Anchor {
	case AnchorCenter, AnchorGround:
	default:
		return fmt.Errorf("unknown anchor mode %q", p.Anchor)
	}
	if p.KernelSize < 1 {
		return fmt.Errorf("kernel size must be positive, got %d", p.KernelSize)
	}
	if p.MinArea < 0 || p.MinAspect < 0 {
		return fmt.Errorf("negative shape threshold (minArea=%g, minAspect=%g)", p.MinArea, p.MinAspect)
	}
	return nil
}

// WithHSV returns a copy of the profile with custom HSV color ranges.
// Useful when the user has sampled object colors from a frame.
func (p ColorProfile) WithHSV(hMin, hMax, sMin, sMax, vMin, vMax float64) ColorProfile {
	p.HueMin = hMin
	p.HueMax = hMax
	p.SatMin = sMin
	p.SatMax = sMax
	p.ValMin = vMin
	p.ValMax = vMax
	return p
}

// WithMinAspect returns a copy of the profile with a different elongation
// threshold. The right value depends on camera height and angle.
func (p ColorProfile) WithMinAspect(minAspect float64) ColorProfile {
	p.MinAspect = minAspect
	return p
}

// ProfileFromSample derives a profile around a sampled HSV color, keeping
// the morphology, shape and mapping settings of base.
func ProfileFromSample(base ColorProfile, avgH, avgS, avgV, tolerance float64) ColorProfile {
	hTol := tolerance / 4 // Hue has smaller range in OpenCV (0-180)
	sTol := tolerance
	vTol := tolerance

	return base.WithHSV(
		clampF(avgH-hTol, 0, 180),
		clampF(avgH+hTol, 0, 180),
		clampF(avgS-sTol, 0, 255),
		clampF(avgS+sTol, 0, 255),
		clampF(avgV-vTol, 0, 255),
		clampF(avgV+vTol, 0, 255),
	)
}

func clampF(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
