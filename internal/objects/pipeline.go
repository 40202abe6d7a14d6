package objects

import (
	"tabletop-guide/internal/alignment"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"
)

// Pipeline runs every class detector on a frame and maps the results onto
// the table.
//
// A Pipeline is not safe for concurrent use. Profile swaps from other
// goroutines go through app.Session.QueueProfiles, which applies them on
// the frame loop between Detect calls.
type Pipeline struct {
	detector ClassDetector
	pre      Preprocessor
	profiles ProfileSet
	log      zerolog.Logger
}

// NewPipeline creates a pipeline.
func NewPipeline(detector ClassDetector, pre Preprocessor, profiles ProfileSet, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		detector: detector,
		pre:      pre,
		profiles: profiles,
		log:      log.With().Str("component", "pipeline").Logger(),
	}
}

// Profiles returns the active profile set.
func (p *Pipeline) Profiles() ProfileSet {
	return p.profiles
}

// SetProfiles replaces the profile set. The next Detect call uses it. Call
// it from the goroutine that runs Detect.
func (p *Pipeline) SetProfiles(s ProfileSet) {
	p.profiles = s
	p.log.Info().Str("version", s.Version).Msg("Pipeline: profiles updated")
}

// Detect returns the per-class detections for frame.
//
// With no calibration nothing can be placed on the table, so the frame is
// not even segmented and the map is empty. Otherwise a class is present
// only if its box center lies inside the table quad and its anchor maps
// onto the table under the class profile.
func (p *Pipeline) Detect(frame gocv.Mat, cal *alignment.Calibration) DetectionMap {
	var out DetectionMap
	if cal == nil || frame.Empty() {
		return out
	}

	profiles := p.profiles

	hsv := p.pre.ToHSV(frame)
	defer hsv.Close()

	for _, class := range Classes {
		prof := profiles.For(class)

		box, ok := p.detector.Detect(hsv, prof)
		if !ok {
			continue
		}
		if !cal.Quad.Contains(box.Center()) {
			p.log.Debug().Stringer("class", class).Msg("Pipeline: box outside table")
			continue
		}

		anchor := AnchorPoint(box, prof)
		table, ok := MapToTable(anchor, cal, prof)
		if !ok {
			p.log.Debug().Stringer("class", class).
				Float64("x", anchor.X).Float64("y", anchor.Y).
				Msg("Pipeline: anchor rejected")
			continue
		}

		out[class] = &Detection{
			Class:  class,
			Box:    box,
			Anchor: anchor,
			Table:  table,
			Valid:  true,
		}
	}
	return out
}
