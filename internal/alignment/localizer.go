package alignment

import (
	"github.com/rs/zerolog"
	"gocv.io/x/gocv"
)

// Localizer turns a frame into a table Calibration using a MarkerDetector
// and a fixed marker-id to corner assignment.
type Localizer struct {
	detector MarkerDetector
	ids      CornerIDs
	log      zerolog.Logger
}

// NewLocalizer creates a localizer.
func NewLocalizer(detector MarkerDetector, ids CornerIDs, log zerolog.Logger) *Localizer {
	return &Localizer{
		detector: detector,
		ids:      ids,
		log:      log.With().Str("component", "localizer").Logger(),
	}
}

// Locate detects the corner markers in frame and solves the homography.
// A nil result means "no table" for this frame: too few markers, a duplicated
// corner id or a degenerate quad.
func (l *Localizer) Locate(frame gocv.Mat) *Calibration {
	markers := l.detector.DetectMarkers(frame)

	quad, ok := QuadFromMarkers(markers, l.ids)
	if !ok {
		l.log.Debug().Int("markers", len(markers)).Msg("Localizer: table corners incomplete")
		return nil
	}

	cal, err := NewCalibration(quad)
	if err != nil {
		l.log.Debug().Err(err).Msg("Localizer: rejecting corner quad")
		return nil
	}
	return cal
}
