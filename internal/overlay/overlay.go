// Package overlay draws the guide's state onto camera frames.
package overlay

import (
	"fmt"
	"image"
	"image/color"

	"tabletop-guide/internal/alignment"
	"tabletop-guide/internal/objects"
	"tabletop-guide/internal/task"
	"tabletop-guide/pkg/colorutil"
	"tabletop-guide/pkg/geometry"

	"gocv.io/x/gocv"
)

// Scene is a read-only snapshot of everything the overlay shows.
type Scene struct {
	Calibration   *alignment.Calibration
	Detections    objects.DetectionMap
	Targets       [objects.NumClasses]task.Target
	Current       objects.Class
	CurrentTarget geometry.Point2D
	HasCurrent    bool
	Complete      bool
}

// NewScene collects a scene from the frame's outputs and the task machine.
func NewScene(cal *alignment.Calibration, detections objects.DetectionMap, m *task.Machine) Scene {
	s := Scene{
		Calibration: cal,
		Detections:  detections,
		Targets:     m.Targets(),
		Complete:    m.IsComplete(),
	}
	s.Current, s.HasCurrent = m.CurrentObject()
	s.CurrentTarget, _ = m.CurrentTarget()
	return s
}

// CurrentDetected reports whether the object under guidance is visible.
func (s Scene) CurrentDetected() bool {
	if !s.HasCurrent {
		return false
	}
	_, ok := s.Detections.Get(s.Current)
	return ok
}

// StatusLines returns the text shown in the top-left corner.
func (s Scene) StatusLines() []string {
	if s.Complete || !s.HasCurrent {
		return []string{"All tasks complete!"}
	}
	detected := "No"
	if s.CurrentDetected() {
		detected = "Yes"
	}
	return []string{
		fmt.Sprintf("Step: Move %s to its zone", s.Current),
		fmt.Sprintf("Target Detected: %s", detected),
	}
}

// Style holds sizes and colors for drawing.
type Style struct {
	TargetRadius int                     // px, current target ring
	Padding      [objects.NumClasses]int // px added around the highlighted box
	ClassColors  [objects.NumClasses]color.RGBA
	Boundary     color.RGBA
	Arrow        color.RGBA
	Text         color.RGBA
	FontScale    float64
}

// DefaultStyle returns the standard overlay style.
func DefaultStyle() Style {
	var st Style
	st.TargetRadius = 50
	st.Padding[objects.ClassBottle] = 90 // detected region is only the label band
	st.Padding[objects.ClassCup] = 10
	st.Padding[objects.ClassPencil] = 10
	st.ClassColors[objects.ClassBottle] = colorutil.Orange
	st.ClassColors[objects.ClassCup] = colorutil.Cyan
	st.ClassColors[objects.ClassPencil] = colorutil.Blue
	st.Boundary = colorutil.Green
	st.Arrow = colorutil.Yellow
	st.Text = colorutil.White
	st.FontScale = 0.7
	return st
}

// Draw renders the scene onto img in place.
func Draw(img *gocv.Mat, s Scene, st Style) {
	if s.Calibration != nil {
		drawBoundary(img, s.Calibration.Quad, st.Boundary)
		drawTargets(img, s, st)
	}
	drawDetections(img, s, st)
	if s.Calibration != nil {
		drawGuidance(img, s, st)
	}
	drawStatus(img, s, st)
}

func drawBoundary(img *gocv.Mat, quad alignment.CornerQuad, c color.RGBA) {
	pts := make([]image.Point, 0, len(quad))
	for _, p := range quad {
		pts = append(pts, p.ImagePoint())
	}
	pv := gocv.NewPointsVectorFromPoints([][]image.Point{pts})
	defer pv.Close()
	gocv.Polylines(img, pv, true, c, 2)
}

func drawTargets(img *gocv.Mat, s Scene, st Style) {
	for _, t := range s.Targets {
		center, ok := s.Calibration.ToImage(t.Point)
		if !ok {
			continue
		}
		pt := center.ImagePoint()
		switch {
		case t.Placed:
			gocv.Circle(img, pt, st.TargetRadius/3, st.Boundary, -1)
		case s.HasCurrent && t.Class == s.Current:
			gocv.Circle(img, pt, st.TargetRadius, st.ClassColors[t.Class], 3)
			gocv.PutText(img, t.Class.String(), image.Pt(pt.X-st.TargetRadius, pt.Y-st.TargetRadius-8),
				gocv.FontHersheySimplex, st.FontScale*0.8, st.ClassColors[t.Class], 2)
		default:
			gocv.Circle(img, pt, st.TargetRadius/2, colorutil.Gray, 1)
		}
	}
}

func drawDetections(img *gocv.Mat, s Scene, st Style) {
	for _, d := range s.Detections {
		if d == nil {
			continue
		}
		box := d.Box
		thickness := 1
		if s.HasCurrent && d.Class == s.Current {
			box = box.Pad(st.Padding[d.Class])
			thickness = 3
		}
		gocv.Rectangle(img, box.Image(), st.ClassColors[d.Class], thickness)
		gocv.Circle(img, d.Anchor.ImagePoint(), 4, st.ClassColors[d.Class], -1)
	}
}

func drawGuidance(img *gocv.Mat, s Scene, st Style) {
	if !s.HasCurrent {
		return
	}
	d, ok := s.Detections.Get(s.Current)
	if !ok {
		return
	}
	target, ok := s.Calibration.ToImage(s.CurrentTarget)
	if !ok {
		return
	}
	gocv.ArrowedLine(img, d.Box.Center().ImagePoint(), target.ImagePoint(), st.Arrow, 3)
}

func drawStatus(img *gocv.Mat, s Scene, st Style) {
	y := 30
	for _, line := range s.StatusLines() {
		gocv.PutText(img, line, image.Pt(10, y), gocv.FontHersheySimplex, st.FontScale, colorutil.Black, 4)
		gocv.PutText(img, line, image.Pt(10, y), gocv.FontHersheySimplex, st.FontScale, st.Text, 2)
		y += 30
	}
	if s.Calibration == nil {
		gocv.PutText(img, "Table markers not found", image.Pt(10, y), gocv.FontHersheySimplex, st.FontScale, colorutil.Red, 2)
	}
}
