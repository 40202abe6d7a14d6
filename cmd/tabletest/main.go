// Command tabletest runs table localization and object detection on a
// single image and prints what the guide would see.
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math/rand"
	"os"

	"tabletop-guide/internal/alignment"
	"tabletop-guide/internal/config"
	"tabletop-guide/internal/logging"
	"tabletop-guide/internal/objects"
	"tabletop-guide/internal/overlay"
	"tabletop-guide/internal/task"
	"tabletop-guide/internal/version"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"
	_ "golang.org/x/image/tiff"
)

func main() {
	imagePath := flag.String("image", "", "Path to camera image (TIFF, PNG, or JPEG)")
	configPath := flag.String("config", "", "Path to config file")
	maxWidth := flag.Int("max-width", 1280, "Downscale wider images to this width (0 disables)")
	outPath := flag.String("out", "", "Write the annotated image to this path")
	seed := flag.Int64("seed", 1, "Target seed for the annotated task overlay")
	sample := flag.String("sample", "", "Sample region x,y,w,h to derive a color profile")
	sampleClass := flag.String("class", "cup", "Object class for -sample")
	tolerance := flag.Float64("tolerance", 40, "HSV tolerance for -sample")
	minAspect := flag.Float64("min-aspect", -1, "Pencil elongation threshold (0 disables, negative keeps config)")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: tabletest -image <path> [-config guide.yaml] [-out annotated.png] [-min-aspect 3] [-sample x,y,w,h -class cup]")
		os.Exit(1)
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	log := logging.New(os.Stderr, level)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	profiles := tuneProfiles(cfg.ProfileSet(), *minAspect)

	// Load image
	img, err := imaging.Open(*imagePath, imaging.AutoOrientation(true))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open image: %v\n", err)
		os.Exit(1)
	}
	bounds := img.Bounds()
	fmt.Printf("%s\n", version.String())
	fmt.Printf("Loaded image: %dx%d pixels\n", bounds.Dx(), bounds.Dy())

	if *maxWidth > 0 && bounds.Dx() > *maxWidth {
		img = imaging.Resize(img, *maxWidth, 0, imaging.Lanczos)
		fmt.Printf("Resized to: %dx%d pixels\n", img.Bounds().Dx(), img.Bounds().Dy())
	}

	if *sample != "" {
		if err := printSampledProfile(img, *sample, *sampleClass, *tolerance, profiles); err != nil {
			fmt.Fprintf(os.Stderr, "Sampling failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	frame, err := gocv.ImageToMatRGB(img)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to convert image: %v\n", err)
		os.Exit(1)
	}
	defer frame.Close()

	// Locate the table
	markers := alignment.NewArucoMarkerDetector()
	defer markers.Close()

	found := markers.DetectMarkers(frame)
	fmt.Printf("\nDetected %d markers:\n", len(found))
	ids := cfg.CornerIDs()
	for _, m := range found {
		c := m.Center()
		corner := "-"
		if tc, ok := ids.CornerFor(m.ID); ok {
			corner = tc.String()
		}
		fmt.Printf("  id %-4d %-14s (%.1f, %.1f)\n", m.ID, corner, c.X, c.Y)
	}

	cal := alignment.CalibrationFromMarkers(found, ids)
	if cal == nil {
		fmt.Printf("\nTable: not located (need marker ids %v, one each)\n", ids)
	} else {
		fmt.Printf("\nTable quad:\n")
		for i, p := range cal.Quad {
			fmt.Printf("  %-14s (%.1f, %.1f)\n", alignment.TableCorner(i), p.X, p.Y)
		}
	}

	// Detect objects
	printProfiles(profiles)

	pipeline := objects.NewPipeline(objects.ContourDetector{}, cfg.Preprocessor(), profiles, log)
	dets := pipeline.Detect(frame, cal)

	fmt.Printf("\n%-8s %6s %6s %6s %6s %9s %9s\n", "Class", "X", "Y", "W", "H", "TableX", "TableY")
	for _, c := range objects.Classes {
		d, ok := dets.Get(c)
		if !ok {
			fmt.Printf("%-8s %s\n", c, "not detected")
			continue
		}
		fmt.Printf("%-8s %6d %6d %6d %6d %9.3f %9.3f\n",
			c, d.Box.X, d.Box.Y, d.Box.Width, d.Box.Height, d.Table.X, d.Table.Y)
	}
	fmt.Printf("\nTotal: %d of %d objects detected\n", dets.Count(), objects.NumClasses)

	if *outPath == "" {
		return
	}

	targets, err := task.RandomTargets(rand.New(rand.NewSource(*seed)), cfg.Task.TargetMin, cfg.Task.TargetMax)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate targets: %v\n", err)
		os.Exit(1)
	}
	machine, err := task.NewMachine(targets, cfg.Task.Threshold)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create task: %v\n", err)
		os.Exit(1)
	}
	machine.Update(dets)

	overlay.Draw(&frame, overlay.NewScene(cal, dets, machine), overlay.DefaultStyle())
	if err := saveMat(frame, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save annotated image: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Annotated image written to %s\n", *outPath)
}

func printProfiles(s objects.ProfileSet) {
	fmt.Printf("\nColor profiles (version %s):\n", s.Version)
	for _, c := range objects.Classes {
		p := s.For(c)
		fmt.Printf("  %-7s H(%.0f-%.0f) S(%.0f-%.0f) V(%.0f-%.0f) %s k=%d minArea=%.0f minAspect=%.1f anchor=%s\n",
			c, p.HueMin, p.HueMax, p.SatMin, p.SatMax, p.ValMin, p.ValMax,
			p.Morph, p.KernelSize, p.MinArea, p.MinAspect, p.Anchor)
	}
}

func saveMat(m gocv.Mat, path string) error {
	img, err := m.ToImage()
	if err != nil {
		return err
	}
	return imaging.Save(img, path)
}

func printSampledProfile(img image.Image, region, className string, tolerance float64, profiles objects.ProfileSet) error {
	class, err := objects.ParseClass(className)
	if err != nil {
		return err
	}
	rect, err := parseRect(region)
	if err != nil {
		return err
	}

	p, n, err := sampleProfile(img, rect, profiles.For(class), tolerance)
	if err != nil {
		return err
	}

	fmt.Printf("\nSampled %d pixels from %v for %s\n", n, rect, class)
	fmt.Printf("profiles:\n  %s:\n", class)
	fmt.Printf("    hueMin: %.0f\n    hueMax: %.0f\n", p.HueMin, p.HueMax)
	fmt.Printf("    satMin: %.0f\n    satMax: %.0f\n", p.SatMin, p.SatMax)
	fmt.Printf("    valMin: %.0f\n    valMax: %.0f\n", p.ValMin, p.ValMax)
	return nil
}
