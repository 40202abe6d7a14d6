// Package main provides the entry point for the Tabletop Guide camera loop.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tabletop-guide/internal/alignment"
	"tabletop-guide/internal/app"
	"tabletop-guide/internal/config"
	"tabletop-guide/internal/logging"
	"tabletop-guide/internal/objects"
	"tabletop-guide/internal/overlay"
	"tabletop-guide/internal/task"
	"tabletop-guide/internal/version"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"
)

const keyEsc = 27

func main() {
	configPath := flag.String("config", "", "Path to config file (yaml, json or toml)")
	device := flag.Int("device", -1, "Camera device index (overrides config)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		boot := logging.New(os.Stderr, "info")
		boot.Fatal().Err(err).Msg("Config: load failed")
	}
	loaded := *cfg
	if *device >= 0 {
		cfg.Camera.Device = *device
	}

	log := logging.New(os.Stderr, cfg.LogLevel)
	log.Info().Str("version", version.Version).Str("commit", version.GitCommit).Msg("Starting Tabletop Guide")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, &loaded, *configPath, log); err != nil {
		log.Fatal().Err(err).Msg("Guide stopped")
	}
}

// run drives the camera loop. loaded is the config as read from disk, before
// command-line overrides; reloads are compared against it.
func run(ctx context.Context, cfg, loaded *config.Config, configPath string, log zerolog.Logger) error {
	cam, err := gocv.OpenVideoCapture(cfg.Camera.Device)
	if err != nil {
		return fmt.Errorf("opening camera %d: %w", cfg.Camera.Device, err)
	}
	defer cam.Close()
	if cfg.Camera.Width > 0 && cfg.Camera.Height > 0 {
		cam.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Camera.Width))
		cam.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Camera.Height))
	}

	window := gocv.NewWindow(cfg.Camera.Window)
	defer window.Close()

	markers := alignment.NewArucoMarkerDetector()
	defer markers.Close()

	session, err := newSession(cfg, markers, log)
	if err != nil {
		return err
	}
	log.Info().Str("session", session.ID).Msg("Session started")

	for _, t := range session.Machine().Targets() {
		log.Info().Stringer("object", t.Class).
			Float64("x", t.Point.X).Float64("y", t.Point.Y).
			Msg("Task: target assigned")
	}
	session.On(app.EventTaskComplete, func(interface{}) {
		log.Info().Int("frames", session.Frames()).Msg("Task: all objects placed")
	})

	if configPath != "" {
		watcher := setupConfigReload(configPath, loaded, session, log)
		if watcher != nil {
			defer watcher.Stop()
		}
	}

	frame := gocv.NewMat()
	defer frame.Close()

	style := overlay.DefaultStyle()
	frameLog := logging.Sampled(log)

	for ctx.Err() == nil {
		if ok := cam.Read(&frame); !ok || frame.Empty() {
			log.Warn().Msg("Camera: frame read failed, stopping")
			return nil
		}

		res := session.ProcessFrame(frame)
		frameLog.Debug().
			Int("frame", res.Frame).
			Bool("calibrated", res.Calibration != nil).
			Bool("fresh", res.Fresh).
			Int("detections", res.Detections.Count()).
			Stringer("state", res.State).
			Msg("Frame processed")

		overlay.Draw(&frame, overlay.NewScene(res.Calibration, res.Detections, session.Machine()), style)
		window.IMShow(frame)

		switch key := window.WaitKey(1); key {
		case 'q', keyEsc:
			log.Info().Msg("Quit requested")
			return nil
		}
	}
	log.Info().Msg("Interrupted")
	return nil
}

// newSession wires the localizer, pipeline and task machine for one run.
func newSession(cfg *config.Config, markers alignment.MarkerDetector, log zerolog.Logger) (*app.Session, error) {
	seed := cfg.Task.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	targets, err := task.RandomTargets(rand.New(rand.NewSource(seed)), cfg.Task.TargetMin, cfg.Task.TargetMax)
	if err != nil {
		return nil, fmt.Errorf("generating targets: %w", err)
	}

	localizer := alignment.NewLocalizer(markers, cfg.CornerIDs(), log)
	pipeline := objects.NewPipeline(objects.ContourDetector{}, cfg.Preprocessor(), cfg.ProfileSet(), log)
	machine, err := task.NewMachine(targets, cfg.Task.Threshold)
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	return app.NewSession(localizer, pipeline, machine, log), nil
}

// setupConfigReload pushes edited color profiles into the running session.
// Edits to any other section are reported but wait for a restart.
func setupConfigReload(path string, loaded *config.Config, session *app.Session, log zerolog.Logger) *app.ConfigWatcher {
	watcher, err := app.NewConfigWatcher(path, 2*time.Second, log)
	if err != nil {
		log.Warn().Err(err).Msg("Config reload: unable to watch config file")
		return nil
	}

	log.Info().Str("path", watcher.Path()).Msg("Config reload: watching")

	watcher.OnChange(func(cfg *config.Config) {
		session.QueueProfiles(cfg.ProfileSet())
		if sections := config.RestartRequired(loaded, cfg); len(sections) > 0 {
			log.Warn().Strs("sections", sections).Msg("Config reload: restart required to apply")
		}
	})
	watcher.Start()
	return watcher
}
