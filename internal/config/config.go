// Package config loads the guide's settings with viper.
package config

import (
	"errors"
	"fmt"

	"tabletop-guide/internal/alignment"
	"tabletop-guide/internal/objects"
	"tabletop-guide/internal/task"

	"github.com/spf13/viper"
)

// CameraConfig selects the capture device and display window.
type CameraConfig struct {
	Device int    `json:"device" mapstructure:"device"`
	Window string `json:"window" mapstructure:"window"`
	Width  int    `json:"width" mapstructure:"width"`   // 0 keeps the device default
	Height int    `json:"height" mapstructure:"height"` // 0 keeps the device default
}

// PreprocessConfig mirrors objects.Preprocessor.
type PreprocessConfig struct {
	BlurKernel int     `json:"blurKernel" mapstructure:"blurKernel"`
	Equalize   bool    `json:"equalize" mapstructure:"equalize"`
	ClipLimit  float64 `json:"clipLimit" mapstructure:"clipLimit"`
	TileSize   int     `json:"tileSize" mapstructure:"tileSize"`
}

// TaskConfig holds the placement tolerance and target sampling.
type TaskConfig struct {
	Threshold float64 `json:"threshold" mapstructure:"threshold"`
	TargetMin float64 `json:"targetMin" mapstructure:"targetMin"`
	TargetMax float64 `json:"targetMax" mapstructure:"targetMax"`
	Seed      int64   `json:"seed" mapstructure:"seed"` // 0 seeds from the clock
}

// MarkerConfig assigns marker ids to table corners.
type MarkerConfig struct {
	TopLeft     int `json:"topLeft" mapstructure:"topLeft"`
	TopRight    int `json:"topRight" mapstructure:"topRight"`
	BottomRight int `json:"bottomRight" mapstructure:"bottomRight"`
	BottomLeft  int `json:"bottomLeft" mapstructure:"bottomLeft"`
}

// ProfilesConfig holds one color profile per object.
type ProfilesConfig struct {
	Version string               `json:"version" mapstructure:"version"`
	Bottle  objects.ColorProfile `json:"bottle" mapstructure:"bottle"`
	Cup     objects.ColorProfile `json:"cup" mapstructure:"cup"`
	Pencil  objects.ColorProfile `json:"pencil" mapstructure:"pencil"`
}

// Config is the full application configuration.
type Config struct {
	LogLevel   string           `json:"logLevel" mapstructure:"logLevel"`
	Camera     CameraConfig     `json:"camera" mapstructure:"camera"`
	Preprocess PreprocessConfig `json:"preprocess" mapstructure:"preprocess"`
	Task       TaskConfig       `json:"task" mapstructure:"task"`
	Markers    MarkerConfig     `json:"markers" mapstructure:"markers"`
	Profiles   ProfilesConfig   `json:"profiles" mapstructure:"profiles"`
}

// Load reads configuration from path and fills in default values.
// An empty path yields the defaults. The file format follows the extension
// (json, yaml, toml).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// RestartRequired names the sections of next that differ from prev and are
// only read at startup. Profiles are left out since they apply live.
func RestartRequired(prev, next *Config) []string {
	var sections []string
	if prev.LogLevel != next.LogLevel {
		sections = append(sections, "logLevel")
	}
	if prev.Camera != next.Camera {
		sections = append(sections, "camera")
	}
	if prev.Preprocess != next.Preprocess {
		sections = append(sections, "preprocess")
	}
	if prev.Task != next.Task {
		sections = append(sections, "task")
	}
	if prev.Markers != next.Markers {
		sections = append(sections, "markers")
	}
	return sections
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")

	v.SetDefault("camera.device", 0)
	v.SetDefault("camera.window", "Tabletop Guide")
	v.SetDefault("camera.width", 0)
	v.SetDefault("camera.height", 0)

	pre := objects.DefaultPreprocessor()
	v.SetDefault("preprocess.blurKernel", pre.BlurKernel)
	v.SetDefault("preprocess.equalize", pre.Equalize)
	v.SetDefault("preprocess.clipLimit", pre.ClipLimit)
	v.SetDefault("preprocess.tileSize", pre.TileSize)

	v.SetDefault("task.threshold", task.DefaultThreshold)
	v.SetDefault("task.targetMin", task.DefaultTargetMin)
	v.SetDefault("task.targetMax", task.DefaultTargetMax)
	v.SetDefault("task.seed", 0)

	ids := alignment.DefaultCornerIDs()
	v.SetDefault("markers.topLeft", ids[alignment.CornerTopLeft])
	v.SetDefault("markers.topRight", ids[alignment.CornerTopRight])
	v.SetDefault("markers.bottomRight", ids[alignment.CornerBottomRight])
	v.SetDefault("markers.bottomLeft", ids[alignment.CornerBottomLeft])

	profiles := objects.DefaultProfiles()
	v.SetDefault("profiles.version", profiles.Version)
	for _, c := range objects.Classes {
		setProfileDefaults(v, "profiles."+c.String(), profiles.For(c))
	}
}

func setProfileDefaults(v *viper.Viper, prefix string, p objects.ColorProfile) {
	v.SetDefault(prefix+".hueMin", p.HueMin)
	v.SetDefault(prefix+".hueMax", p.HueMax)
	v.SetDefault(prefix+".satMin", p.SatMin)
	v.SetDefault(prefix+".satMax", p.SatMax)
	v.SetDefault(prefix+".valMin", p.ValMin)
	v.SetDefault(prefix+".valMax", p.ValMax)
	v.SetDefault(prefix+".morph", string(p.Morph))
	v.SetDefault(prefix+".kernelSize", p.KernelSize)
	v.SetDefault(prefix+".minArea", p.MinArea)
	v.SetDefault(prefix+".minAspect", p.MinAspect)
	v.SetDefault(prefix+".anchor", string(p.Anchor))
	v.SetDefault(prefix+".groundOffset", p.GroundOffset)
	v.SetDefault(prefix+".requireInBoundary", p.RequireInBoundary)
	v.SetDefault(prefix+".requireInUnitSquare", p.RequireInUnitSquare)
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	var errs []error
	if err := c.CornerIDs().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("markers: %w", err))
	}
	if err := c.ProfileSet().Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Task.Threshold <= 0 {
		errs = append(errs, fmt.Errorf("task.threshold must be positive, got %g", c.Task.Threshold))
	}
	if c.Task.TargetMin < 0 || c.Task.TargetMax > 1 || c.Task.TargetMin > c.Task.TargetMax {
		errs = append(errs, fmt.Errorf("task target range [%g, %g] must lie within [0, 1]", c.Task.TargetMin, c.Task.TargetMax))
	}
	return errors.Join(errs...)
}

// CornerIDs returns the marker id assignment.
func (c *Config) CornerIDs() alignment.CornerIDs {
	var ids alignment.CornerIDs
	ids[alignment.CornerTopLeft] = c.Markers.TopLeft
	ids[alignment.CornerTopRight] = c.Markers.TopRight
	ids[alignment.CornerBottomRight] = c.Markers.BottomRight
	ids[alignment.CornerBottomLeft] = c.Markers.BottomLeft
	return ids
}

// ProfileSet returns the configured color profiles.
func (c *Config) ProfileSet() objects.ProfileSet {
	var s objects.ProfileSet
	s.Version = c.Profiles.Version
	s.Profiles[objects.ClassBottle] = c.Profiles.Bottle
	s.Profiles[objects.ClassCup] = c.Profiles.Cup
	s.Profiles[objects.ClassPencil] = c.Profiles.Pencil
	return s
}

// Preprocessor returns the frame preprocessing settings.
func (c *Config) Preprocessor() objects.Preprocessor {
	return objects.Preprocessor{
		BlurKernel: c.Preprocess.BlurKernel,
		Equalize:   c.Preprocess.Equalize,
		ClipLimit:  c.Preprocess.ClipLimit,
		TileSize:   c.Preprocess.TileSize,
	}
}
