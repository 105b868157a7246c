// Package config holds the viewer configuration, loaded from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is the complete viewer configuration.
type Config struct {
	Window Window `yaml:"window"`
	// Shader is the path of the watched fragment shader.
	Shader string `yaml:"shader"`
	// Notify enables OS file notifications to wake the shader watch.
	Notify bool   `yaml:"notify"`
	Camera Camera `yaml:"camera"`
	Render Render `yaml:"render"`
	Log    Log    `yaml:"log"`
}

type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	// VSync sets the swap interval to one.
	VSync bool `yaml:"vsync"`
}

// Camera holds the initial pose and input sensitivities.
type Camera struct {
	Position [3]float32 `yaml:"position"`
	Pitch    float32    `yaml:"pitch"`
	Yaw      float32    `yaml:"yaw"`
	// MoveSpeed is the distance travelled per frame while a movement key is held.
	MoveSpeed float32 `yaml:"move_speed"`
	// TurnSpeed is radians per pixel of pointer motion.
	TurnSpeed float32 `yaml:"turn_speed"`
}

// Render holds the ray-marching parameters uploaded as uniforms.
type Render struct {
	Epsilon  float32 `yaml:"epsilon"`
	FOV      float32 `yaml:"fov"`
	MaxSteps int     `yaml:"max_steps"`
}

type Log struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// File optionally names a rotating log file written in addition to stderr.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Window: Window{
			Title:  "Distfun",
			Width:  800,
			Height: 800,
			VSync:  true,
		},
		Shader: "scene.frag",
		Camera: Camera{
			Position:  [3]float32{-0.166, 2.6, -1.945},
			Pitch:     -0.435,
			Yaw:       3.487,
			MoveSpeed: 0.05,
			TurnSpeed: 0.015,
		},
		Render: Render{
			Epsilon:  0.001,
			FOV:      90,
			MaxSteps: 100,
		},
		Log: Log{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Load reads the YAML file at path over [Default]. Keys absent in the file keep
// their default value.
func Load(path string) (Config, error) {
	fp, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer fp.Close()
	cfg, err := Decode(fp)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads YAML from r over [Default] and validates the result.
// Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err := dec.Decode(&cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Encode writes cfg as YAML to w.
func (cfg Config) Encode(w io.Writer) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	err := enc.Encode(cfg)
	if err != nil {
		return err
	}
	err = enc.Close()
	if err != nil {
		return err
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// Validate checks all fields and returns every problem found joined in one error.
func (cfg Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}
	if cfg.Shader == "" {
		add("empty shader path")
	}
	if cfg.Window.Width <= 0 || cfg.Window.Height <= 0 {
		add("window size must be positive, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Camera.MoveSpeed <= 0 {
		add("camera move_speed must be positive, got %v", cfg.Camera.MoveSpeed)
	}
	if cfg.Camera.TurnSpeed <= 0 {
		add("camera turn_speed must be positive, got %v", cfg.Camera.TurnSpeed)
	}
	if cfg.Render.Epsilon <= 0 {
		add("render epsilon must be positive, got %v", cfg.Render.Epsilon)
	}
	if cfg.Render.FOV <= 0 || cfg.Render.FOV >= 180 {
		add("render fov must be in (0, 180) degrees, got %v", cfg.Render.FOV)
	}
	if cfg.Render.MaxSteps <= 0 {
		add("render max_steps must be positive, got %d", cfg.Render.MaxSteps)
	}
	if _, err := cfg.Log.ZapLevel(); err != nil {
		errs = append(errs, err)
	}
	if cfg.Log.File != "" && (cfg.Log.MaxSizeMB <= 0 || cfg.Log.MaxBackups < 0) {
		add("log rotation needs positive max_size_mb and non-negative max_backups")
	}
	return errors.Join(errs...)
}

// ZapLevel parses Level.
func (l Log) ZapLevel() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return lvl, fmt.Errorf("log level: %w", err)
	}
	return lvl, nil
}
