// Package config handles viewer configuration loading and management.
package config

import "github.com/Faultbox/depthview/internal/engine/lighting"

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Render  RenderConfig  `yaml:"render"`
	Asset   AssetConfig   `yaml:"asset"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	HighDPI    bool   `yaml:"high_dpi"`
}

// RenderConfig holds camera and shading settings.
type RenderConfig struct {
	Background     string  `yaml:"background"`
	FOV            float32 `yaml:"fov"`
	Near           float32 `yaml:"near"`
	Far            float32 `yaml:"far"`
	CameraDistance float32 `yaml:"camera_distance"`
	WireframeColor string  `yaml:"wireframe_color"`
	InitialMode    string  `yaml:"initial_mode"` // lit, wireframe or depth
	ScreenshotDir  string  `yaml:"screenshot_dir"`

	Lights lighting.Rig `yaml:"lights"`
}

// AssetConfig holds model file paths. Relative paths resolve against Root.
type AssetConfig struct {
	Root            string `yaml:"root"`
	MaterialLibrary string `yaml:"material_library"`
	Geometry        string `yaml:"geometry"`
	Plan            string `yaml:"plan"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:   "depthview",
			Width:   1280,
			Height:  720,
			VSync:   true,
			HighDPI: true,
		},
		Render: RenderConfig{
			Background:     "#c0c0c0",
			FOV:            60,
			Near:           0.1,
			Far:            100,
			CameraDistance: 5,
			WireframeColor: "#93ffe8",
			InitialMode:    "lit",
			ScreenshotDir:  "screenshots",
			Lights:         lighting.DefaultRig(),
		},
		Asset: AssetConfig{
			Root:            "assets/prs",
			MaterialLibrary: "materials.yaml",
			Geometry:        "guitar.yaml",
			Plan:            "plan.yaml",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
