// Package config handles engine configuration loading and management.
package config

// Config holds all engine settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Render   RenderConfig   `yaml:"render"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// RenderConfig holds render loop settings.
type RenderConfig struct {
	// RedrawPolicy is one of "camera-moved", "scene-changed", "always".
	RedrawPolicy   string     `yaml:"redraw_policy"`
	FrustumCulling bool       `yaml:"frustum_culling"`
	ClearColor     [4]float32 `yaml:"clear_color"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		Render: RenderConfig{
			RedrawPolicy:   "scene-changed",
			FrustumCulling: true,
			ClearColor:     [4]float32{0.15, 0.15, 0.2, 1.0},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
