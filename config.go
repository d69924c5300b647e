package scenegl

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the settings of a scenegl host application. It is read from a
// TOML file; zero fields fall back to DefaultConfig.
type Config struct {
	Window WindowConfig `toml:"window"`
	Render RenderConfig `toml:"render"`
	Shader ShaderConfig `toml:"shader"`
	Debug  bool         `toml:"debug"`
}

type WindowConfig struct {
	Width  int     `toml:"width"`
	Height int     `toml:"height"`
	Title  string  `toml:"title"`
	DPR    float32 `toml:"dpr"`
}

type RenderConfig struct {
	ClearColor  [4]float32 `toml:"clear_color"`
	AutoClear   *bool      `toml:"auto_clear"`
	FrustumCull *bool      `toml:"frustum_cull"`
	Sort        *bool      `toml:"sort"`
	Depth       *bool      `toml:"depth"`
	Stencil     bool       `toml:"stencil"`
	// PremultipliedAlpha selects ONE/ONE_MINUS_SRC_ALPHA as the default blend
	// for transparent programs.
	PremultipliedAlpha bool `toml:"premultiplied_alpha"`
}

type ShaderConfig struct {
	Vertex   string `toml:"vertex"`
	Fragment string `toml:"fragment"`
	// Watch rebuilds the program when either shader file changes on disk.
	Watch bool `toml:"watch"`
}

func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{Width: 1280, Height: 720, Title: "scenegl", DPR: 1},
		Render: RenderConfig{
			ClearColor:  [4]float32{0.08, 0.08, 0.1, 1},
			AutoClear:   boolPtr(true),
			FrustumCull: boolPtr(true),
			Sort:        boolPtr(true),
			Depth:       boolPtr(true),
		},
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if c.Window.Width <= 0 {
		c.Window.Width = def.Window.Width
	}
	if c.Window.Height <= 0 {
		c.Window.Height = def.Window.Height
	}
	if c.Window.Title == "" {
		c.Window.Title = def.Window.Title
	}
	if c.Window.DPR <= 0 {
		c.Window.DPR = def.Window.DPR
	}
	if c.Render.AutoClear == nil {
		c.Render.AutoClear = def.Render.AutoClear
	}
	if c.Render.FrustumCull == nil {
		c.Render.FrustumCull = def.Render.FrustumCull
	}
	if c.Render.Sort == nil {
		c.Render.Sort = def.Render.Sort
	}
	if c.Render.Depth == nil {
		c.Render.Depth = def.Render.Depth
	}
}

func boolPtr(b bool) *bool { return &b }

// Bool dereferences an optional flag.
func Bool(b *bool) bool {
	return b != nil && *b
}
