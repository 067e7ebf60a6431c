package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Port           int     `envconfig:"PORT" default:"8080"`
	CanvasWidth    int     `envconfig:"CANVAS_WIDTH" default:"800"`
	CanvasHeight   int     `envconfig:"CANVAS_HEIGHT" default:"600"`
	GridSize       float64 `envconfig:"GRID_SIZE" default:"20"`
	SnapThreshold  float64 `envconfig:"SNAP_THRESHOLD" default:"10"`
	SnapEnabled    bool    `envconfig:"SNAP_ENABLED" default:"false"`
	SessionSecret  string  `envconfig:"SESSION_SECRET" default:"dev-secret-change-in-production"`
	AllowedOrigins string  `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	LogLevel       string  `envconfig:"LOG_LEVEL" default:"info"`
	PresetsFile    string  `envconfig:"PRESETS_FILE"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Origins splits AllowedOrigins into trimmed, non-empty entries.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Preset is the paint applied to new shapes of one kind. Zero fields keep
// the built-in default.
type Preset struct {
	Fill        string  `toml:"fill"`
	Stroke      string  `toml:"stroke"`
	StrokeWidth float64 `toml:"stroke_width"`
	Opacity     float64 `toml:"opacity"`
}

// Presets maps a shape kind ("rect", "circle", ...) to its paint.
type Presets map[string]Preset

// LoadPresets reads a TOML file with one table per shape kind:
//
//	[rect]
//	fill = "#336699"
//	stroke_width = 2
//
// An empty path yields no presets.
func LoadPresets(path string) (Presets, error) {
	if path == "" {
		return Presets{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets: %w", err)
	}
	return ParsePresets(data)
}

func ParsePresets(data []byte) (Presets, error) {
	var p Presets
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}
	if p == nil {
		p = Presets{}
	}
	return p, nil
}
