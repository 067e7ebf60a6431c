package engine

import (
	"log/slog"

	"github.com/inamate/svgedit/internal/config"
	"github.com/inamate/svgedit/internal/document"
	"github.com/inamate/svgedit/internal/shapes"
)

// OptionsFromConfig builds engine options from the process configuration
// and loaded shape presets. Presets for unknown kinds are skipped.
func OptionsFromConfig(cfg *config.Config, presets config.Presets, logger *slog.Logger) Options {
	opts := Options{
		Width:         cfg.CanvasWidth,
		Height:        cfg.CanvasHeight,
		GridSize:      cfg.GridSize,
		SnapThreshold: cfg.SnapThreshold,
		SnapEnabled:   cfg.SnapEnabled,
		Presets:       map[shapes.Kind]document.Style{},
		Logger:        logger,
	}
	known := map[shapes.Kind]bool{shapes.KindPath: true}
	for _, k := range shapes.Kinds {
		known[k] = true
	}
	for name, p := range presets {
		kind := shapes.Kind(name)
		if !known[kind] {
			logger.Warn("ignoring preset for unknown shape", "kind", name)
			continue
		}
		opts.Presets[kind] = document.Style{
			Fill:        p.Fill,
			Stroke:      p.Stroke,
			StrokeWidth: p.StrokeWidth,
			Opacity:     p.Opacity,
		}
	}
	return opts
}
