package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/rgonek/richdoc/builder"
	"github.com/rgonek/richdoc/extractor"
	"github.com/rgonek/richdoc/pipeline"
	"gopkg.in/yaml.v3"
)

const (
	presetBalanced = "balanced"
	presetPlain    = "plain"
	presetStrict   = "strict"
)

func presetConfig(preset string) (pipeline.Config, error) {
	switch strings.ToLower(strings.TrimSpace(preset)) {
	case "", presetBalanced:
		return pipeline.Config{}, nil
	case presetPlain:
		return pipeline.Config{
			Builder: builder.Config{
				ColorMode: builder.ColorIgnore,
			},
			Extractor: extractor.Config{
				ColorMode: extractor.ColorIgnore,
			},
		}, nil
	case presetStrict:
		return pipeline.Config{
			Builder: builder.Config{
				ResolutionMode: builder.ResolutionStrict,
			},
			DetectLanguage: true,
		}, nil
	default:
		return pipeline.Config{}, fmt.Errorf("unknown preset %q (allowed: balanced, plain, strict)", preset)
	}
}

// resolveConfig starts from the preset and overlays the YAML file at path,
// when given. Keys missing from the file keep their preset values.
func resolveConfig(preset, path string, verbose bool, logOutput io.Writer) (pipeline.Config, error) {
	cfg, err := presetConfig(preset)
	if err != nil {
		return pipeline.Config{}, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return pipeline.Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return pipeline.Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	cfg.Logger = slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: level}))

	return cfg, nil
}
