package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mpry/go-vcm-renderer/pkg/renderer"
	"github.com/mpry/go-vcm-renderer/pkg/scene"
	"github.com/urfave/cli"
)

// RenderScene renders a single scene/algorithm combination
func RenderScene(ctx *cli.Context) error {
	setupLogging(ctx)

	algorithm, ok := renderer.ParseAlgorithm(ctx.String("algorithm"))
	if !ok {
		return fmt.Errorf("unknown algorithm acronym %q", ctx.String("algorithm"))
	}

	mask, err := resolveSceneMask(ctx.String("scene"))
	if err != nil {
		return err
	}

	width := ctx.Int("width")
	height := ctx.Int("height")
	sc := scene.NewCornellBox(width, height, mask)

	cfg := renderer.Config{
		Scene:         sc,
		Algorithm:     algorithm,
		Iterations:    ctx.Int("iterations"),
		NumWorkers:    ctx.Int("workers"),
		BaseSeed:      ctx.Int64("seed"),
		MaxPathLength: ctx.Int("max-path-length"),
	}

	logger.Infof("rendering %q with %s (%d iterations, %d workers)",
		sc.Name, algorithm.Name(), cfg.Iterations, cfg.NumWorkers)

	frame, elapsed, err := renderer.Render(cfg)
	if err != nil {
		return err
	}
	logger.Infof("render completed in %v", elapsed)

	output := ctx.String("output")
	if output == "" {
		output = fmt.Sprintf("%s_%s.png", sc.Acronym, algorithm.Acronym())
	}

	gamma := ctx.Float64("gamma")
	switch strings.ToLower(filepath.Ext(output)) {
	case ".png":
		err = frame.SavePNG(output, gamma)
	case ".bmp":
		err = frame.SaveBMP(output, gamma)
	case ".exr":
		err = frame.SaveEXR(output)
	default:
		return fmt.Errorf("unsupported output format %q", filepath.Ext(output))
	}
	if err != nil {
		return err
	}

	logger.Infof("wrote %s", output)
	return nil
}

// resolveSceneMask maps a scene acronym (with optional "g" glossy-floor
// prefix) to its box mask
func resolveSceneMask(acronym string) (scene.BoxMask, error) {
	var glossy scene.BoxMask
	lookup := acronym
	if strings.HasPrefix(acronym, "g") {
		glossy = scene.GlossyFloor
		lookup = acronym[1:]
	}

	for _, config := range scene.BoxConfigurations() {
		if config.Acronym == lookup {
			return config.Mask | glossy, nil
		}
	}
	return 0, fmt.Errorf("unknown scene acronym %q", acronym)
}
