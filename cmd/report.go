package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/mpry/go-vcm-renderer/pkg/renderer"
	"github.com/mpry/go-vcm-renderer/pkg/report"
	"github.com/mpry/go-vcm-renderer/pkg/scene"
	"github.com/urfave/cli"
)

const reportGamma = 2.2

// RunReport sweeps every scene variant with every selected algorithm and
// assembles an HTML gallery plus a timing summary
func RunReport(ctx *cli.Context) error {
	setupLogging(ctx)

	algorithms, err := selectAlgorithms(ctx.String("algorithms"))
	if err != nil {
		return err
	}

	outDir := ctx.String("out")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	width := ctx.Int("width")
	height := ctx.Int("height")
	thumbSize := ctx.Int("thumbnail-size")
	rep := report.New(outDir)

	configs := scene.BoxConfigurations()

	// Every variant is rendered twice: first with a glossy floor, then
	// with the plain diffuse one.
	for pass := 0; pass < 2; pass++ {
		glossy := pass == 0

		for _, config := range configs {
			mask := config.Mask
			if glossy {
				mask |= scene.GlossyFloor
			}
			sc := scene.NewCornellBox(width, height, mask)
			logger.Infof("scene: %s", sc.Name)

			for _, algorithm := range algorithms {
				cfg := renderer.Config{
					Scene:         sc,
					Algorithm:     algorithm,
					Iterations:    ctx.Int("iterations"),
					NumWorkers:    ctx.Int("workers"),
					BaseSeed:      ctx.Int64("seed"),
					MaxPathLength: ctx.Int("max-path-length"),
				}

				frame, elapsed, err := renderer.Render(cfg)
				if err != nil {
					return fmt.Errorf("%s with %s: %w", sc.Name, algorithm.Name(), err)
				}
				logger.Infof("%s done in %v", algorithm.Name(), elapsed)

				imageFile := fmt.Sprintf("%s_%s.bmp", sc.Acronym, algorithm.Acronym())
				thumbFile := fmt.Sprintf("%s_%s_thumb.png", sc.Acronym, algorithm.Acronym())

				if err := frame.SaveBMP(rep.Dir()+"/"+imageFile, reportGamma); err != nil {
					return err
				}
				if err := rep.SaveThumbnail(frame.ToImage(reportGamma), thumbFile, thumbSize); err != nil {
					return err
				}

				rep.Add(report.Entry{
					SceneName:        sc.Name,
					AlgorithmName:    algorithm.Name(),
					AlgorithmAcronym: algorithm.Acronym(),
					ImageFile:        imageFile,
					ThumbFile:        thumbFile,
					Elapsed:          elapsed,
				})
			}
		}
	}

	if err := rep.WriteHTML("report.html"); err != nil {
		return err
	}
	rep.WriteSummary(os.Stdout)

	logger.Infof("report written to %s/report.html", outDir)
	return nil
}

// selectAlgorithms parses a comma-separated list of algorithm acronyms;
// an empty list selects all of them
func selectAlgorithms(spec string) ([]renderer.Algorithm, error) {
	if spec == "" {
		all := make([]renderer.Algorithm, 0, renderer.AlgorithmMax)
		for a := renderer.Algorithm(0); a < renderer.AlgorithmMax; a++ {
			all = append(all, a)
		}
		return all, nil
	}

	var selected []renderer.Algorithm
	for _, acronym := range strings.Split(spec, ",") {
		algorithm, ok := renderer.ParseAlgorithm(strings.TrimSpace(acronym))
		if !ok {
			return nil, fmt.Errorf("unknown algorithm acronym %q", acronym)
		}
		selected = append(selected, algorithm)
	}
	return selected, nil
}
