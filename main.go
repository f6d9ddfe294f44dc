package main

import (
	"os"

	"github.com/mpry/go-vcm-renderer/cmd"
	"github.com/mpry/go-vcm-renderer/pkg/log"
	"github.com/urfave/cli"
)

var logger = log.New("vcmrender")

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "vcmrender"
	app.Usage = "render Cornell box scenes with a family of light transport algorithms"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "q",
			Usage: "only log warnings and errors",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "render",
			Usage:  "render a single scene with one algorithm",
			Action: cmd.RenderScene,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "scene",
					Usage: "scene acronym, with an optional leading g for a glossy floor",
					Value: "sbb",
				},
				cli.StringFlag{
					Name:  "algorithm",
					Usage: "algorithm acronym (el, pt, lt, ppm, bpm, bpt, vcm)",
					Value: "vcm",
				},
				cli.IntFlag{
					Name:  "iterations",
					Usage: "number of rendering iterations",
					Value: 10,
				},
				cli.IntFlag{
					Name:  "workers",
					Usage: "number of parallel workers",
					Value: 4,
				},
				cli.Int64Flag{
					Name:  "seed",
					Usage: "base random seed",
					Value: 1234,
				},
				cli.IntFlag{
					Name:  "max-path-length",
					Usage: "maximum path length",
					Value: 10,
				},
				cli.IntFlag{
					Name:  "width",
					Usage: "image width in pixels",
					Value: 512,
				},
				cli.IntFlag{
					Name:  "height",
					Usage: "image height in pixels",
					Value: 512,
				},
				cli.Float64Flag{
					Name:  "gamma",
					Usage: "display gamma for PNG and BMP output",
					Value: 2.2,
				},
				cli.StringFlag{
					Name:  "output",
					Usage: "output file, format chosen by extension (.png, .bmp, .exr)",
				},
			},
		},
		{
			Name:   "report",
			Usage:  "render every scene variant with every algorithm and build an HTML gallery",
			Action: cmd.RunReport,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "out",
					Usage: "output directory for images and the gallery page",
					Value: "report",
				},
				cli.StringFlag{
					Name:  "algorithms",
					Usage: "comma separated algorithm acronyms, empty for all",
				},
				cli.IntFlag{
					Name:  "iterations",
					Usage: "number of rendering iterations per run",
					Value: 10,
				},
				cli.IntFlag{
					Name:  "workers",
					Usage: "number of parallel workers",
					Value: 4,
				},
				cli.Int64Flag{
					Name:  "seed",
					Usage: "base random seed",
					Value: 1234,
				},
				cli.IntFlag{
					Name:  "max-path-length",
					Usage: "maximum path length",
					Value: 10,
				},
				cli.IntFlag{
					Name:  "width",
					Usage: "image width in pixels",
					Value: 256,
				},
				cli.IntFlag{
					Name:  "height",
					Usage: "image height in pixels",
					Value: 256,
				},
				cli.IntFlag{
					Name:  "thumbnail-size",
					Usage: "longest edge of gallery thumbnails in pixels",
					Value: 128,
				},
			},
		},
	}

	return app
}

// run executes the application and surfaces the returned error; the cli
// package only prints ExitCoder errors on its own
func run(args []string) int {
	if err := newApp().Run(args); err != nil {
		logger.Errorf("error: %s", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args))
}
