package cmd

import (
	"github.com/mpry/go-vcm-renderer/pkg/log"
	"github.com/urfave/cli"
)

var logger = log.New("vcmrender")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("q") {
		log.SetLevel(log.Warning)
	}
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Debug)
	}
}
