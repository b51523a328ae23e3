// Package main is the lidar simulator command. It sweeps the sensors of a scene and prints,
// plots or charts what they see.
package main

import (
	"io"
	"log"
	"os"

	"github.com/edaniels/golog"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	// register the simulated device type.
	_ "go.viam.com/lidarsim/lidar/fake"
)

const (
	// Flags.
	flagScene  = "scene"
	flagSensor = "sensor"
	flagFormat = "format"
	flagPNG    = "png"
	flagHTML   = "html"
	flagCount  = "count"
	flagDebug  = "debug"

	formatTable   = "table"
	formatCSV     = "csv"
	formatJSON    = "json"
	formatSummary = "summary"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	var logger golog.Logger

	sceneFlag := &cli.StringFlag{
		Name:    flagScene,
		Aliases: []string{"s"},
		Usage:   "load the scene from `FILE` (.json, .yaml or .yml); the demo scene is used when omitted",
	}

	return &cli.App{
		Name:      "sim",
		Usage:     "simulate 2D lidar sweeps through a scene of obstacles",
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool(flagDebug) {
				logger = golog.NewDebugLogger("sim")
			} else {
				logger = zap.NewNop().Sugar()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "scan",
				Usage: "sweep every sensor of the scene once",
				Flags: []cli.Flag{
					sceneFlag,
					&cli.StringSliceFlag{
						Name:  flagSensor,
						Usage: "only sweep the named sensors",
					},
					&cli.StringFlag{
						Name:  flagFormat,
						Value: formatTable,
						Usage: "print readings as table, csv, json or summary",
					},
					&cli.StringFlag{
						Name:  flagPNG,
						Usage: "save a polar plot and an obstacle map of every sensor into `DIR`",
					},
					&cli.StringFlag{
						Name:  flagHTML,
						Usage: "save an interactive chart of all sensors to `FILE`",
					},
					&cli.IntFlag{
						Name:  flagCount,
						Value: 1,
						Usage: "number of sweeps each sensor takes; the last is reported",
					},
				},
				Action: func(c *cli.Context) error {
					return scanAction(c, logger)
				},
			},
			{
				Name:  "scene",
				Usage: "work with scene files",
				Subcommands: []*cli.Command{
					{
						Name:      "init",
						Usage:     "write the demo scene to a file",
						ArgsUsage: "<file>",
						Action: func(c *cli.Context) error {
							return sceneInitAction(c)
						},
					},
					{
						Name:      "show",
						Usage:     "validate a scene and list its sensors and obstacles",
						ArgsUsage: "[file]",
						Action: func(c *cli.Context) error {
							return sceneShowAction(c, logger)
						},
					},
				},
			},
		},
	}
}
