package main

import (
	"flag"
	"fmt"

	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"
)

// NewKlogFlagSet exposes a subset of klog's flags through urfave/cli,
// mirroring the teacher's approach of wiring a stdlib flag.FlagSet created
// by klog.InitFlags into cli.Flag actions.
func NewKlogFlagSet() []cli.Flag {
	fs := flag.NewFlagSet("klog", flag.PanicOnError)
	klog.InitFlags(fs)

	fs.Set("v", "1")
	fs.Set("logtostderr", "true")

	return []cli.Flag{
		&cli.IntFlag{
			Name:    "v",
			Usage:   "number for the log level verbosity",
			EnvVars: []string{"RAMSTORE_V"},
			Value:   1,
			Action: func(cctx *cli.Context, v int) error {
				return fs.Set("v", fmt.Sprint(v))
			},
		},
		&cli.BoolFlag{
			Name:        "logtostderr",
			Usage:       "log to standard error instead of files",
			EnvVars:     []string{"RAMSTORE_LOGTOSTDERR"},
			DefaultText: "true",
			Action: func(cctx *cli.Context, v bool) error {
				return fs.Set("logtostderr", fmt.Sprint(v))
			},
		},
		&cli.StringFlag{
			Name:    "vmodule",
			Usage:   "comma-separated list of pattern=N settings for file-filtered logging",
			EnvVars: []string{"RAMSTORE_VMODULE"},
			Action: func(cctx *cli.Context, v string) error {
				if v != "" {
					return fs.Set("vmodule", v)
				}
				return nil
			},
		},
	}
}
