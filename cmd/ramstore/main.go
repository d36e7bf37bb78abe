// Command ramstore is a demonstration and benchmarking CLI exercising the
// dict, skiplist, packedlist, intset, objenc, zset, and dlist packages
// end-to-end, in the teacher repository's one-file-per-subcommand style.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"
)

var gitCommitSHA = ""

var FlagVerbose = &cli.BoolFlag{
	Name:  "verbose",
	Usage: "enable verbose logging",
}

var FlagVeryVerbose = &cli.BoolFlag{
	Name:  "very-verbose",
	Usage: "enable very verbose logging",
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, syscall.SIGTERM, syscall.SIGINT)
		select {
		case <-interrupt:
			fmt.Println()
			klog.Info("received interrupt signal")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(interrupt)
	}()

	app := &cli.App{
		Name:        "ramstore",
		Version:     gitCommitSHA,
		Description: "demo and benchmark CLI for the in-memory data-structure engine (dict, skiplist, packedlist, intset, zset)",
		Flags: append([]cli.Flag{
			FlagVerbose,
			FlagVeryVerbose,
		}, NewKlogFlagSet()...),
		Commands: []*cli.Command{
			newCmdInsert(),
			newCmdScan(),
			newCmdRank(),
			newCmdRange(),
			newCmdBench(),
			newCmdStats(),
		},
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	sort.Sort(cli.CommandsByName(app.Commands))

	if err := app.RunContext(ctx, os.Args); err != nil {
		klog.Fatal(err)
	}
}
