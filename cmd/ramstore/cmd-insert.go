package main

import (
	"fmt"
	"time"

	"github.com/rpcpool/ramstore/dict"
	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"
)

func stringDict() *dict.Dict[string, int] {
	return dict.New(dict.Descriptor[string, int]{
		Hash:     hashString,
		KeyEqual: func(a, b string) bool { return a == b },
	})
}

func newCmdInsert() *cli.Command {
	return &cli.Command{
		Name:        "insert",
		Usage:       "insert N keys into a dict and report rehash/timing stats",
		Description: "Inserts N sequential string keys into a dict, triggering the incremental rehash path, and reports how many cooperative rehash steps were needed to settle.",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "n", Value: 100_000, Usage: "number of keys to insert"},
		},
		Action: func(c *cli.Context) error {
			metricsCommandsRun.WithLabelValues("insert").Inc()
			timer := prometheusTimer("insert")
			defer timer()

			n := c.Int("n")
			d := stringDict()

			start := time.Now()
			for i := 0; i < n; i++ {
				d.Replace(fmt.Sprintf("key:%d", i), i)
			}
			steps := 0
			for d.RehashStep() {
				steps++
				metricsDictRehashSteps.WithLabelValues("insert").Inc()
			}
			elapsed := time.Since(start)

			klog.V(1).Infof("inserted %d keys in %s (%d residual rehash steps)", n, elapsed, steps)
			fmt.Printf("inserted=%d elapsed=%s len=%d rehash_steps=%d\n", n, elapsed, d.Len(), steps)
			return nil
		},
	}
}
