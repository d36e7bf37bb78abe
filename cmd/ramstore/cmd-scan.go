package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func newCmdScan() *cli.Command {
	return &cli.Command{
		Name:        "scan",
		Usage:       "populate a dict and fully drain it with Scan",
		Description: "Inserts N keys into a dict, then repeatedly calls Scan with the returned cursor until it returns to zero, and prints how many entries were visited and how many Scan calls it took.",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "n", Value: 10_000, Usage: "number of keys to insert before scanning"},
		},
		Action: func(c *cli.Context) error {
			metricsCommandsRun.WithLabelValues("scan").Inc()
			timer := prometheusTimer("scan")
			defer timer()

			n := c.Int("n")
			d := stringDict()
			for i := 0; i < n; i++ {
				d.Replace(fmt.Sprintf("key:%d", i), i)
			}
			for d.RehashStep() {
			}

			visited := 0
			var cursor uint64
			rounds := 0
			for {
				cursor = d.Scan(cursor, func(k string, v int) { visited++ })
				rounds++
				if cursor == 0 {
					break
				}
			}

			fmt.Printf("inserted=%d visited=%d rounds=%d\n", n, visited, rounds)
			return nil
		},
	}
}
