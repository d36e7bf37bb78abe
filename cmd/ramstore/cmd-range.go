package main

import (
	"fmt"

	"github.com/rpcpool/ramstore/skiplist"
	"github.com/rpcpool/ramstore/zset"
	"github.com/urfave/cli/v2"
)

func newCmdRange() *cli.Command {
	return &cli.Command{
		Name:        "range",
		Usage:       "demonstrate range-by-score and range-by-lex queries on an ordered set",
		Description: "Builds a small ordered set of named members and prints the results of a bounded score range query and a lexicographic range query.",
		Flags:       []cli.Flag{},
		Action: func(c *cli.Context) error {
			metricsCommandsRun.WithLabelValues("range").Inc()
			timer := prometheusTimer("range")
			defer timer()

			z := zset.New()
			members := []string{"alice", "bob", "carol", "dave", "erin", "frank"}
			for i, m := range members {
				z.Add(m, float64(i*10))
			}

			fmt.Println("score range [10, 40]:")
			for _, p := range z.RangeByScore(skiplist.ScoreRange{Min: 10, Max: 40}, 0, -1, false) {
				fmt.Printf("  %s -> %g\n", p.Element, p.Score)
			}

			fmt.Println(`lex range [bob, erin]:`)
			for _, p := range z.RangeByLex(skiplist.LexRange{Min: "bob", Max: "erin"}, 0, -1, false) {
				fmt.Printf("  %s -> %g\n", p.Element, p.Score)
			}

			return nil
		},
	}
}
