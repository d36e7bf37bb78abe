package main

import (
	"fmt"

	"github.com/rpcpool/ramstore/objenc"
	"github.com/rpcpool/ramstore/zset"
	"github.com/urfave/cli/v2"
)

func newCmdRank() *cli.Command {
	return &cli.Command{
		Name:        "rank",
		Usage:       "insert N elements into an ordered set and print rank queries",
		Description: "Inserts N (element, score) pairs into an ordered set, reports which encoding it promoted to, and prints the top and bottom five by rank.",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "n", Value: 500, Usage: "number of elements to insert"},
		},
		Action: func(c *cli.Context) error {
			metricsCommandsRun.WithLabelValues("rank").Inc()
			timer := prometheusTimer("rank")
			defer timer()

			n := c.Int("n")
			z := zset.New()
			before := z.Encoding()
			for i := 0; i < n; i++ {
				z.Add(fmt.Sprintf("member:%05d", i), float64(n-i))
				if before == objenc.Packed && z.Encoding() == objenc.Large {
					metricsZsetPromotions.WithLabelValues("rank").Inc()
					before = objenc.Large
				}
			}

			fmt.Printf("length=%d encoding=%s\n", z.Length(), z.Encoding())
			top := z.RangeByRank(1, 5, false)
			for _, p := range top {
				rank := z.Rank(p.Element, false)
				fmt.Printf("  rank=%d element=%s score=%g\n", rank, p.Element, p.Score)
			}
			fmt.Println("bottom 5:")
			bottom := z.RangeByRank(1, 5, true)
			for _, p := range bottom {
				rank := z.Rank(p.Element, true)
				fmt.Printf("  reverse_rank=%d element=%s score=%g\n", rank, p.Element, p.Score)
			}
			return nil
		},
	}
}
