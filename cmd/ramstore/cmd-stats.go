package main

import (
	"fmt"

	"github.com/rpcpool/ramstore/intset"
	"github.com/rpcpool/ramstore/objenc"
	"github.com/rpcpool/ramstore/packedlist"
	"github.com/urfave/cli/v2"
)

func newCmdStats() *cli.Command {
	return &cli.Command{
		Name:        "stats",
		Usage:       "print encoding thresholds and a few representative container sizes",
		Description: "Prints the default packed/large promotion thresholds and the serialized size of a representative packed list and integer set, for sanity-checking the encodings.",
		Flags:       []cli.Flag{},
		Action: func(c *cli.Context) error {
			metricsCommandsRun.WithLabelValues("stats").Inc()
			timer := prometheusTimer("stats")
			defer timer()

			th := objenc.DefaultThresholds()
			fmt.Printf("default thresholds: max_entries_packed=%d max_value_packed=%d\n",
				th.MaxEntriesPacked, th.MaxValuePacked)

			pl := packedlist.New()
			for i := 0; i < 16; i++ {
				pl.Push([]byte(fmt.Sprintf("element-%02d", i)), packedlist.Tail)
			}
			fmt.Printf("packed list: entries=%d total_bytes=%d tail_offset=%d\n",
				pl.Length(), pl.TotalBytes(), pl.TailOffset())

			s := intset.New()
			for _, v := range []int64{1, 2, 3, 70000, -9} {
				s.Insert(v)
			}
			fmt.Printf("int set: len=%d width=%d\n", s.Len(), s.Width())

			return nil
		},
	}
}
