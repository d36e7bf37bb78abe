package main

import (
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rpcpool/ramstore/dlist"
	"github.com/rpcpool/ramstore/packedlist"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

func newCmdBench() *cli.Command {
	return &cli.Command{
		Name:        "bench",
		Usage:       "run concurrent packed-list workers and cache their snapshots",
		Description: "Spins up a pool of workers, each building its own packed list and pushing its serialized snapshot into a shared byte cache keyed by a fresh UUID; reports the elapsed time and total bytes cached.",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "workers", Value: 8, Usage: "number of concurrent workers"},
			&cli.IntFlag{Name: "entries", Value: 1000, Usage: "entries each worker pushes into its packed list"},
		},
		Action: func(c *cli.Context) error {
			metricsCommandsRun.WithLabelValues("bench").Inc()
			timer := prometheusTimer("bench")
			defer timer()

			workers := c.Int("workers")
			entries := c.Int("entries")

			cacheConf := bigcache.DefaultConfig(5 * time.Minute)
			cache, err := bigcache.New(c.Context, cacheConf)
			if err != nil {
				return fmt.Errorf("bench: creating cache: %w", err)
			}

			start := time.Now()
			var totalBytes int64

			g, _ := errgroup.WithContext(c.Context)
			keys := dlist.New(dlist.Callbacks[string]{})
			for w := 0; w < workers; w++ {
				w := w
				key := uuid.New().String()
				keys.PushBack(key)
				g.Go(func() error {
					pl := packedlist.New()
					for i := 0; i < entries; i++ {
						pl.Push([]byte(fmt.Sprint(w*entries+i)), packedlist.Tail)
					}
					return cache.Set(key, pl.Bytes())
				})
			}

			var errs error
			if err := g.Wait(); err != nil {
				errs = multierr.Append(errs, err)
			}

			keys.Each(func(key string) {
				b, err := cache.Get(key)
				if err != nil {
					errs = multierr.Append(errs, err)
					return
				}
				totalBytes += int64(len(b))
			})
			if errs != nil {
				return fmt.Errorf("bench: %w", errs)
			}

			elapsed := time.Since(start)
			fmt.Printf("workers=%d entries_each=%d elapsed=%s cached=%s\n",
				workers, entries, elapsed, humanize.Bytes(uint64(totalBytes)))
			return nil
		},
	}
}
