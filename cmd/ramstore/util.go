package main

import (
	"time"

	"github.com/rpcpool/ramstore/dict"
)

// hashString is the default string hasher shared by every dict constructed
// in this CLI.
func hashString(s string) uint64 {
	return dict.StringHash(s)
}

// prometheusTimer starts a command latency observation and returns a func
// to call when the command completes.
func prometheusTimer(command string) func() {
	start := time.Now()
	return func() {
		metricsCommandLatency.WithLabelValues(command).Observe(time.Since(start).Seconds())
	}
}
