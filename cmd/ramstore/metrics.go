package main

import "github.com/prometheus/client_golang/prometheus"

// - commands run by name (counter)
// - dict rehash steps performed
// - zset promotions packed -> large
// - command latency

func init() {
	prometheus.MustRegister(metricsCommandsRun)
	prometheus.MustRegister(metricsDictRehashSteps)
	prometheus.MustRegister(metricsZsetPromotions)
	prometheus.MustRegister(metricsCommandLatency)
}

var metricsCommandsRun = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ramstore_commands_run_total",
		Help: "CLI commands run, by name",
	},
	[]string{"command"},
)

var metricsDictRehashSteps = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ramstore_dict_rehash_steps_total",
		Help: "Cooperative dict rehash steps performed",
	},
	[]string{"command"},
)

var metricsZsetPromotions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ramstore_zset_promotions_total",
		Help: "Ordered sets promoted from packed to large encoding",
	},
	[]string{"command"},
)

var metricsCommandLatency = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "ramstore_command_latency_seconds",
		Help: "Command latency",
	},
	[]string{"command"},
)
