package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	producerPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reviewlar_kafka_published_total",
		Help: "Events published, by topic and outcome.",
	}, []string{"topic", "outcome"})

	consumerProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reviewlar_kafka_consumed_total",
		Help: "Events consumed, by topic and outcome.",
	}, []string{"topic", "outcome"})

	consumerDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reviewlar_kafka_handler_duration_seconds",
		Help:    "Time spent in event handlers.",
		Buckets: prometheus.DefBuckets,
	}, []string{"topic"})
)
