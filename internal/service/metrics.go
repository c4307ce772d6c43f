package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeStructured  = "structured"
	outcomeFallback    = "fallback"
	outcomeDuplicate   = "duplicate"
	outcomeUnavailable = "unavailable"
	outcomeSuccess     = "success"
	outcomeFailed      = "failed"
)

var (
	enhancementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskhelper_enhancements_total",
			Help: "Enhancement requests by outcome",
		},
		[]string{"outcome"},
	)

	imagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskhelper_images_total",
			Help: "Image generation requests by outcome",
		},
		[]string{"outcome"},
	)
)
