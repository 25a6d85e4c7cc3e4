// Package metrics defines the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess    = "success"
	OutcomeFailure    = "failure"
	OutcomeInvalid    = "invalid"
	OutcomeIncomplete = "incomplete"
)

var (
	Generations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brandbook_generations_total",
			Help: "Brand book generation requests by outcome",
		},
		[]string{"outcome"},
	)

	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "brandbook_generation_duration_seconds",
			Help:    "End-to-end duration of brand book generation requests",
			Buckets: []float64{1, 5, 10, 20, 30, 60, 90, 120, 180, 300},
		},
	)

	ImageUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brandbook_image_uploads_total",
			Help: "Moodboard image uploads to the asset host by outcome",
		},
		[]string{"outcome"},
	)

	LogoImages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brandbook_logo_images_total",
			Help: "Logo image generations by outcome",
		},
		[]string{"outcome"},
	)
)
