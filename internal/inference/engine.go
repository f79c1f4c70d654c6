// Package inference is the boundary to the pre-trained match model. An Engine
// takes one feature vector and returns the two class scores
// [first-named player wins, second-named player wins].
package inference

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Engine runs a single model evaluation
type Engine interface {
	Predict(ctx context.Context, features []float64) ([]float64, error)
}

// Pinger is implemented by engines that can report their own readiness
type Pinger interface {
	Ping(ctx context.Context) error
}

var (
	inferenceDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tennis_inference_duration_seconds",
		Help:    "Duration of a single model evaluation",
		Buckets: prometheus.DefBuckets,
	}, []string{"engine"})

	inferenceErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tennis_inference_errors_total",
		Help: "Total number of failed model evaluations",
	}, []string{"engine"})
)

// Instrumented wraps an engine with duration and error metrics
type Instrumented struct {
	Engine
	Name string
}

func (e *Instrumented) Predict(ctx context.Context, features []float64) ([]float64, error) {
	start := time.Now()
	out, err := e.Engine.Predict(ctx, features)
	inferenceDuration.WithLabelValues(e.Name).Observe(time.Since(start).Seconds())
	if err != nil {
		inferenceErrors.WithLabelValues(e.Name).Inc()
	}
	return out, err
}

func (e *Instrumented) Ping(ctx context.Context) error {
	if p, ok := e.Engine.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
