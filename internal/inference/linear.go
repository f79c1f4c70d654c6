package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v2"
)

// LinearWeights is a two-class softmax model: logits = W·x + b
type LinearWeights struct {
	Weights [][]float64 `json:"weights" yaml:"weights"`
	Bias    []float64   `json:"bias" yaml:"bias"`
}

// LinearEngine evaluates a local softmax model. It stands in for the model
// server in development and tests.
type LinearEngine struct {
	weights LinearWeights
	width   int
}

// NewLinearEngine validates the weights shape
func NewLinearEngine(w LinearWeights) (*LinearEngine, error) {
	if len(w.Weights) != 2 {
		return nil, fmt.Errorf("linear model needs 2 weight rows, got %d", len(w.Weights))
	}
	if len(w.Bias) != 2 {
		return nil, fmt.Errorf("linear model needs 2 bias terms, got %d", len(w.Bias))
	}
	width := len(w.Weights[0])
	if width == 0 || len(w.Weights[1]) != width {
		return nil, fmt.Errorf("linear model weight rows must have equal non-zero length")
	}
	return &LinearEngine{weights: w, width: width}, nil
}

// LoadLinearEngine reads weights from a JSON or YAML file
func LoadLinearEngine(path string) (*LinearEngine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read weights file '%s': %w", path, err)
	}

	var w LinearWeights
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &w)
	default:
		err = json.Unmarshal(data, &w)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse weights file '%s': %w", path, err)
	}
	return NewLinearEngine(w)
}

// Width is the feature vector length the model accepts
func (e *LinearEngine) Width() int { return e.width }

func (e *LinearEngine) Predict(ctx context.Context, features []float64) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(features) != e.width {
		return nil, fmt.Errorf("linear model expects %d features, got %d", e.width, len(features))
	}

	logits := make([]float64, 2)
	for c := range logits {
		logits[c] = e.weights.Bias[c] + dot(e.weights.Weights[c], features)
	}
	return softmax(logits), nil
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func softmax(logits []float64) []float64 {
	maxLogit := math.Inf(-1)
	for _, v := range logits {
		maxLogit = math.Max(maxLogit, v)
	}
	out := make([]float64, len(logits))
	var sum float64
	for i, v := range logits {
		out[i] = math.Exp(v - maxLogit)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
