package logic

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/openmohaa/tennis-pred/internal/inference"
	"github.com/openmohaa/tennis-pred/internal/models"
)

// DefaultInferenceTimeout bounds each model call when none is configured
const DefaultInferenceTimeout = 5 * time.Second

var predictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "tennis_predictions_total",
	Help: "Total number of prediction requests by outcome",
}, []string{"outcome"})

type predictionService struct {
	tables  LookupTables
	engine  inference.Engine
	timeout time.Duration
	logger  *zap.SugaredLogger
}

// NewPredictionService builds the request-time context: tables and engine are
// fixed for the life of the service.
func NewPredictionService(tables LookupTables, engine inference.Engine, timeout time.Duration, logger *zap.Logger) PredictionService {
	if timeout <= 0 {
		timeout = DefaultInferenceTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &predictionService{
		tables:  tables,
		engine:  engine,
		timeout: timeout,
		logger:  logger.Sugar(),
	}
}

func (s *predictionService) Predict(ctx context.Context, req *models.MatchRequest) (*models.PredictionResult, error) {
	vectors, err := BuildVectors(s.tables, req)
	if err != nil {
		predictionsTotal.WithLabelValues("invalid_input").Inc()
		return nil, err
	}

	combined, err := s.predictSymmetric(ctx, vectors)
	if err != nil {
		predictionsTotal.WithLabelValues("inference_error").Inc()
		return nil, err
	}

	result := SelectWinner(combined, vectors.Players)
	result.Tournament = vectors.Tournament
	result.Round = vectors.Round
	predictionsTotal.WithLabelValues("ok").Inc()

	s.logger.Infow("Prediction served",
		"tournament", result.Tournament,
		"round", result.Round,
		"playerA", result.PlayerA,
		"playerB", result.PlayerB,
		"winner", result.Winner,
		"percentage", result.Percentage,
	)
	return result, nil
}

func (s *predictionService) Catalog() *models.Catalog {
	return &models.Catalog{
		Tournaments: s.tables.TournamentNames(),
		Players:     s.tables.PlayerNames(),
		Rounds:      Rounds(),
	}
}

// predictSymmetric evaluates both perspectives and folds them into one
// distribution over {player A, player B}:
//
//	combined[i] = (aFirst[i] + bFirst[1-i]) / 2
//
// Slot i of the B-first call refers to the opposite player, hence the flip.
func (s *predictionService) predictSymmetric(ctx context.Context, v Perspectives) ([2]float64, error) {
	aFirst, err := s.evaluate(ctx, "A", v.AFirst)
	if err != nil {
		return [2]float64{}, err
	}
	bFirst, err := s.evaluate(ctx, "B", v.BFirst)
	if err != nil {
		return [2]float64{}, err
	}

	var combined [2]float64
	for i := range combined {
		combined[i] = (aFirst[i] + bFirst[1-i]) / 2
	}
	return combined, nil
}

func (s *predictionService) evaluate(ctx context.Context, perspective string, vector []float64) ([2]float64, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.engine.Predict(callCtx, vector)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("model call exceeded %s: %w", s.timeout, err)
		}
		s.logger.Warnw("Model call failed", "perspective", perspective, "error", err)
		return [2]float64{}, &InferenceError{Perspective: perspective, Err: err}
	}
	if len(out) != 2 {
		return [2]float64{}, &InferenceError{Perspective: perspective, Err: fmt.Errorf("expected 2 class scores, got %d", len(out))}
	}
	for _, p := range out {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return [2]float64{}, &InferenceError{Perspective: perspective, Err: fmt.Errorf("non-finite class score %v", p)}
		}
	}
	return [2]float64{out[0], out[1]}, nil
}

// SelectWinner picks the player with the higher combined probability. On an
// exact tie player A (index 0) wins.
func SelectWinner(combined [2]float64, names [2]string) *models.PredictionResult {
	idx := 0
	if combined[1] > combined[0] {
		idx = 1
	}

	pct := combined[idx] * 100
	return &models.PredictionResult{
		PlayerA:       names[0],
		PlayerB:       names[1],
		Probabilities: combined,
		Winner:        names[idx],
		WinnerIndex:   idx,
		Percentage:    pct,
		Message:       FormatResult(names[idx], pct),
	}
}

// FormatResult renders the user-facing message. The percentage is rounded to
// two decimals without trailing zeros (72.5, not 72.50 or 72.49999999999999).
func FormatResult(winner string, percentage float64) string {
	rounded := math.Round(percentage*100) / 100
	return fmt.Sprintf("Predicted winner is: %s with probability: %s%%", winner, strconv.FormatFloat(rounded, 'f', -1, 64))
}
