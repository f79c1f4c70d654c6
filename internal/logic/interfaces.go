package logic

import (
	"context"

	"github.com/openmohaa/tennis-pred/internal/models"
)

// PredictionService turns a match submission into a winner prediction
type PredictionService interface {
	Predict(ctx context.Context, req *models.MatchRequest) (*models.PredictionResult, error)
	Catalog() *models.Catalog
}

// LookupTables is the read-only view of the id tables the builder needs
type LookupTables interface {
	Tournament(name string) ([]float64, bool)
	Player(name string) ([]float64, bool)
	TournamentNames() []string
	PlayerNames() []string
}
