package logic

import (
	"context"

	"github.com/openmohaa/tennis-pred/internal/lookup"
	"github.com/openmohaa/tennis-pred/internal/models"
)

// MockEngine implements inference.Engine for testing
type MockEngine struct {
	PredictFunc func(ctx context.Context, features []float64) ([]float64, error)
	Calls       [][]float64
}

func (m *MockEngine) Predict(ctx context.Context, features []float64) ([]float64, error) {
	m.Calls = append(m.Calls, append([]float64(nil), features...))
	if m.PredictFunc != nil {
		return m.PredictFunc(ctx, features)
	}
	return []float64{0.5, 0.5}, nil
}

func testTables() *lookup.Tables {
	tables, err := lookup.New(
		map[string][]float64{
			"Wimbledon":     {1, 0, 1},
			"Roland Garros": {0, 1, 1},
		},
		map[string][]float64{
			"Roger Federer":  {0, 1},
			"Rafael Nadal":   {1, 0},
			"Novak Djokovic": {1, 1},
		},
	)
	if err != nil {
		panic(err)
	}
	return tables
}

func federerVsNadal() *models.MatchRequest {
	return &models.MatchRequest{
		Tournament: "Wimbledon",
		Round:      "F",
		PlayerA:    models.PlayerEntry{Name: "Roger Federer", Age: "38", Rank: "5"},
		PlayerB:    models.PlayerEntry{Name: "Rafael Nadal", Age: "35", Rank: "2"},
	}
}

// firstPlayerScores answers by who occupies the first player slot: the static
// features start right after the tournament block and round rank.
func firstPlayerScores(scores map[string][]float64, tables *lookup.Tables) func(ctx context.Context, features []float64) ([]float64, error) {
	return func(ctx context.Context, features []float64) ([]float64, error) {
		offset := tables.TournamentWidth() + 1
		first := features[offset : offset+tables.PlayerWidth()]
		for _, name := range tables.PlayerNames() {
			static, _ := tables.Player(name)
			if equal(static, first) {
				return scores[name], nil
			}
		}
		return []float64{0.5, 0.5}, nil
	}
}

func equal(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
