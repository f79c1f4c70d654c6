package handlers

import (
	"context"
	"sync"

	"github.com/openmohaa/tennis-pred/internal/logic"
	"github.com/openmohaa/tennis-pred/internal/models"
)

// MockPredictionService
type MockPredictionService struct {
	PredictFunc func(ctx context.Context, req *models.MatchRequest) (*models.PredictionResult, error)
	CatalogFunc func() *models.Catalog
}

func (m *MockPredictionService) Predict(ctx context.Context, req *models.MatchRequest) (*models.PredictionResult, error) {
	if m.PredictFunc != nil {
		return m.PredictFunc(ctx, req)
	}
	return federerWins(), nil
}

func (m *MockPredictionService) Catalog() *models.Catalog {
	if m.CatalogFunc != nil {
		return m.CatalogFunc()
	}
	return &models.Catalog{
		Tournaments: []string{"Roland Garros", "Wimbledon"},
		Players:     []string{"Rafael Nadal", "Roger Federer"},
		Rounds:      logic.Rounds(),
	}
}

// MockSessionStore keeps results in a map
type MockSessionStore struct {
	mu      sync.Mutex
	Results map[string]string
	GetErr  error
	PingErr error
}

func (m *MockSessionStore) Get(ctx context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", m.GetErr
	}
	return m.Results[id], nil
}

func (m *MockSessionStore) Set(ctx context.Context, id, result string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Results == nil {
		m.Results = make(map[string]string)
	}
	m.Results[id] = result
	return nil
}

func (m *MockSessionStore) Ping(ctx context.Context) error { return m.PingErr }

// MockAuditQueue
type MockAuditQueue struct {
	EnqueueFunc func(rec models.PredictionRecord) bool
	Records     []models.PredictionRecord
}

func (m *MockAuditQueue) Enqueue(rec models.PredictionRecord) bool {
	m.Records = append(m.Records, rec)
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(rec)
	}
	return true
}

func (m *MockAuditQueue) QueueDepth() int { return len(m.Records) }

func federerWins() *models.PredictionResult {
	return &models.PredictionResult{
		Tournament:    "Wimbledon",
		Round:         "F",
		PlayerA:       "Roger Federer",
		PlayerB:       "Rafael Nadal",
		Probabilities: [2]float64{0.725, 0.275},
		Winner:        "Roger Federer",
		WinnerIndex:   0,
		Percentage:    72.5,
		Message:       "Predicted winner is: Roger Federer with probability: 72.5%",
	}
}
