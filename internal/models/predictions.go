package models

import "time"

// PlayerEntry is one side of a match submission. Age and rank are user supplied
// per request and are not part of the stored player record.
type PlayerEntry struct {
	Name string     `json:"name" validate:"required"`
	Age  FlexNumber `json:"age" validate:"required" example:"38"`
	Rank FlexNumber `json:"rank" validate:"required" example:"5"`
}

// MatchRequest is a single prediction submission
type MatchRequest struct {
	Tournament string      `json:"tournament" validate:"required" example:"Wimbledon"`
	Round      string      `json:"round" validate:"required" example:"F"`
	PlayerA    PlayerEntry `json:"player_a"`
	PlayerB    PlayerEntry `json:"player_b"`
}

// PredictionResult is the outcome shown to the user
type PredictionResult struct {
	Tournament    string     `json:"tournament"`
	Round         string     `json:"round"`
	PlayerA       string     `json:"player_a"`
	PlayerB       string     `json:"player_b"`
	Probabilities [2]float64 `json:"probabilities"` // index 0 = player A
	Winner        string     `json:"winner"`
	WinnerIndex   int        `json:"winner_index"`
	Percentage    float64    `json:"percentage"`
	Message       string     `json:"message"`
}

// PredictionRecord is the audit row written after a prediction has been served
type PredictionRecord struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	Tournament string    `json:"tournament"`
	Round      string    `json:"round"`
	PlayerA    string    `json:"player_a"`
	PlayerB    string    `json:"player_b"`
	ProbA      float64   `json:"prob_a"`
	ProbB      float64   `json:"prob_b"`
	Winner     string    `json:"winner"`
	CreatedAt  time.Time `json:"created_at"`
}

// RoundOption is one entry of the round dropdown
type RoundOption struct {
	Code string `json:"code"`
	Rank int    `json:"rank"`
}

// Catalog lists the choices a client needs to build the match form
type Catalog struct {
	Tournaments []string      `json:"tournaments"`
	Players     []string      `json:"players"`
	Rounds      []RoundOption `json:"rounds"`
}

// WinnerCount is one row of the audit report of most-predicted winners
type WinnerCount struct {
	Winner         string  `json:"winner"`
	Predictions    uint64  `json:"predictions"`
	AvgProbability float64 `json:"avg_probability"`
}
