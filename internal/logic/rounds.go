package logic

import "github.com/openmohaa/tennis-pred/internal/models"

// Round codes in tournament order. The rank of each code is a model input:
// changing a value breaks compatibility with every trained model.
var rounds = []models.RoundOption{
	{Code: "RR", Rank: 1},
	{Code: "BR", Rank: 2},
	{Code: "R128", Rank: 3},
	{Code: "R64", Rank: 4},
	{Code: "R32", Rank: 5},
	{Code: "R16", Rank: 6},
	{Code: "QF", Rank: 7},
	{Code: "SF", Rank: 8},
	{Code: "F", Rank: 9},
}

var roundRanks = func() map[string]int {
	m := make(map[string]int, len(rounds))
	for _, r := range rounds {
		m[r.Code] = r.Rank
	}
	return m
}()

// RoundRank returns the model feature for a round code
func RoundRank(code string) (int, bool) {
	rank, ok := roundRanks[code]
	return rank, ok
}

// Rounds returns the round codes in display order
func Rounds() []models.RoundOption {
	return append([]models.RoundOption(nil), rounds...)
}
