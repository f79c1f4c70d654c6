package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/openmohaa/tennis-pred/internal/models"
)

// TopWinners reports the players most often predicted to win since the given time
func (s *ClickHouseSink) TopWinners(ctx context.Context, since time.Time, limit int) ([]models.WinnerCount, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.conn.Query(ctx, `
		SELECT
			winner,
			count() AS predictions,
			avg(if(winner = player_a, prob_a, prob_b)) AS avg_probability
		FROM tennis_pred.predictions
		WHERE created_at >= ?
		GROUP BY winner
		ORDER BY predictions DESC, winner
		LIMIT ?
	`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("query top winners: %w", err)
	}
	defer rows.Close()

	var out []models.WinnerCount
	for rows.Next() {
		var wc models.WinnerCount
		if err := rows.Scan(&wc.Winner, &wc.Predictions, &wc.AvgProbability); err != nil {
			return nil, fmt.Errorf("scan top winners: %w", err)
		}
		out = append(out, wc)
	}
	return out, rows.Err()
}
