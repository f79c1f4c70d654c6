package worker

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmohaa/tennis-pred/internal/models"
)

func sampleRecords() []models.PredictionRecord {
	ts := time.Date(2019, 7, 14, 15, 0, 0, 0, time.UTC)
	return []models.PredictionRecord{
		{ID: "a", SessionID: "s1", Tournament: "Wimbledon", Round: "F", PlayerA: "Roger Federer", PlayerB: "Novak Djokovic", ProbA: 0.55, ProbB: 0.45, Winner: "Roger Federer", CreatedAt: ts},
		{ID: "b", SessionID: "s2", Tournament: "Wimbledon", Round: "SF", PlayerA: "Rafael Nadal", PlayerB: "Roger Federer", ProbA: 0.4, ProbB: 0.6, Winner: "Roger Federer", CreatedAt: ts},
	}
}

func TestClickHouseSink_Write(t *testing.T) {
	conn := &MockClickHouseConn{}
	sink := NewClickHouseSink(conn)

	require.NoError(t, sink.Write(context.Background(), sampleRecords()))

	require.NotNil(t, conn.Batch)
	assert.Contains(t, conn.Batch.Query, "INSERT INTO tennis_pred.predictions")
	assert.True(t, conn.Batch.Sent)
	require.Len(t, conn.Batch.Appended, 2)
	assert.Equal(t, "a", conn.Batch.Appended[0][0])
	assert.Equal(t, 0.45, conn.Batch.Appended[0][7])
	assert.Len(t, conn.Batch.Appended[1], 10)
}

func TestClickHouseSink_EnsureSchema(t *testing.T) {
	conn := &MockClickHouseConn{}
	require.NoError(t, NewClickHouseSink(conn).EnsureSchema(context.Background()))

	require.Len(t, conn.Statements, 2)
	assert.True(t, strings.HasPrefix(conn.Statements[0], "CREATE DATABASE"))
	assert.Contains(t, conn.Statements[1], "tennis_pred.predictions")
}

func TestPostgresSink_Write(t *testing.T) {
	pg := &MockPgPool{}
	sink := NewPostgresSink(pg)

	require.NoError(t, sink.Write(context.Background(), sampleRecords()))

	assert.Equal(t, pgx.Identifier{"prediction_log"}, pg.Table)
	assert.Equal(t, predictionLogColumns, pg.Columns)
	require.Len(t, pg.Rows, 2)
	assert.Equal(t, "Rafael Nadal", pg.Rows[1][4])
}

func TestPostgresSink_Errors(t *testing.T) {
	pg := &MockPgPool{CopyErr: errors.New("relation does not exist")}
	assert.Error(t, NewPostgresSink(pg).Write(context.Background(), sampleRecords()))

	pg = &MockPgPool{}
	require.NoError(t, NewPostgresSink(pg).EnsureSchema(context.Background()))
	require.Len(t, pg.Execs, 1)
	assert.Contains(t, pg.Execs[0], "prediction_log")
}

func TestClickHouseSink_TopWinners(t *testing.T) {
	since := time.Date(2019, 7, 1, 0, 0, 0, 0, time.UTC)
	var gotQuery string
	var gotArgs []interface{}
	conn := &MockClickHouseConn{
		QueryFunc: func(ctx context.Context, query string, args ...interface{}) (driver.Rows, error) {
			gotQuery = query
			gotArgs = args
			return &MockCHRows{Data: [][]interface{}{
				{"Roger Federer", uint64(12), 0.61},
				{"Rafael Nadal", uint64(4), 0.57},
			}}, nil
		},
	}

	winners, err := NewClickHouseSink(conn).TopWinners(context.Background(), since, 0)
	require.NoError(t, err)

	assert.Contains(t, gotQuery, "FROM tennis_pred.predictions")
	assert.Equal(t, []interface{}{since, 10}, gotArgs, "limit defaults to 10")
	require.Len(t, winners, 2)
	assert.Equal(t, models.WinnerCount{Winner: "Roger Federer", Predictions: 12, AvgProbability: 0.61}, winners[0])
}

func TestClickHouseSink_TopWinnersQueryError(t *testing.T) {
	conn := &MockClickHouseConn{
		QueryFunc: func(ctx context.Context, query string, args ...interface{}) (driver.Rows, error) {
			return nil, errors.New("code: 60, table does not exist")
		},
	}

	_, err := NewClickHouseSink(conn).TopWinners(context.Background(), time.Time{}, 5)
	assert.ErrorContains(t, err, "query top winners")
}
