package worker

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openmohaa/tennis-pred/internal/models"
)

// ============================================================================
// CLICKHOUSE
// ============================================================================

var clickHouseSchema = []string{
	`CREATE DATABASE IF NOT EXISTS tennis_pred`,
	`CREATE TABLE IF NOT EXISTS tennis_pred.predictions (
		id String,
		session_id String,
		tournament LowCardinality(String),
		round LowCardinality(String),
		player_a String,
		player_b String,
		prob_a Float64,
		prob_b Float64,
		winner String,
		created_at DateTime64(3)
	) ENGINE = MergeTree
	ORDER BY (created_at, tournament)`,
}

// OpenClickHouse connects using a clickhouse:// DSN
func OpenClickHouse(ctx context.Context, dsn string) (driver.Conn, error) {
	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse clickhouse dsn: %w", err)
	}
	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open clickhouse: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}
	return conn, nil
}

// ClickHouseSink batch-inserts records into tennis_pred.predictions
type ClickHouseSink struct {
	conn driver.Conn
}

func NewClickHouseSink(conn driver.Conn) *ClickHouseSink {
	return &ClickHouseSink{conn: conn}
}

func (s *ClickHouseSink) Name() string { return "clickhouse" }

// EnsureSchema creates the database and table if missing
func (s *ClickHouseSink) EnsureSchema(ctx context.Context) error {
	for _, stmt := range clickHouseSchema {
		if err := s.conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("clickhouse schema: %w", err)
		}
	}
	return nil
}

func (s *ClickHouseSink) Write(ctx context.Context, records []models.PredictionRecord) error {
	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO tennis_pred.predictions (
			id, session_id, tournament, round, player_a, player_b,
			prob_a, prob_b, winner, created_at
		)
	`)
	if err != nil {
		return err
	}

	for _, r := range records {
		if err := batch.Append(
			r.ID,
			r.SessionID,
			r.Tournament,
			r.Round,
			r.PlayerA,
			r.PlayerB,
			r.ProbA,
			r.ProbB,
			r.Winner,
			r.CreatedAt,
		); err != nil {
			return fmt.Errorf("append record %s: %w", r.ID, err)
		}
	}
	return batch.Send()
}

func (s *ClickHouseSink) Ping(ctx context.Context) error { return s.conn.Ping(ctx) }
func (s *ClickHouseSink) Close() error                   { return s.conn.Close() }

// ============================================================================
// POSTGRES
// ============================================================================

const postgresSchema = `
CREATE TABLE IF NOT EXISTS prediction_log (
	id          UUID PRIMARY KEY,
	session_id  TEXT NOT NULL,
	tournament  TEXT NOT NULL,
	round       TEXT NOT NULL,
	player_a    TEXT NOT NULL,
	player_b    TEXT NOT NULL,
	prob_a      DOUBLE PRECISION NOT NULL,
	prob_b      DOUBLE PRECISION NOT NULL,
	winner      TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
)`

var predictionLogColumns = []string{
	"id", "session_id", "tournament", "round", "player_a", "player_b",
	"prob_a", "prob_b", "winner", "created_at",
}

// PgPool defines the subset of pgxpool.Pool used by PostgresSink
type PgPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	Ping(ctx context.Context) error
}

// OpenPostgres creates a pgx pool and verifies connectivity
func OpenPostgres(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// PostgresSink copies records into prediction_log
type PostgresSink struct {
	pg PgPool
}

func NewPostgresSink(pg PgPool) *PostgresSink {
	return &PostgresSink{pg: pg}
}

func (s *PostgresSink) Name() string { return "postgres" }

// EnsureSchema creates prediction_log if missing
func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	if _, err := s.pg.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("postgres schema: %w", err)
	}
	return nil
}

func (s *PostgresSink) Write(ctx context.Context, records []models.PredictionRecord) error {
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, []any{
			r.ID, r.SessionID, r.Tournament, r.Round, r.PlayerA, r.PlayerB,
			r.ProbA, r.ProbB, r.Winner, r.CreatedAt,
		})
	}

	n, err := s.pg.CopyFrom(ctx, pgx.Identifier{"prediction_log"}, predictionLogColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return err
	}
	if int(n) != len(records) {
		return fmt.Errorf("copied %d of %d records", n, len(records))
	}
	return nil
}

func (s *PostgresSink) Ping(ctx context.Context) error { return s.pg.Ping(ctx) }
