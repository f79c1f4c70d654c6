package worker

import (
	"context"
	"sync"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/openmohaa/tennis-pred/internal/models"
)

// MockSink records every batch it receives
type MockSink struct {
	mu        sync.Mutex
	WriteFunc func(ctx context.Context, records []models.PredictionRecord) error
	Batches   [][]models.PredictionRecord
	PingErr   error
}

func (m *MockSink) Name() string { return "mock" }

func (m *MockSink) Write(ctx context.Context, records []models.PredictionRecord) error {
	m.mu.Lock()
	m.Batches = append(m.Batches, append([]models.PredictionRecord(nil), records...))
	m.mu.Unlock()
	if m.WriteFunc != nil {
		return m.WriteFunc(ctx, records)
	}
	return nil
}

func (m *MockSink) Ping(ctx context.Context) error { return m.PingErr }

func (m *MockSink) Total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.Batches {
		n += len(b)
	}
	return n
}

// MockClickHouseConn implements driver.Conn for testing
type MockClickHouseConn struct {
	driver.Conn
	Batch      *MockBatch
	Statements []string
	QueryFunc  func(ctx context.Context, query string, args ...interface{}) (driver.Rows, error)
}

func (m *MockClickHouseConn) Query(ctx context.Context, query string, args ...interface{}) (driver.Rows, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, query, args...)
	}
	return &MockCHRows{}, nil
}

func (m *MockClickHouseConn) PrepareBatch(ctx context.Context, query string, opts ...driver.PrepareBatchOption) (driver.Batch, error) {
	m.Batch = &MockBatch{Query: query}
	return m.Batch, nil
}

func (m *MockClickHouseConn) Exec(ctx context.Context, query string, args ...interface{}) error {
	m.Statements = append(m.Statements, query)
	return nil
}

func (m *MockClickHouseConn) Ping(ctx context.Context) error { return nil }
func (m *MockClickHouseConn) Close() error                   { return nil }

type MockBatch struct {
	driver.Batch
	Query    string
	Appended [][]interface{}
	Sent     bool
}

func (b *MockBatch) Append(v ...interface{}) error {
	b.Appended = append(b.Appended, v)
	return nil
}

func (b *MockBatch) Send() error {
	b.Sent = true
	return nil
}

// MockCHRows yields Data one row per Next
type MockCHRows struct {
	driver.Rows
	Data   [][]interface{}
	cursor int
}

func (m *MockCHRows) Next() bool {
	if m.cursor >= len(m.Data) {
		return false
	}
	m.cursor++
	return true
}

func (m *MockCHRows) Scan(dest ...interface{}) error {
	row := m.Data[m.cursor-1]
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = row[i].(string)
		case *uint64:
			*p = row[i].(uint64)
		case *float64:
			*p = row[i].(float64)
		}
	}
	return nil
}

func (m *MockCHRows) Close() error { return nil }
func (m *MockCHRows) Err() error   { return nil }

// MockPgPool implements PgPool for testing
type MockPgPool struct {
	Table   pgx.Identifier
	Columns []string
	Rows    [][]any
	Execs   []string
	CopyErr error
}

func (m *MockPgPool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.Execs = append(m.Execs, sql)
	return pgconn.CommandTag{}, nil
}

func (m *MockPgPool) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	if m.CopyErr != nil {
		return 0, m.CopyErr
	}
	m.Table = tableName
	m.Columns = columnNames
	for rowSrc.Next() {
		values, err := rowSrc.Values()
		if err != nil {
			return 0, err
		}
		m.Rows = append(m.Rows, values)
	}
	return int64(len(m.Rows)), rowSrc.Err()
}

func (m *MockPgPool) Ping(ctx context.Context) error { return nil }
