package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openmohaa/tennis-pred/internal/models"
	"go.uber.org/zap"
)

func TestEnqueueFull(t *testing.T) {
	// Create a pool without starting workers so nothing drains the queue
	pool := NewPool(PoolConfig{QueueSize: 1, Logger: zap.NewNop()})

	ctx, cancel := context.WithCancel(context.Background())
	pool.ctx = ctx
	pool.cancel = cancel
	defer cancel()

	if !pool.Enqueue(models.PredictionRecord{Tournament: "Wimbledon"}) {
		t.Fatal("Failed to enqueue first record")
	}

	start := time.Now()
	enqueued := pool.Enqueue(models.PredictionRecord{Tournament: "Wimbledon"})
	duration := time.Since(start)

	if enqueued {
		t.Error("Enqueue should have returned false when queue is full")
	}
	if duration > 10*time.Millisecond {
		t.Errorf("Enqueue took too long (%v), expected immediate return", duration)
	}
	if pool.QueueDepth() != 1 {
		t.Errorf("QueueDepth = %d, want 1", pool.QueueDepth())
	}
}

func TestEnqueueFillsIDAndTimestamp(t *testing.T) {
	sink := &MockSink{}
	pool := NewPool(PoolConfig{BatchSize: 1, Sinks: []Sink{sink}, Logger: zap.NewNop()})
	pool.Start(context.Background())

	pool.Enqueue(models.PredictionRecord{Winner: "Roger Federer"})
	pool.Stop()

	if sink.Total() != 1 {
		t.Fatalf("sink received %d records, want 1", sink.Total())
	}
	rec := sink.Batches[0][0]
	if rec.ID == "" {
		t.Error("expected generated ID")
	}
	if rec.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestStopFlushesPendingRecords(t *testing.T) {
	sink := &MockSink{}
	pool := NewPool(PoolConfig{
		WorkerCount:   1,
		BatchSize:     100,
		FlushInterval: time.Hour,
		Sinks:         []Sink{sink},
		Logger:        zap.NewNop(),
	})
	pool.Start(context.Background())

	for i := 0; i < 5; i++ {
		if !pool.Enqueue(models.PredictionRecord{Winner: "Rafael Nadal"}) {
			t.Fatalf("enqueue %d failed", i)
		}
	}
	pool.Stop()

	if sink.Total() != 5 {
		t.Errorf("sink received %d records, want 5", sink.Total())
	}
	if pool.Enqueue(models.PredictionRecord{}) {
		t.Error("Enqueue after Stop should return false")
	}
	pool.Stop()
}

func TestSinkFailureDoesNotBlockOtherSinks(t *testing.T) {
	failing := &MockSink{WriteFunc: func(ctx context.Context, r []models.PredictionRecord) error {
		return errors.New("disk full")
	}}
	healthy := &MockSink{}

	pool := NewPool(PoolConfig{Sinks: []Sink{failing, healthy}, Logger: zap.NewNop()})
	err := pool.processBatch([]models.PredictionRecord{{ID: "1"}, {ID: "2"}})

	if err == nil {
		t.Fatal("expected error from failing sink")
	}
	if healthy.Total() != 2 {
		t.Errorf("healthy sink received %d records, want 2", healthy.Total())
	}
}

func TestPoolPing(t *testing.T) {
	pool := NewPool(PoolConfig{Sinks: []Sink{&MockSink{}, &MockSink{PingErr: errors.New("down")}}})
	if err := pool.Ping(context.Background()); err == nil {
		t.Error("expected ping error")
	}

	pool = NewPool(PoolConfig{Sinks: []Sink{&MockSink{}}})
	if err := pool.Ping(context.Background()); err != nil {
		t.Errorf("unexpected ping error: %v", err)
	}
}
