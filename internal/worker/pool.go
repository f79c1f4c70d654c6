// Package worker implements the buffered worker pool that records served
// predictions. It keeps audit writes off the request path:
// - Load shedding when the queue is full
// - Batched writes to every configured sink
// - Graceful shutdown that drains and flushes the queue

package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/openmohaa/tennis-pred/internal/models"
)

// Prometheus metrics
var (
	recordsEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tennis_audit_records_enqueued_total",
		Help: "Total number of prediction records accepted by the audit queue",
	})

	recordsWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tennis_audit_records_written_total",
		Help: "Total number of prediction records written by workers",
	})

	recordsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tennis_audit_records_failed_total",
		Help: "Total number of prediction records that failed to write",
	})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tennis_audit_queue_depth",
		Help: "Current depth of the audit queue",
	})

	flushDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tennis_audit_flush_duration_seconds",
		Help:    "Duration of batch writes to the audit sinks",
		Buckets: prometheus.DefBuckets,
	})

	recordsLoadShed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tennis_audit_records_load_shed_total",
		Help: "Total number of prediction records dropped due to load shedding",
	})
)

// Sink persists a batch of prediction records
type Sink interface {
	Name() string
	Write(ctx context.Context, records []models.PredictionRecord) error
	Ping(ctx context.Context) error
}

// Job represents a unit of work for the worker pool
type Job struct {
	Record    models.PredictionRecord
	Timestamp time.Time
}

// PoolConfig configures the worker pool
type PoolConfig struct {
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
	WriteTimeout  time.Duration
	Sinks         []Sink
	Logger        *zap.Logger
}

// Pool manages a pool of workers for async audit writes
type Pool struct {
	config   PoolConfig
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.SugaredLogger
	stopOnce sync.Once
}

// NewPool creates a new worker pool
func NewPool(cfg PoolConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Pool{
		config:   cfg,
		jobQueue: make(chan Job, cfg.QueueSize),
		logger:   cfg.Logger.Sugar(),
	}
}

// Start launches the worker goroutines
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	go p.reportQueueDepth()

	p.logger.Infow("Audit pool started",
		"workers", p.config.WorkerCount,
		"queueSize", p.config.QueueSize,
		"batchSize", p.config.BatchSize,
		"sinks", len(p.config.Sinks),
	)
}

// Stop rejects new records, drains the queue and waits for the final flush
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		p.logger.Info("Stopping audit pool...")
		if p.cancel != nil {
			p.cancel()
		}
		close(p.jobQueue)
		p.wg.Wait()
		p.logger.Info("Audit pool stopped")
	})
}

// Enqueue adds a record without blocking. It returns false when the queue is
// full or the pool is stopping; the record is dropped in that case.
func (p *Pool) Enqueue(rec models.PredictionRecord) (ok bool) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	job := Job{Record: rec, Timestamp: time.Now()}

	// Protect against sending on closed channel
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warnw("Failed to enqueue record (pool stopped)", "error", r)
			recordsLoadShed.Inc()
			ok = false
		}
	}()

	if p.ctx != nil && p.ctx.Err() != nil {
		recordsLoadShed.Inc()
		return false
	}

	select {
	case p.jobQueue <- job:
		recordsEnqueued.Inc()
		return true
	default:
		p.logger.Warnw("Audit queue full, dropping record", "id", rec.ID)
		recordsLoadShed.Inc()
		return false
	}
}

// QueueDepth returns current queue size
func (p *Pool) QueueDepth() int {
	return len(p.jobQueue)
}

// Ping checks every sink
func (p *Pool) Ping(ctx context.Context) error {
	var errs []error
	for _, s := range p.config.Sinks {
		if err := s.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// worker processes jobs from the queue in batches
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	batch := make([]models.PredictionRecord, 0, p.config.BatchSize)
	ticker := time.NewTicker(p.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		start := time.Now()
		if err := p.processBatch(batch); err != nil {
			p.logger.Errorw("Audit batch failed",
				"worker", id,
				"batchSize", len(batch),
				"error", err,
			)
			recordsFailed.Add(float64(len(batch)))
		} else {
			p.logger.Debugw("Audit batch written", "worker", id, "batchSize", len(batch), "duration", time.Since(start))
			recordsWritten.Add(float64(len(batch)))
		}
		flushDuration.Observe(time.Since(start).Seconds())

		batch = batch[:0]
	}

	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				// Channel closed, flush remaining
				flush()
				return
			}

			batch = append(batch, job.Record)
			if len(batch) >= p.config.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()
		}
	}
}

// processBatch writes the batch to every sink. A failing sink does not stop
// the others.
func (p *Pool) processBatch(batch []models.PredictionRecord) error {
	if len(batch) == 0 {
		return nil
	}

	// Detached from the pool context so the final flush still runs during Stop
	ctx, cancel := context.WithTimeout(context.Background(), p.config.WriteTimeout)
	defer cancel()

	var errs []error
	for _, s := range p.config.Sinks {
		if err := s.Write(ctx, batch); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (p *Pool) reportQueueDepth() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			queueDepth.Set(float64(len(p.jobQueue)))
		case <-p.ctx.Done():
			return
		}
	}
}
