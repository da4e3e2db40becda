package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"

	"delivery/internal/domain"
	"delivery/internal/observability"
	"delivery/internal/repository"
)

// Assigner runs a single assignment attempt.
type Assigner interface {
	Assign(ctx context.Context, orderID string) (domain.Outcome, error)
}

// AssignmentNotifier is told about every successful automatic assignment.
type AssignmentNotifier interface {
	NotifyDriverAssigned(ctx context.Context, orderID string, outcome domain.Outcome) error
}

// DispatcherConfig holds the worker pool knobs.
type DispatcherConfig struct {
	Workers       int
	QueueSize     int
	MaxAttempts   int
	RetryBackoff  time.Duration // multiplied by the attempt number
	SweepInterval time.Duration // 0 disables the sweeper
	SweepBatch    int
}

func (c DispatcherConfig) withDefaults() DispatcherConfig {
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 256
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = 2 * time.Second
	}
	if c.SweepBatch <= 0 {
		c.SweepBatch = 100
	}
	return c
}

type assignJob struct {
	orderID string
	attempt int
}

// Dispatcher runs assignments asynchronously on a fixed worker pool.
// Business outcomes are final; infrastructure errors are retried with
// linear backoff until MaxAttempts.
type Dispatcher struct {
	assigner  Assigner
	notifier  AssignmentNotifier
	orderRepo repository.OrderRepository // used only by the sweeper
	cfg       DispatcherConfig
	logger    *slog.Logger
	nrApp     *newrelic.Application

	queue chan assignJob
	wg    sync.WaitGroup
}

// NewDispatcher creates a new Dispatcher. orderRepo and nrApp may be nil.
func NewDispatcher(
	assigner Assigner,
	notifier AssignmentNotifier,
	orderRepo repository.OrderRepository,
	cfg DispatcherConfig,
	logger *slog.Logger,
	nrApp *newrelic.Application,
) *Dispatcher {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		assigner:  assigner,
		notifier:  notifier,
		orderRepo: orderRepo,
		cfg:       cfg,
		logger:    logger,
		nrApp:     nrApp,
		queue:     make(chan assignJob, cfg.QueueSize),
	}
}

// Enqueue schedules an assignment attempt without blocking.
func (d *Dispatcher) Enqueue(orderID string) error {
	return d.push(assignJob{orderID: orderID, attempt: 1})
}

func (d *Dispatcher) push(job assignJob) error {
	select {
	case d.queue <- job:
		observability.QueueDepth.Set(float64(len(d.queue)))
		return nil
	default:
		return ErrDispatchQueueFull
	}
}

// Run starts the workers and the optional sweeper, and blocks until ctx is
// cancelled and every worker has returned.
func (d *Dispatcher) Run(ctx context.Context) {
	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx)
	}
	if d.cfg.SweepInterval > 0 && d.orderRepo != nil {
		d.wg.Add(1)
		go d.sweep(ctx)
	}
	<-ctx.Done()
	d.wg.Wait()
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-d.queue:
			observability.QueueDepth.Set(float64(len(d.queue)))
			d.process(ctx, job)
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, job assignJob) {
	if d.nrApp != nil {
		txn := d.nrApp.StartTransaction("assign-order")
		defer txn.End()
		txn.AddAttribute("order_id", job.orderID)
		txn.AddAttribute("attempt", job.attempt)
		ctx = newrelic.NewContext(ctx, txn)
	}

	start := time.Now()
	outcome, err := d.assigner.Assign(ctx, job.orderID)
	observability.AssignmentDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		observability.AssignmentErrors.Inc()
		if txn := newrelic.FromContext(ctx); txn != nil {
			txn.NoticeError(err)
		}
		d.retry(ctx, job, err)
		return
	}

	observability.AssignmentOutcomes.WithLabelValues(string(outcome.Kind)).Inc()
	d.logger.InfoContext(ctx, "assignment finished",
		"order_id", job.orderID,
		"outcome", outcome.Kind,
		"driver_id", outcome.DriverID,
		"distance_km", outcome.DistanceKm,
		"eta_minutes", outcome.ETAMinutes,
		"attempt", job.attempt,
	)

	if outcome.IsAssigned() && d.notifier != nil {
		if err := d.notifier.NotifyDriverAssigned(ctx, job.orderID, outcome); err != nil {
			d.logger.WarnContext(ctx, "driver assigned notification failed", "order_id", job.orderID, "error", err)
		}
	}
}

func (d *Dispatcher) retry(ctx context.Context, job assignJob, cause error) {
	if job.attempt >= d.cfg.MaxAttempts {
		d.logger.ErrorContext(ctx, "assignment failed, giving up",
			"order_id", job.orderID, "attempt", job.attempt, "error", cause)
		return
	}

	delay := d.cfg.RetryBackoff * time.Duration(job.attempt)
	d.logger.WarnContext(ctx, "assignment failed, retrying",
		"order_id", job.orderID, "attempt", job.attempt, "retry_in", delay, "error", cause)

	next := assignJob{orderID: job.orderID, attempt: job.attempt + 1}
	time.AfterFunc(delay, func() {
		if ctx.Err() != nil {
			return
		}
		if err := d.push(next); err != nil {
			d.logger.Error("dropping assignment retry", "order_id", next.orderID, "error", err)
		}
	})
}

func (d *Dispatcher) sweep(ctx context.Context) {
	defer d.wg.Done()

	ticker := time.NewTicker(d.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ids, err := d.orderRepo.ListUnassignedConfirmed(ctx, d.cfg.SweepBatch)
			if err != nil {
				d.logger.ErrorContext(ctx, "sweep unassigned orders", "error", err)
				continue
			}
			for _, id := range ids {
				if err := d.Enqueue(id); err != nil {
					d.logger.WarnContext(ctx, "sweep enqueue", "order_id", id, "error", err)
					break
				}
			}
		}
	}
}
