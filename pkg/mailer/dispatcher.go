package mailer

import (
	"context"
	"errors"
	"sync"

	"knowledge-assistant/pkg/metrics"

	"go.uber.org/zap"
)

var (
	ErrNotRunning = errors.New("mail dispatcher not running")
	ErrQueueFull  = errors.New("mail queue full, job dropped")
)

type DispatcherConfig struct {
	Workers   int
	QueueSize int
}

// Dispatcher drains a bounded queue of jobs with a fixed set of workers.
// Submit never blocks; a full queue drops the job.
type Dispatcher struct {
	sender  Sender
	workers int
	queue   chan Job
	wg      sync.WaitGroup
	mu      sync.RWMutex
	running bool
	log     *zap.Logger
}

func NewDispatcher(sender Sender, cfg DispatcherConfig, log *zap.Logger) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	return &Dispatcher{
		sender:  sender,
		workers: cfg.Workers,
		queue:   make(chan Job, cfg.QueueSize),
		log:     log.With(zap.String("component", "mail_dispatcher")),
	}
}

func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return
	}
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	d.running = true
	d.log.Info("Mail dispatcher started", zap.Int("workers", d.workers))
}

// Stop refuses new jobs and waits for queued ones to be sent.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
	d.log.Info("Mail dispatcher stopped")
}

// Submit enqueues job. Errors are informational: callers log them and move on.
func (d *Dispatcher) Submit(job Job) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.running {
		return ErrNotRunning
	}

	select {
	case d.queue <- job:
		return nil
	default:
		metrics.MailJob("dropped")
		d.log.Warn("Mail queue full, dropping job",
			zap.String("subject", job.Subject),
			zap.Int("queue_capacity", cap(d.queue)),
		)
		return ErrQueueFull
	}
}

func (d *Dispatcher) QueueDepth() int {
	return len(d.queue)
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for job := range d.queue {
		if err := d.sender.Send(context.Background(), job); err != nil {
			metrics.MailJob("failed")
			d.log.Error("Failed to send mail",
				zap.Error(err),
				zap.String("subject", job.Subject),
				zap.Strings("to", job.To),
			)
			continue
		}
		metrics.MailJob("sent")
	}
}
