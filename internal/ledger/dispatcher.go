package ledger

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrDispatcherStopped is returned by Submit after Stop.
var ErrDispatcherStopped = errors.New("order dispatcher stopped")

// OrderExecutor executes a single order.
type OrderExecutor interface {
	ExecuteOrder(ctx context.Context, order Order) (*OrderResult, error)
}

type orderJob struct {
	ctx      context.Context
	order    Order
	resultCh chan orderOutcome // Channel to send result back
}

type orderOutcome struct {
	result *OrderResult
	err    error
}

// Dispatcher runs orders on a fixed pool of workers
type Dispatcher struct {
	executor OrderExecutor
	workers  int
	queue    chan orderJob
	stopCh   chan struct{}
	wg       sync.WaitGroup
	log      logrus.FieldLogger

	mu      sync.RWMutex // guards stopped against in-flight Submit calls
	stopped bool
}

// NewDispatcher creates a dispatcher with the given number of workers and
// queue capacity.
func NewDispatcher(executor OrderExecutor, workers, queueSize int, log logrus.FieldLogger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	return &Dispatcher{
		executor: executor,
		workers:  workers,
		queue:    make(chan orderJob, queueSize),
		stopCh:   make(chan struct{}),
		log:      log,
	}
}

// Start starts the worker pool
func (d *Dispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
	d.log.Infof("✅ Started %d order workers", d.workers)
}

// Stop rejects new orders, lets workers finish the queued ones and waits
// for them to exit.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	d.mu.Unlock()

	close(d.stopCh)
	d.wg.Wait()
	d.log.Info("Order dispatcher stopped")
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	for {
		select {
		case <-d.stopCh:
			for {
				select {
				case job := <-d.queue:
					d.run(id, job)
				default:
					return
				}
			}
		case job := <-d.queue:
			d.run(id, job)
		}
	}
}

func (d *Dispatcher) run(id int, job orderJob) {
	d.log.WithFields(logrus.Fields{
		"worker":     id,
		"user_id":    job.order.UserID,
		"product_id": job.order.ProductID,
		"side":       job.order.Side,
	}).Debug("Processing order")

	// Once picked up, an order runs to completion even if the caller left.
	res, err := d.executor.ExecuteOrder(context.WithoutCancel(job.ctx), job.order)
	job.resultCh <- orderOutcome{result: res, err: err}
}

// Submit queues the order and waits for its result. ctx only bounds the
// wait for a queue slot.
func (d *Dispatcher) Submit(ctx context.Context, order Order) (*OrderResult, error) {
	resultCh := make(chan orderOutcome, 1)

	d.mu.RLock()
	if d.stopped {
		d.mu.RUnlock()
		return nil, ErrDispatcherStopped
	}
	select {
	case d.queue <- orderJob{ctx: ctx, order: order, resultCh: resultCh}:
	case <-ctx.Done():
		d.mu.RUnlock()
		return nil, ctx.Err()
	}
	d.mu.RUnlock()

	out := <-resultCh
	return out.result, out.err
}
