package shape

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gnana997/shapespec/pkg/style"
	"github.com/gnana997/shapespec/pkg/util"
)

// MatrixJob is one request queued for resolution.
type MatrixJob struct {
	Request style.Request
	JobID   int
}

// MatrixResult is a successfully resolved job.
type MatrixResult struct {
	Request style.Request
	Token   ShapeToken
	JobID   int
}

// MatrixError is a job whose resolution failed.
type MatrixError struct {
	Request style.Request
	JobID   int
	Err     error
}

func (e MatrixError) Error() string {
	return fmt.Sprintf("job %d: %v", e.JobID, e.Err)
}

// MatrixPool resolves requests on a fixed set of goroutines.
//
// Resolution never blocks, so the pool exists only to spread large batches
// (a full request matrix, an audit run) across cores. All workers share one
// Context.
//
// **Usage:**
//
//	pool := NewMatrixPool(0, ctx, logger)
//	pool.Start()
//	defer pool.Stop()
//
//	for i, req := range reqs {
//	    pool.Submit(MatrixJob{Request: req, JobID: i})
//	}
//	pool.FinishSubmitting()
//
//	for i := 0; i < len(reqs); i++ {
//	    select {
//	    case r := <-pool.Results():
//	        // use r.Token
//	    case e := <-pool.Errors():
//	        // e.Err is MissingToken, UnmappedToken or InvalidIntent
//	    }
//	}
type MatrixPool struct {
	numWorkers int
	jobs       chan MatrixJob
	results    chan MatrixResult
	errors     chan MatrixError
	wg         sync.WaitGroup
	resolver   *Context
	logger     *slog.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	started atomic.Bool
	stopped atomic.Bool

	// submitMu is held for reading across a Submit's check and send, and
	// for writing while the queue is closed, so a send never hits a closed channel.
	submitMu   sync.RWMutex
	jobsClosed bool

	jobsSubmitted atomic.Int64
	jobsProcessed atomic.Int64
	jobsFailed    atomic.Int64
}

// NewMatrixPool creates a pool. numWorkers <= 0 uses util.GetOptimalPoolSize().
func NewMatrixPool(numWorkers int, resolver *Context, logger *slog.Logger) *MatrixPool {
	if numWorkers <= 0 {
		numWorkers = util.GetOptimalPoolSize()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &MatrixPool{
		numWorkers: numWorkers,
		jobs:       make(chan MatrixJob, numWorkers*2),
		results:    make(chan MatrixResult, numWorkers),
		errors:     make(chan MatrixError, numWorkers),
		resolver:   resolver,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start spawns the workers. Calling it twice is a no-op.
func (p *MatrixPool) Start() {
	if !p.started.CompareAndSwap(false, true) {
		p.logger.Warn("MatrixPool already started")
		return
	}

	p.logger.Debug("Starting matrix pool", "workers", p.numWorkers)

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

func (p *MatrixPool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			if !p.process(id, job) {
				return
			}
		}
	}
}

// process resolves one job and reports whether the worker should continue.
func (p *MatrixPool) process(workerID int, job MatrixJob) bool {
	token, err := p.resolver.Resolve(job.Request)
	if err != nil {
		p.logger.Debug("Resolution failed", "worker_id", workerID, "job_id", job.JobID, "error", err)
		p.jobsFailed.Add(1)
		select {
		case p.errors <- MatrixError{Request: job.Request, JobID: job.JobID, Err: err}:
			return true
		case <-p.ctx.Done():
			return false
		}
	}

	p.jobsProcessed.Add(1)
	select {
	case p.results <- MatrixResult{Request: job.Request, Token: token, JobID: job.JobID}:
		return true
	case <-p.ctx.Done():
		return false
	}
}

// Submit enqueues a job. It blocks while the queue is full. Safe to call
// concurrently with FinishSubmitting, Abort and Stop.
func (p *MatrixPool) Submit(job MatrixJob) error {
	p.submitMu.RLock()
	defer p.submitMu.RUnlock()

	if p.jobsClosed {
		return fmt.Errorf("matrix pool is not accepting jobs")
	}
	if p.ctx.Err() != nil {
		return fmt.Errorf("matrix pool cancelled")
	}

	p.jobsSubmitted.Add(1)

	select {
	case <-p.ctx.Done():
		return fmt.Errorf("matrix pool cancelled")
	case p.jobs <- job:
		return nil
	}
}

// Results returns the results channel.
func (p *MatrixPool) Results() <-chan MatrixResult { return p.results }

// Errors returns the failures channel.
func (p *MatrixPool) Errors() <-chan MatrixError { return p.errors }

// FinishSubmitting closes the job queue. It waits for Submit calls already
// in progress. Idempotent.
func (p *MatrixPool) FinishSubmitting() {
	p.submitMu.Lock()
	defer p.submitMu.Unlock()
	if !p.jobsClosed {
		p.jobsClosed = true
		close(p.jobs)
	}
}

// Wait blocks until every worker has exited.
func (p *MatrixPool) Wait() { p.wg.Wait() }

// Abort cancels in-flight work; workers exit without draining the queue.
func (p *MatrixPool) Abort() { p.cancel() }

// Stop closes the queue, waits for the workers and closes the output
// channels. Idempotent.
func (p *MatrixPool) Stop() {
	if !p.stopped.CompareAndSwap(false, true) {
		return
	}

	p.FinishSubmitting()
	p.Wait()

	close(p.results)
	close(p.errors)
	p.cancel()

	p.logger.Debug("Matrix pool stopped",
		"jobs_submitted", p.jobsSubmitted.Load(),
		"jobs_processed", p.jobsProcessed.Load(),
		"jobs_failed", p.jobsFailed.Load())
}

// GetStats returns current pool counters.
func (p *MatrixPool) GetStats() MatrixPoolStats {
	return MatrixPoolStats{
		NumWorkers:    p.numWorkers,
		JobsSubmitted: p.jobsSubmitted.Load(),
		JobsProcessed: p.jobsProcessed.Load(),
		JobsFailed:    p.jobsFailed.Load(),
		QueueLength:   len(p.jobs),
	}
}

// MatrixPoolStats contains pool counters.
type MatrixPoolStats struct {
	NumWorkers    int
	JobsSubmitted int64
	JobsProcessed int64
	JobsFailed    int64
	QueueLength   int
}
