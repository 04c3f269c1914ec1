package shape

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/gnana997/shapespec/pkg/style"
)

// AllRequests enumerates the full cross product of request fields:
// surface × hierarchy × highPriority × input × size × state × intent.
func AllRequests() []style.Request {
	var reqs []style.Request
	for _, surface := range style.Surfaces() {
		for _, hierarchy := range style.Hierarchies() {
			for _, high := range []bool{false, true} {
				for _, input := range style.Inputs() {
					for _, size := range style.Sizes() {
						for _, state := range style.States() {
							for _, intent := range style.Intents() {
								reqs = append(reqs, style.Request{
									Surface:      surface,
									Hierarchy:    hierarchy,
									HighPriority: high,
									Input:        input,
									Size:         size,
									State:        state,
									Intent:       intent,
								})
							}
						}
					}
				}
			}
		}
	}
	return reqs
}

// ResolveAll resolves reqs on a MatrixPool and returns results and failures,
// each ordered by the request's position in reqs. numWorkers <= 0 selects
// the default pool size.
func ResolveAll(ctx context.Context, c *Context, reqs []style.Request, numWorkers int, logger *slog.Logger) ([]MatrixResult, []MatrixError, error) {
	pool := NewMatrixPool(numWorkers, c, logger)
	pool.Start()

	submitted := make(chan int, 1)
	go func() {
		n := 0
		for i, req := range reqs {
			if ctx.Err() != nil {
				break
			}
			if err := pool.Submit(MatrixJob{Request: req, JobID: i}); err != nil {
				break
			}
			n++
		}
		pool.FinishSubmitting()
		submitted <- n
	}()

	var (
		results  []MatrixResult
		failures []MatrixError
	)
	expected := len(reqs)
	for received := 0; received < expected; {
		select {
		case <-ctx.Done():
			pool.Abort()
			if submitted != nil {
				<-submitted
			}
			pool.Stop()
			return nil, nil, ctx.Err()
		case n := <-submitted:
			// Submission may stop early only when the pool was cancelled.
			expected = n
			submitted = nil
		case r := <-pool.Results():
			results = append(results, r)
			received++
		case e := <-pool.Errors():
			failures = append(failures, e)
			received++
		}
	}
	if submitted != nil {
		<-submitted
	}
	pool.Stop()

	if expected < len(reqs) {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("matrix pool accepted %d of %d requests", expected, len(reqs))
	}

	sort.Slice(results, func(i, j int) bool { return results[i].JobID < results[j].JobID })
	sort.Slice(failures, func(i, j int) bool { return failures[i].JobID < failures[j].JobID })
	return results, failures, nil
}
