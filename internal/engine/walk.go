package engine

import (
	"context"
	"runtime"
	"sync"
)

// VisitFunc handles one directory and returns the subdirectories to descend
// into. It is called concurrently from several goroutines.
type VisitFunc func(ctx context.Context, dir string) []string

// DefaultWorkers is the parallelism used when a config leaves Workers at 0.
func DefaultWorkers() int {
	return min(runtime.NumCPU(), 8)
}

// Walk calls visit for root and every directory visit returns, using up to
// workers goroutines. It returns once every queued directory has been
// visited or ctx is cancelled. Directories still queued at cancellation are
// dropped without a visit.
func Walk(ctx context.Context, root string, workers int, visit VisitFunc) {
	if workers <= 0 {
		workers = DefaultWorkers()
	}

	queue := make(chan string, workers*2)
	var outstanding sync.WaitGroup // directories queued but not yet visited

	enqueue := func(dir string) {
		outstanding.Add(1)
		select {
		case queue <- dir:
		default:
			// Queue full: hand off so a worker never blocks on its own queue.
			go func() {
				select {
				case queue <- dir:
				case <-ctx.Done():
					outstanding.Done()
				}
			}()
		}
	}

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for dir := range queue {
				if ctx.Err() == nil {
					for _, sub := range visit(ctx, dir) {
						enqueue(sub)
					}
				}
				outstanding.Done()
			}
		}()
	}

	enqueue(root)
	outstanding.Wait()
	close(queue)
	wg.Wait()
}
