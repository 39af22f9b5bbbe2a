// Package parallel provides the worker pool used to optimize independent
// subtrees of a scene graph concurrently.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool is a fixed set of goroutines pulling work from a shared queue.
//
// Every submitted task runs on exactly one worker. Tasks must not submit
// further work to the same pool and wait for it; the pool does not grow.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int
	queue   chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool

	// mu is held for reading while submitting so Close cannot close done
	// between the running check and the send.
	mu sync.RWMutex
}

// NewWorkerPool creates a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
// The pool starts immediately.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// 4x workers hides scheduling latency without unbounded buffering.
	p := &WorkerPool{
		workers: workers,
		queue:   make(chan func(), workers*4),
		done:    make(chan struct{}),
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case work := <-p.queue:
			work()
		case <-p.done:
			// Drain what was queued before Close.
			for {
				select {
				case work := <-p.queue:
					work()
				default:
					return
				}
			}
		}
	}
}

// Run calls fn(i) for every i in [0, n) on the pool's workers and waits
// for all calls to return. Each index is handled by exactly one worker.
// If the pool is closed, Run executes the remaining calls on the calling
// goroutine so that every index is still processed.
func (p *WorkerPool) Run(n int, fn func(i int)) {
	if n <= 0 {
		return
	}

	var wg sync.WaitGroup
	wg.Add(n)
	p.mu.RLock()
	open := p.running.Load()
	for i := range n {
		task := func() {
			defer wg.Done()
			fn(i)
		}
		if open {
			p.queue <- task
		} else {
			task()
		}
	}
	p.mu.RUnlock()
	wg.Wait()
}

// Close stops the workers after the queued work has run.
// Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if !p.running.CompareAndSwap(true, false) {
		p.mu.Unlock()
		return
	}
	close(p.done)
	p.mu.Unlock()
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning returns true if the pool is still accepting work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}
