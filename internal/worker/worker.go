package worker

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
)

// Task is a function that represents a background job
type Task func(ctx context.Context) error

// Pool runs background maintenance jobs (cache version bumps, cache warming)
// off the request path
type Pool struct {
	tasks   chan Task
	wg      sync.WaitGroup
	closing atomic.Bool
}

func NewPool(workers, queueSize int) *Pool {
	p := &Pool{
		tasks: make(chan Task, queueSize),
	}

	for range workers {
		p.wg.Add(1)
		go p.run()
	}

	return p
}

func (p *Pool) run() {
	defer p.wg.Done()
	for task := range p.tasks {
		if err := task(context.Background()); err != nil {
			log.Printf("Worker task failed: %v", err)
		}
	}
}

// Submit enqueues a task. Tasks are dropped when the queue is full or the
// pool is shutting down; maintenance work is safe to lose.
func (p *Pool) Submit(t Task) {
	if p.closing.Load() {
		log.Println("Warning: task submitted during shutdown, dropping.")
		return
	}
	select {
	case p.tasks <- t:
	default:
		log.Println("Task queue full, dropping task!")
	}
}

// Shutdown closes the queue and waits for workers to finish
func (p *Pool) Shutdown() {
	p.closing.Store(true)
	close(p.tasks)
	p.wg.Wait()
}
