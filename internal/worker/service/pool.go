package service

import "sync"

type Task func()

// Pool runs submitted tasks on a fixed number of goroutines. Submit blocks
// while every worker is busy, which gives the processing loop natural
// backpressure against the scheduler.
type Pool struct {
	numWorkers int
	tasks      chan Task
	wg         sync.WaitGroup
}

func NewPool(numWorkers int) *Pool {
	return &Pool{
		numWorkers: numWorkers,
		tasks:      make(chan Task),
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for task := range p.tasks {
				task()
			}
		}()
	}
}

func (p *Pool) Submit(task Task) {
	p.tasks <- task
}

// Close stops accepting tasks and waits for in-flight ones to finish.
func (p *Pool) Close() {
	close(p.tasks)
	p.wg.Wait()
}
