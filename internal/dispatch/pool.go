package dispatch

import "sync"

// task is one unit of tile work.
type task func(workerID int)

// workerPool fans tile tasks out across a fixed set of goroutines with
// dynamic, unordered pickup. Granularity is one tile per task; Wait is the
// join barrier of the fork-join dispatch.
type workerPool struct {
	numWorkers int
	tasks      chan task
	wg         sync.WaitGroup // workers
	taskWG     sync.WaitGroup // in-flight tasks
}

func newWorkerPool(numWorkers, queueSize int) *workerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if queueSize < numWorkers {
		queueSize = numWorkers
	}
	return &workerPool{
		numWorkers: numWorkers,
		tasks:      make(chan task, queueSize),
	}
}

// start launches the worker goroutines.
func (p *workerPool) start() {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

func (p *workerPool) worker(id int) {
	defer p.wg.Done()
	for t := range p.tasks {
		t(id)
		p.taskWG.Done()
	}
}

// submit queues a task for the next free worker.
func (p *workerPool) submit(t task) {
	p.taskWG.Add(1)
	p.tasks <- t
}

// wait blocks until every submitted task has completed.
func (p *workerPool) wait() {
	p.taskWG.Wait()
}

// stop closes the queue and waits for the workers to exit.
func (p *workerPool) stop() {
	close(p.tasks)
	p.wg.Wait()
}
