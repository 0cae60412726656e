package concurrent

import (
	"sync"
)

// WorkerPool runs one JobFunc over every job added, with a fixed number of goroutines.
// usage: NewWorkerPool -> Start -> AddJob... -> Close -> CollectResults.
type WorkerPool[T JobI, G any] struct {
	numWorkers int
	jobQueue   chan Job[T]
	results    chan G
	wg         sync.WaitGroup
	nextID     int
}

func NewWorkerPool[T JobI, G any](numWorkers, jobQueueSize int) *WorkerPool[T, G] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &WorkerPool[T, G]{
		numWorkers: numWorkers,
		jobQueue:   make(chan Job[T], jobQueueSize),
		results:    make(chan G, jobQueueSize),
	}
}

func (wp *WorkerPool[T, G]) worker(jobFunc JobFunc[T, G]) {
	defer wp.wg.Done()
	for job := range wp.jobQueue {
		wp.results <- jobFunc(job.JobItem)
	}
}

func (wp *WorkerPool[T, G]) Start(jobFunc JobFunc[T, G]) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(jobFunc)
	}
}

// AddJob blocks when the job queue is full.
func (wp *WorkerPool[T, G]) AddJob(jobItem T) {
	wp.jobQueue <- Job[T]{ID: wp.nextID, JobItem: jobItem}
	wp.nextID++
}

// Close stops accepting jobs. results channel is closed after every worker is done.
func (wp *WorkerPool[T, G]) Close() {
	close(wp.jobQueue)
	go func() {
		wp.wg.Wait()
		close(wp.results)
	}()
}

func (wp *WorkerPool[T, G]) CollectResults() <-chan G {
	return wp.results
}

// Wait blocks until all workers finished and returns every result (order not guaranteed).
func (wp *WorkerPool[T, G]) Wait() []G {
	res := make([]G, 0)
	for r := range wp.CollectResults() {
		res = append(res, r)
	}
	return res
}
