package event

import (
	"time"
)

type Job interface {
	Execute()
}

type JobQueue chan Job

func NewJobQueue(size int) JobQueue {
	return make(JobQueue, size)
}

// Dispatch enqueues a job after an optional delay without blocking the
// caller.
func (q JobQueue) Dispatch(job Job, delay time.Duration) {
	go func() {
		if delay > 0 {
			<-time.After(delay)
		}

		q <- job
	}()
}

type WorkerPool struct {
	workers []Worker
}

func NewWorkerPool(size int, queue JobQueue) *WorkerPool {
	workers := make([]Worker, size)
	for i := 0; i < size; i++ {
		workers[i] = NewWorker(queue)
	}

	return &WorkerPool{workers}
}

func (p *WorkerPool) Start() {
	for _, worker := range p.workers {
		worker.Start()
	}
}

type Worker struct {
	jobQueue JobQueue
}

func NewWorker(jobQueue JobQueue) Worker {
	return Worker{jobQueue}
}

func (w *Worker) Start() {
	go func() {
		for job := range w.jobQueue {
			job.Execute()
		}
	}()
}

// Trigger is the send side of a Publisher.
type Trigger interface {
	TriggerEvent(m Message) error
}

// SendEventJob publishes one message through the publisher. Send
// failures are logged by the publisher; jobs are fire-and-forget.
type SendEventJob struct {
	EventMessage Message
	Publisher    Trigger
}

func (job *SendEventJob) Execute() {
	_ = job.Publisher.TriggerEvent(job.EventMessage)
}
