package vfs

import "sync"

// worker serializes an archive's mutating operations onto a single
// goroutine. Each submitted job runs to completion as one uninterruptible
// unit of work; callers block until their job has finished. This is the
// whole of the tree's write-side synchronization: there is no
// fine-grained locking inside the tree itself.
type worker struct {
	jobs chan func()
	quit chan struct{}
	once sync.Once
}

func newWorker() *worker {
	w := &worker{
		jobs: make(chan func()),
		quit: make(chan struct{}),
	}
	go w.loop()

	return w
}

func (w *worker) loop() {
	for {
		select {
		case job := <-w.jobs:
			job()
		case <-w.quit:
			return
		}
	}
}

// submit runs fn on the worker goroutine and waits for it to finish.
// Reports false when the worker has been closed.
func (w *worker) submit(fn func()) bool {
	done := make(chan struct{})
	job := func() {
		defer close(done)
		fn()
	}

	select {
	case w.jobs <- job:
		<-done
		return true
	case <-w.quit:
		return false
	}
}

func (w *worker) close() {
	w.once.Do(func() {
		close(w.quit)
	})
}
