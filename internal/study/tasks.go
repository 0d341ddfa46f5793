package study

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// maxDetachedTasks bounds concurrent background writes.
const maxDetachedTasks = 4

const detachedTaskTimeout = 10 * time.Second

// taskRunner runs best-effort background work. Failures are logged and
// never reach the state machine.
type taskRunner struct {
	sem *semaphore.Weighted
	wg  sync.WaitGroup
	log logrus.FieldLogger
}

func newTaskRunner(log logrus.FieldLogger) *taskRunner {
	return &taskRunner{
		sem: semaphore.NewWeighted(maxDetachedTasks),
		log: log,
	}
}

// Go starts fn in the background.
func (r *taskRunner) Go(name string, fn func(ctx context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), detachedTaskTimeout)
		defer cancel()

		if err := r.sem.Acquire(ctx, 1); err != nil {
			r.log.WithError(err).WithField("task", name).Warn("detached task dropped")
			return
		}
		defer r.sem.Release(1)

		if err := fn(ctx); err != nil {
			r.log.WithError(err).WithField("task", name).Warn("detached task failed")
		}
	}()
}

// Wait blocks until every started task has finished.
func (r *taskRunner) Wait() {
	r.wg.Wait()
}
