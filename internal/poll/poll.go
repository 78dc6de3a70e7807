package poll

import (
	"context"
	"sync"
	"time"
)

// Runner drives a refresh function on a fixed interval. The function runs
// once immediately on Start and then on every tick. Stop blocks until the
// loop has exited, so no refresh can fire after Stop returns.
type Runner struct {
	interval time.Duration
	fn       func(context.Context)

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	done      chan struct{}
}

func NewRunner(interval time.Duration, fn func(context.Context)) *Runner {
	return &Runner{
		interval: interval,
		fn:       fn,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (r *Runner) Start(ctx context.Context) {
	r.startOnce.Do(func() {
		go r.run(ctx)
	})
}

func (r *Runner) run(ctx context.Context) {
	defer close(r.done)

	r.fn(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stop:
			return
		case <-ticker.C:
			r.fn(ctx)
		}
	}
}

// Stop cancels the loop and waits for any in-flight refresh to finish.
// Safe to call multiple times. Must not be called before Start.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() {
		close(r.stop)
	})
	<-r.done
}
