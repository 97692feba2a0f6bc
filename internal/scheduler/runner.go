package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"loancore/internal/usecase/settlement"
)

// Runner drives the periodic settlement pass. One pass fires immediately at
// Start so a restarted service never waits a full interval to catch up.
type Runner struct {
	settle   *settlement.Usecase
	interval time.Duration

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func New(settle *settlement.Usecase, interval time.Duration) *Runner {
	return &Runner{
		settle:   settle,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (r *Runner) Start(ctx context.Context) {
	go r.loop(ctx)
}

// Stop blocks until an in-flight pass finishes.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
	<-r.done
}

func (r *Runner) loop(ctx context.Context) {
	defer close(r.done)

	r.runPass(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.runPass(ctx)
		case <-r.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (r *Runner) runPass(ctx context.Context) {
	started := time.Now()
	sum, err := r.settle.RunOnce(ctx)
	if err != nil {
		log.Printf("scheduler: settlement pass aborted: %v", err)
		return
	}
	log.Printf("scheduler: settlement pass done in %s: processed=%d paid=%d failed=%d skipped=%d errored=%d",
		time.Since(started).Round(time.Millisecond),
		sum.Processed, sum.Paid, sum.Failed, sum.Skipped, sum.Errored)
}
