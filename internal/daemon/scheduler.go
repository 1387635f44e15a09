package daemon

import (
	"time"

	"github.com/eliteGoblin/focusd/keep_awake/internal/domain"
)

// loopTask is a recurring callback whose ticks are run on the agent loop.
// cancelled is only touched on the loop, so it needs no lock.
type loopTask struct {
	ticker    *time.Ticker
	stop      chan struct{}
	cancelled bool
}

// Schedule implements domain.Scheduler. Each tick is queued onto the
// agent loop; a tick queued before Cancel is dropped when it runs.
// Must be called from the agent loop.
func (a *Agent) Schedule(interval time.Duration, fn func()) domain.Task {
	t := &loopTask{
		ticker: time.NewTicker(interval),
		stop:   make(chan struct{}),
	}

	run := func() {
		if !t.cancelled {
			fn()
		}
	}

	go func() {
		for {
			select {
			case <-t.stop:
				return
			case <-a.done:
				t.ticker.Stop()
				return
			case <-t.ticker.C:
				select {
				case a.queue <- run:
				case <-t.stop:
					return
				case <-a.done:
					return
				}
			}
		}
	}()

	return t
}

// Cancel implements domain.Task. Must be called from the agent loop.
func (t *loopTask) Cancel() {
	if t.cancelled {
		return
	}
	t.cancelled = true
	t.ticker.Stop()
	close(t.stop)
}

// Ensure Agent implements domain.Scheduler.
var _ domain.Scheduler = (*Agent)(nil)
