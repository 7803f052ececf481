package poller

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"emailbudget-backend/internal/gmailsync/domain"
)

// CycleRunner is the single operation the poller drives.
type CycleRunner interface {
	RunCycle(ctx context.Context) (*domain.SyncCycleResult, error)
}

// Poller runs sync cycles on a fixed interval. One long-lived goroutine is
// started at process initialization; Start and Stop gate the inner loop via
// a control channel. A stop only prevents the next cycle; an in-flight
// cycle always runs to completion.
type Poller struct {
	runner   CycleRunner
	interval time.Duration

	control chan bool
	running atomic.Bool
}

// New creates a new Poller.
func New(runner CycleRunner, interval time.Duration) *Poller {
	return &Poller{
		runner:   runner,
		interval: interval,
		control:  make(chan bool, 1),
	}
}

// Running reports whether the polling loop is active. Safe to call from
// request handlers concurrently with the loop itself.
func (p *Poller) Running() bool {
	return p.running.Load()
}

// Start enables the polling loop. No-op when already running.
func (p *Poller) Start() {
	if p.running.CompareAndSwap(false, true) {
		log.Printf("[Poller] started (interval %s)", p.interval)
		p.signal(true)
	}
}

// Stop disables the polling loop after any in-flight cycle finishes.
func (p *Poller) Stop() {
	if p.running.CompareAndSwap(true, false) {
		log.Printf("[Poller] stopped")
		p.signal(false)
	}
}

// signal never blocks: the channel holds one pending command and the
// latest one wins.
func (p *Poller) signal(start bool) {
	select {
	case <-p.control:
	default:
	}
	p.control <- start
}

// Run is the poller's long-lived loop; it returns when ctx is cancelled.
// While stopped it blocks on the control channel; while running it races
// the interval timer against a stop command.
func (p *Poller) Run(ctx context.Context) {
	for {
		if !p.running.Load() {
			select {
			case start := <-p.control:
				if !start {
					continue
				}
			case <-ctx.Done():
				return
			}
		}

		p.cycle(ctx)

		timer := time.NewTimer(p.interval)
		select {
		case start := <-p.control:
			timer.Stop()
			if !start {
				continue
			}
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

func (p *Poller) cycle(ctx context.Context) {
	result, err := p.runner.RunCycle(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrAuthRequired) || errors.Is(err, domain.ErrNotConnected) {
			// Polling cannot make progress without re-authorization.
			log.Printf("[Poller] stopping: %v", err)
			p.Stop()
			return
		}
		log.Printf("[Poller] cycle error: %v", err)
		return
	}
	if result.NewTransactions > 0 || len(result.Errors) > 0 {
		log.Printf("[Poller] cycle: %d new, %d duplicates, %d errors",
			result.NewTransactions, result.DuplicatesSkipped, len(result.Errors))
	}
}
