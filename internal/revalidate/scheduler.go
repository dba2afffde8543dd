// Package revalidate runs the periodic stock re-check against the cart.
package revalidate

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultInterval matches the storefront's minute-by-minute cadence.
const DefaultInterval = 60 * time.Second

// Scheduler invokes a revalidation callback on a fixed interval until
// stopped. All mutation happens inside the callback, which the cart
// manager serializes with user actions, so ticks can never observe or
// produce a half-applied state.
type Scheduler struct {
	interval time.Duration
	run      func()
	log      logrus.FieldLogger

	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

func NewScheduler(interval time.Duration, run func(), log logrus.FieldLogger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		interval: interval,
		run:      run,
		log:      log,
		stop:     make(chan struct{}),
	}
}

// Start launches the tick loop. Call at most once.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.loop()
	s.log.WithField("interval", s.interval).Info("revalidation scheduler started")
}

// Stop ends the loop and waits for it to exit. Safe to call more than
// once; later calls are no-ops.
func (s *Scheduler) Stop() {
	s.once.Do(func() {
		close(s.stop)
	})
	s.wg.Wait()
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.run()
		case <-s.stop:
			return
		}
	}
}
