package scheduler

import (
	"context"
	"log"
	"sync"
	"time"
)

// Handler is one unit of scheduled work.
type Handler func(ctx context.Context)

type job struct {
	name    string
	trigger Trigger
	handler Handler
	next    time.Time
	running bool
}

// Scheduler fires registered jobs when their triggers come due. A job never
// runs concurrently with itself: a tick that arrives while the previous run
// is still going is dropped and the next fire time advances past it.
type Scheduler struct {
	mu       sync.Mutex
	jobs     map[string]*job
	poll     time.Duration
	timeout  time.Duration
	stopChan chan struct{}
	wg       sync.WaitGroup
	logger   *log.Logger
	now      func() time.Time

	// OnSkip, when set, observes dropped ticks.
	OnSkip func(name string)
}

// NewScheduler creates a scheduler. timeout bounds each job run; zero
// means unbounded.
func NewScheduler(logger *log.Logger, timeout time.Duration) *Scheduler {
	return &Scheduler{
		jobs:     make(map[string]*job),
		poll:     time.Second,
		timeout:  timeout,
		stopChan: make(chan struct{}),
		logger:   logger,
		now:      time.Now,
	}
}

// SetPollInterval shortens the tick for tests. Call before Start.
func (s *Scheduler) SetPollInterval(d time.Duration) {
	s.poll = d
}

// SetClock pins the clock for tests. Call before Start.
func (s *Scheduler) SetClock(now func() time.Time) {
	s.now = now
}

// AddJob registers a job. The first fire time is computed from now.
func (s *Scheduler) AddJob(name string, trigger Trigger, handler Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[name] = &job{
		name:    name,
		trigger: trigger,
		handler: handler,
		next:    trigger.Next(s.now()),
	}
	s.logger.Printf("Scheduled job %s, first run at %s", name, s.jobs[name].next.Format(time.RFC3339))
}

// Start runs the dispatch loop until Stop is called.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.loop()
}

func (s *Scheduler) loop() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.dispatch()
		}
	}
}

func (s *Scheduler) dispatch() {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, j := range s.jobs {
		if j.next.After(now) {
			continue
		}
		// Advance past the tick whether we run it or drop it, so a
		// long-running job does not cause a burst of catch-up runs.
		j.next = j.trigger.Next(now)

		if j.running {
			s.logger.Printf("Job %s still running, skipping this tick", j.name)
			if s.OnSkip != nil {
				s.OnSkip(j.name)
			}
			continue
		}

		j.running = true
		s.wg.Add(1)
		go s.run(j)
	}
}

func (s *Scheduler) run(j *job) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		j.running = false
		s.mu.Unlock()
	}()

	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.logger.Printf("Running job %s", j.name)
	j.handler(ctx)
}

// Stop halts dispatch and waits for in-flight jobs to finish.
func (s *Scheduler) Stop() {
	close(s.stopChan)
	s.wg.Wait()
	s.logger.Printf("Scheduler stopped")
}
