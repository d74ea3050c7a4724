// services/scheduler.go
package services

import (
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler runs periodic maintenance tasks such as cooldown eviction and
// expiry of abandoned admin workflows.
type Scheduler struct {
	sched gocron.Scheduler
}

func NewScheduler() (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return &Scheduler{sched: sched}, nil
}

// Every registers task to run at a fixed interval. Runs never overlap.
func (s *Scheduler) Every(name string, interval time.Duration, task func()) error {
	_, err := s.sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("❌ [Scheduler] %s panicked: %v", name, r)
				}
			}()
			task()
		}),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.sched.Start()
}

func (s *Scheduler) Shutdown() error {
	return s.sched.Shutdown()
}
