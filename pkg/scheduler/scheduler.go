package scheduler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Job — периодическая задача, запускаемая планировщиком.
type Job func(ctx context.Context) error

type Scheduler struct {
	name     string
	job      Job
	interval time.Duration
}

func NewScheduler(name string, job Job, interval time.Duration) *Scheduler {
	return &Scheduler{
		name:     name,
		job:      job,
		interval: interval,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.job(ctx); err != nil {
				logrus.Errorf("Scheduler %s: job failed: %v", s.name, err)
			}
		case <-ctx.Done():
			return
		}
	}
}
