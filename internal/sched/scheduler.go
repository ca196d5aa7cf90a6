// Package sched wraps gocron for the worker's periodic jobs.
package sched

import (
	"time"

	"github.com/go-co-op/gocron"
)

type Scheduler struct {
	scheduler *gocron.Scheduler
}

func NewScheduler() *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.TagsUnique()
	return &Scheduler{scheduler: s}
}

func (s *Scheduler) Start() {
	s.scheduler.StartAsync()
}

func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// ScheduleCron registers a job under a unique tag with a cron expression.
func (s *Scheduler) ScheduleCron(tag string, cronExpr string, job func() error) error {
	_, err := s.scheduler.Cron(cronExpr).Tag(tag).Do(job)
	return err
}

// ScheduleInterval registers a job to run at a fixed interval.
func (s *Scheduler) ScheduleInterval(tag string, duration time.Duration, job func() error) error {
	_, err := s.scheduler.Every(duration).Tag(tag).Do(job)
	return err
}
