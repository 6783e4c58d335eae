package service

import (
	"time"

	"github.com/robfig/cron/v3"
)

// SchedulerService wraps cron-based jobs.
type SchedulerService struct {
	cron *cron.Cron
}

func NewSchedulerService(loc *time.Location) *SchedulerService {
	return &SchedulerService{
		cron: cron.New(cron.WithLocation(loc), cron.WithSeconds()),
	}
}

// ScheduleEveryMinute registers a job firing at second zero of every
// minute, aligning the countdown tick with the exact-minute due check.
func (s *SchedulerService) ScheduleEveryMinute(job func()) (cron.EntryID, error) {
	// cron format: second minute hour dom month dow
	return s.cron.AddFunc("0 * * * * *", job)
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
