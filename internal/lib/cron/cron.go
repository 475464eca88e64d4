package cron

import (
	"time"

	"github.com/robfig/cron/v3"
)

// ScheduleSpec wraps a parsed cron expression of a job schedule.
type ScheduleSpec struct {
	schedule cron.Schedule
}

func ParseCronSchedule(interval string) (*ScheduleSpec, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	schedule, err := parser.Parse(interval)
	if err != nil {
		return nil, err
	}
	return &ScheduleSpec{schedule: schedule}, nil
}

func (s *ScheduleSpec) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}
