package config

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// EmptyPath refers to default search paths for the config file
	EmptyPath = ""

	SchedulerTypeTidal = "tidal"
)

type Config struct {
	Log       LogConfig     `mapstructure:"log"`
	Scheduler Scheduler     `mapstructure:"scheduler"`
	Cache     CacheConfig   `mapstructure:"cache"`
	History   HistoryConfig `mapstructure:"history"`
}

type LogConfig struct {
	Level string `mapstructure:"level"` // log level - debug, info, warning, error, fatal
}

type Scheduler struct {
	Name         string      `mapstructure:"name"`
	Type         string      `mapstructure:"type"`
	JobDirectory string      `mapstructure:"job_directory"` // scheduler directory whose jobs get mirrored
	Config       interface{} `mapstructure:"config"`        // scheduler-type specific, decoded by the client
}

type CacheConfig struct {
	Path        string `mapstructure:"path"`
	ExpiryHours int    `mapstructure:"expiry_hours"`
}

type HistoryConfig struct {
	Path       string `mapstructure:"path"`
	MaxEntries int    `mapstructure:"max_entries"`
}

func (c *Config) Validate() error {
	if err := validation.ValidateStruct(&c.Scheduler,
		validation.Field(&c.Scheduler.Type, validation.Required, validation.In(SchedulerTypeTidal)),
		validation.Field(&c.Scheduler.Config, validation.Required),
	); err != nil {
		return err
	}
	if err := validation.ValidateStruct(&c.Cache,
		validation.Field(&c.Cache.Path, validation.Required),
		validation.Field(&c.Cache.ExpiryHours, validation.Min(1)),
	); err != nil {
		return err
	}
	return validation.ValidateStruct(&c.History,
		validation.Field(&c.History.Path, validation.Required),
		validation.Field(&c.History.MaxEntries, validation.Min(1)),
	)
}
