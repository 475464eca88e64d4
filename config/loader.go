package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/goto/tidewatch/internal/errors"
)

const (
	configFileName  = "tidewatch"
	configFileType  = "yaml"
	configEnvPrefix = "TIDEWATCH"
)

// LoadConfig reads configuration from the given file, falling back to a
// tidewatch.yaml on the search paths, with TIDEWATCH_* environment
// variables taking precedence over file values.
func LoadConfig(filePath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType(configFileType)
	if filePath == EmptyPath {
		v.SetConfigName(configFileName)
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config")
	} else {
		v.SetConfigFile(filePath)
	}

	v.SetEnvPrefix(configEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if filePath != EmptyPath || !errors.As(err, &notFoundErr) {
			return nil, errors.Wrap("config", "unable to read config file", err)
		}
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, errors.Wrap("config", "unable to decode config", err)
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.InvalidArgument("config", "invalid configuration: "+err.Error())
	}
	return &conf, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "INFO")
	v.SetDefault("scheduler.type", SchedulerTypeTidal)
	v.SetDefault("cache.path", "data/job_cache.json")
	v.SetDefault("cache.expiry_hours", 24)
	v.SetDefault("history.path", "data/job_history.json")
	v.SetDefault("history.max_entries", 1000)
}
