package cmd

import (
	"os"
	"time"

	"github.com/goto/salt/log"
	"github.com/spf13/afero"

	"github.com/goto/tidewatch/config"
	"github.com/goto/tidewatch/core/mirror/resolver"
	"github.com/goto/tidewatch/core/mirror/service"
	"github.com/goto/tidewatch/ext/scheduler/tidal"
	"github.com/goto/tidewatch/internal/store/history"
	"github.com/goto/tidewatch/internal/store/snapshot"
)

// mirrorSetup wires the scheduler client, stores and service from the
// loaded configuration. Commands build one in PreRunE.
type mirrorSetup struct {
	logger  log.Logger
	conf    *config.Config
	service *service.MirrorService
}

func newMirrorSetup(configFilePath string) (*mirrorSetup, error) {
	conf, err := config.LoadConfig(configFilePath)
	if err != nil {
		return nil, err
	}

	logger := log.NewLogrus(
		log.LogrusWithLevel(conf.Log.Level),
		log.LogrusWithWriter(os.Stderr),
	)

	schedulerClient, err := tidal.NewTidal(logger, conf.Scheduler)
	if err != nil {
		return nil, err
	}

	fs := afero.NewOsFs()
	snapshotStore := snapshot.NewStore(fs, conf.Cache.Path, time.Duration(conf.Cache.ExpiryHours)*time.Hour)
	historyStore := history.NewStore(fs, conf.History.Path, conf.History.MaxEntries)
	graphResolver := resolver.NewGraphResolver(logger, schedulerClient)

	return &mirrorSetup{
		logger:  logger,
		conf:    conf,
		service: service.NewMirrorService(logger, schedulerClient, graphResolver, snapshotStore, historyStore, conf.Scheduler.JobDirectory),
	}, nil
}
