package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/goto/tidewatch/config"
)

const refreshTimeout = time.Minute * 15

type refreshCommand struct {
	setup *mirrorSetup

	configFilePath string
}

// NewRefreshCommand initializes command to force a rebuild from the scheduler
func NewRefreshCommand() *cobra.Command {
	refresh := &refreshCommand{}

	cmd := &cobra.Command{
		Use:     "refresh",
		Short:   "Invalidate the cached snapshot and rebuild it from the scheduler",
		Example: "tidewatch refresh",
		RunE:    refresh.RunE,
		PreRunE: refresh.PreRunE,
	}

	cmd.Flags().StringVarP(&refresh.configFilePath, "config", "c", config.EmptyPath, "File path for tidewatch configuration")
	return cmd
}

func (r *refreshCommand) PreRunE(_ *cobra.Command, _ []string) error {
	setup, err := newMirrorSetup(r.configFilePath)
	if err != nil {
		return err
	}
	r.setup = setup
	return nil
}

func (r *refreshCommand) RunE(_ *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	start := time.Now()
	snapshot, err := r.setup.service.Refresh(ctx)
	if err != nil {
		return err
	}

	r.setup.logger.Info("refreshed %d jobs with %d dependencies, took %s",
		len(snapshot.Jobs), snapshot.Graph.EdgeCount(), time.Since(start).Round(time.Second))
	return nil
}
