package cmd

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/goto/tidewatch/config"
	"github.com/goto/tidewatch/core/mirror"
	"github.com/goto/tidewatch/internal/lib/cron"
	"github.com/goto/tidewatch/internal/lib/graph"
)

const graphTimeout = time.Minute * 10

type graphCommand struct {
	setup *mirrorSetup

	configFilePath string
}

// NewGraphCommand initializes command to display the job dependency graph
func NewGraphCommand() *cobra.Command {
	graphCmd := &graphCommand{}

	cmd := &cobra.Command{
		Use:     "graph",
		Short:   "Show the mirrored job dependency graph grouped by level",
		Example: "tidewatch graph",
		RunE:    graphCmd.RunE,
		PreRunE: graphCmd.PreRunE,
	}

	cmd.Flags().StringVarP(&graphCmd.configFilePath, "config", "c", config.EmptyPath, "File path for tidewatch configuration")
	return cmd
}

func (g *graphCommand) PreRunE(_ *cobra.Command, _ []string) error {
	setup, err := newMirrorSetup(g.configFilePath)
	if err != nil {
		return err
	}
	g.setup = setup
	return nil
}

func (g *graphCommand) RunE(_ *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), graphTimeout)
	defer cancel()

	snapshot, source, err := g.setup.service.GetSnapshot(ctx)
	if err != nil {
		return err
	}

	if snapshot.Graph.NodeCount() == 0 {
		g.setup.logger.Info("no job data available")
		return nil
	}

	levels, err := graph.Levels(snapshot.Graph)
	if err != nil {
		return err
	}

	g.setup.logger.Info(stringifyGraphLevels(snapshot, levels))
	g.setup.logger.Info("%d jobs, %d dependencies, source: %s, snapshot taken at %s",
		len(snapshot.Jobs), snapshot.Graph.EdgeCount(), source, snapshot.CreatedAt.Format(time.RFC3339))

	if implicit := snapshot.ImplicitNodes(); len(implicit) > 0 {
		g.setup.logger.Warn("%d triggered jobs are outside the mirrored directory and carry no status: %v", len(implicit), implicit)
	}
	return nil
}

func stringifyGraphLevels(snapshot *mirror.Snapshot, levels map[string]int) string {
	maxLevel := 0
	for _, level := range levels {
		if level > maxLevel {
			maxLevel = level
		}
	}

	buff := &bytes.Buffer{}
	table := tablewriter.NewWriter(buff)
	table.SetBorder(true)
	table.SetHeader([]string{"Level", "Job", "Status", "Started", "Finished", "Next Run"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	nodes := snapshot.Graph.Nodes()
	for level := 0; level <= maxLevel; level++ {
		for _, node := range nodes {
			if levels[node] != level {
				continue
			}
			table.Append(graphRow(level, node, snapshot.JobByName(mirror.JobName(node))))
		}
	}
	table.Render()
	return buff.String()
}

func graphRow(level int, node string, job *mirror.Job) []string {
	if job == nil {
		return []string{fmt.Sprintf("%d", level), node, "-", "-", "-", "-"}
	}
	return []string{
		fmt.Sprintf("%d", level),
		node,
		colorizeState(job.Status),
		stringifyJobTime(job.StartTime),
		stringifyJobTime(job.EndTime),
		stringifyNextRun(job.Interval),
	}
}

func colorizeState(state mirror.State) string {
	switch state {
	case mirror.StateSuccess:
		return color.GreenString(state.String())
	case mirror.StateFailed:
		return color.RedString(state.String())
	case mirror.StateRunning:
		return color.BlueString(state.String())
	case mirror.StatePending:
		return color.YellowString(state.String())
	default:
		return state.String()
	}
}

func stringifyJobTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

func stringifyNextRun(interval string) string {
	if interval == "" {
		return "-"
	}
	scheduleSpec, err := cron.ParseCronSchedule(interval)
	if err != nil {
		return "-"
	}
	return scheduleSpec.Next(time.Now()).Format("2006-01-02 15:04:05")
}
