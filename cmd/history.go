package cmd

import (
	"bytes"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/goto/tidewatch/config"
	"github.com/goto/tidewatch/core/mirror"
)

const defaultHistoryLimit = 20

type historyCommand struct {
	setup *mirrorSetup

	configFilePath string
	jobNameOrID    string
	limit          int
}

// NewHistoryCommand initializes command to list recorded job history
func NewHistoryCommand() *cobra.Command {
	historyCmd := &historyCommand{}

	cmd := &cobra.Command{
		Use:     "history",
		Short:   "List recorded status history, optionally for a single job",
		Example: "tidewatch history --job daily_load --limit 10",
		RunE:    historyCmd.RunE,
		PreRunE: historyCmd.PreRunE,
	}

	cmd.Flags().StringVarP(&historyCmd.configFilePath, "config", "c", config.EmptyPath, "File path for tidewatch configuration")
	cmd.Flags().StringVarP(&historyCmd.jobNameOrID, "job", "j", "", "Job name or id to filter on")
	cmd.Flags().IntVarP(&historyCmd.limit, "limit", "l", defaultHistoryLimit, "Maximum number of entries to show")
	return cmd
}

func (h *historyCommand) PreRunE(_ *cobra.Command, _ []string) error {
	setup, err := newMirrorSetup(h.configFilePath)
	if err != nil {
		return err
	}
	h.setup = setup
	return nil
}

func (h *historyCommand) RunE(_ *cobra.Command, _ []string) error {
	entries, err := h.setup.service.HistoryFor(h.jobNameOrID, h.limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		h.setup.logger.Info("no history recorded yet, run refresh first")
		return nil
	}

	h.setup.logger.Info(stringifyHistory(entries))
	return nil
}

func stringifyHistory(entries []*mirror.HistoryEntry) string {
	buff := &bytes.Buffer{}
	table := tablewriter.NewWriter(buff)
	table.SetBorder(true)
	table.SetHeader([]string{"Observed At", "Job", "Status", "Error Log"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetColWidth(60)

	for _, entry := range entries {
		table.Append([]string{
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			entry.JobName.String(),
			colorizeState(entry.Status),
			entry.ErrorLog,
		})
	}
	table.Render()
	return buff.String()
}
