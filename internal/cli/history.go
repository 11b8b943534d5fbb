package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nhle/jiractl/internal/store"
	"github.com/nhle/jiractl/internal/theme"
)

func (a *app) newHistoryCmd() *cobra.Command {
	var (
		limit     int
		offset    int
		failed    bool
		operation string
		prune     int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent invocations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, release, err := a.openStore()
			if err != nil {
				return exitError(exitFailure, "%v", err)
			}
			defer release()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if cmd.Flags().Changed("prune") {
				n, err := s.PruneInvocations(ctx, prune)
				if err != nil {
					return exitError(exitFailure, "%v", err)
				}
				writeLine(out, fmt.Sprintf("Removed %d entries", n))
				return nil
			}

			filter := store.InvocationFilter{Limit: limit, Offset: offset, OnlyFailed: failed}
			if operation != "" {
				filter.Operation = &operation
			}
			rows, err := s.ListInvocations(ctx, filter)
			if err != nil {
				return exitError(exitFailure, "%v", err)
			}

			switch a.format {
			case formatJSON:
				data, err := json.MarshalIndent(rows, "", "  ")
				if err != nil {
					return err
				}
				writeLine(out, string(data))
				return nil
			case formatYAML:
				data, err := yaml.Marshal(rows)
				if err != nil {
					return err
				}
				fmt.Fprint(out, string(data))
				return nil
			}

			if len(rows) == 0 {
				writeLine(out, theme.HelpStyle.Render("No history yet."))
				return nil
			}

			timeCol := lipgloss.NewStyle().Width(20)
			opCol := lipgloss.NewStyle().Width(16)
			statusCol := lipgloss.NewStyle().Width(8)

			for _, r := range rows {
				result := theme.SuccessStyle.Render("ok")
				if !r.Success {
					result = theme.ErrorStyle.Render("failed")
				}
				status := "-"
				if r.Status != 0 {
					status = strconv.Itoa(r.Status)
				}
				line := timeCol.Render(r.CreatedAt.Local().Format("2006-01-02 15:04:05")) +
					opCol.Render(theme.KeyStyle.Render(r.Operation)) +
					statusCol.Render(status) +
					result
				if r.Params != "" && r.Params != "{}" {
					line += "  " + theme.LabelStyle.Render(r.Params)
				}
				writeLine(out, line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Number of entries to show")
	cmd.Flags().IntVar(&offset, "offset", 0, "Skip this many of the newest entries")
	cmd.Flags().BoolVar(&failed, "failed", false, "Only show failed invocations")
	cmd.Flags().StringVar(&operation, "operation", "", "Only show this operation")
	cmd.Flags().IntVar(&prune, "prune", 0, "Delete all but the newest N entries")

	return cmd
}
