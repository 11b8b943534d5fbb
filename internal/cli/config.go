package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nhle/jiractl/internal/model"
	"github.com/nhle/jiractl/internal/ops"
	"github.com/nhle/jiractl/internal/theme"
)

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			values := a.cfg.Values()

			var rec ops.Record
			for _, k := range model.Keys() {
				rec.Set(k, fmt.Sprint(values[k]))
			}

			out := cmd.OutOrStdout()
			switch a.format {
			case formatJSON, formatYAML:
				return a.writeResult(out, &ops.Result{StateKey: "config", Record: rec})
			}

			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}
			writeLine(out, theme.LabelStyle.Render("# "+a.configPath))
			fmt.Fprint(out, string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one configuration key and save the file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Reload without --server so the override is not persisted.
			cfg, err := model.LoadConfig(a.configPath)
			if err != nil {
				return exitError(exitUsage, "%v", err)
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return exitError(exitUsage, "%v", err)
			}
			if err := model.SaveConfig(a.configPath, cfg); err != nil {
				return exitError(exitFailure, "%v", err)
			}
			writeLine(cmd.OutOrStdout(), fmt.Sprintf("%s = %s", args[0], args[1]))
			return nil
		},
	})

	return cmd
}
