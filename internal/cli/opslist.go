package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/jiractl/internal/ops"
	"github.com/nhle/jiractl/internal/theme"
)

func (a *app) newOpsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "List the available operations and their parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			if a.format != formatText {
				var rec ops.Record
				for _, c := range ops.Contracts() {
					rec.Set(string(c.Name), paramSummary(c))
				}
				return a.writeResult(out, &ops.Result{StateKey: "operations", Record: rec})
			}

			for _, c := range ops.Contracts() {
				writeLine(out, theme.KeyStyle.Render(string(c.Name))+"  "+c.Description)
				for _, p := range c.Params() {
					flag := fmt.Sprintf("-%s, --%s", p.Short, p.Long)
					kind := "optional"
					if p.Required {
						kind = "required"
					}
					writeLine(out, fmt.Sprintf("    %-18s %s %s",
						flag, p.Help, theme.LabelStyle.Render("("+kind+")")))
				}
			}
			return nil
		},
	}
}

// paramSummary lists parameter names, optional ones in brackets.
func paramSummary(c ops.Contract) string {
	parts := make([]string, 0, len(c.Required)+len(c.Optional))
	for _, p := range c.Required {
		parts = append(parts, p.Name)
	}
	for _, p := range c.Optional {
		parts = append(parts, "["+p.Name+"]")
	}
	return strings.Join(parts, " ")
}
