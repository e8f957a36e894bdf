package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (c *CLI) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the tasks defined in the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := c.app.Tasks()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for task := range reg.Tasks() {
				line := task.Name.String()
				if len(task.Dependencies) > 0 {
					deps := make([]string, len(task.Dependencies))
					for i, dep := range task.Dependencies {
						deps[i] = dep.String()
					}
					line += " (deps: " + strings.Join(deps, ", ") + ")"
				}
				if task.Description != "" {
					line += " - " + task.Description
				}
				_, _ = fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}
