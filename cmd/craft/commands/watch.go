package commands

import (
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/craft/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [target]",
		Short: "Run a task and rerun it when files change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Help()
				return nil
			}
			outputMode, _ := cmd.Flags().GetString("output-mode")
			debounce, _ := cmd.Flags().GetDuration("debounce")

			return c.app.Watch(cmd.Context(), args[0], app.WatchOptions{
				OutputMode: outputMode,
				Debounce:   debounce,
			})
		},
	}
	cmd.Flags().StringP("output-mode", "o", "auto", "Output mode: auto, color, or plain")
	cmd.Flags().Duration("debounce", 200*time.Millisecond, "Quiet window before rerunning after a change")
	return cmd
}
