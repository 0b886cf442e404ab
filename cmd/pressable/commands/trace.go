package commands

import (
	"github.com/agiangrant/pressable"
	"github.com/agiangrant/pressable/internal/trace"
	"github.com/spf13/cobra"
)

func newTraceCmd(e *env) *cobra.Command {
	var script string
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Replay a scripted interaction and print what the buttons do",
		Long: `Replay a scripted interaction on a simulated clock and print every
activation, telemetry marker and visual transition request.

Steps are comma separated: select, deselect, submit, click, rightclick,
hover, leave, disable, enable, hide, show, destroy take an optional button
number (click=2); wait takes a duration (wait=150ms).`,
		Example: `  pressable trace
  pressable trace --script "select=1,submit,wait=50ms,disable,wait=200ms"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			steps, err := trace.ParseScript(script)
			if err != nil {
				return err
			}
			app, err := pressable.NewApp(e.config)
			if err != nil {
				return err
			}
			return trace.Run(app, steps, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&script, "script", "s", trace.DefaultScript, "Steps to replay")
	return cmd
}
