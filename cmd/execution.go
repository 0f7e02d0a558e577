package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/deck/internal/executions"
	"github.com/donaldgifford/deck/internal/ui"
)

var (
	execOutputFormat string
	execWatch        bool
	execInterval     time.Duration
	execAttempts     int
)

var executionCmd = &cobra.Command{
	Use:   "execution <id>",
	Short: "Show a pipeline execution",
	Long: `Fetch a pipeline execution from the gateway and show each stage with the
execution detail sections its stage type declares.

With --watch the execution is polled until it reaches a terminal status or
--attempts polls have been made.`,
	Args: cobra.ExactArgs(1),
	RunE: runExecution,
}

func init() {
	executionCmd.Flags().StringVarP(&execOutputFormat, "output", "o", "table", "output format (table, json)")
	executionCmd.Flags().BoolVarP(&execWatch, "watch", "w", false, "poll until the execution finishes")
	executionCmd.Flags().DurationVar(&execInterval, "interval", 5*time.Second, "delay between polls with --watch")
	executionCmd.Flags().IntVar(&execAttempts, "attempts", 120, "maximum number of polls with --watch")
	rootCmd.AddCommand(executionCmd)
}

func runExecution(cmd *cobra.Command, args []string) error {
	w := ui.NewWriter(noColor)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	gw, err := requireGateway(cfg)
	if err != nil {
		return err
	}

	svc := executions.New(buildRegistry(cmd.Context(), cfg, gw, w), gw, nil)

	if !execWatch {
		view, err := svc.Describe(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		return executions.Render(w, view, execOutputFormat)
	}

	last := ""
	view, err := svc.Watch(cmd.Context(), args[0], executions.WatchOpts{
		Attempts: execAttempts,
		Interval: execInterval,
		OnPoll: func(v *executions.View) {
			if v.Execution.Status != last && execOutputFormat != "json" {
				w.Infof("%s is %s", args[0], w.Status(v.Execution.Status))
				last = v.Execution.Status
			}
		},
	})
	if view != nil {
		if renderErr := executions.Render(w, view, execOutputFormat); renderErr != nil {
			return renderErr
		}
	}

	return err
}
