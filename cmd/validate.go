package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/deck/internal/check"
	"github.com/donaldgifford/deck/internal/ui"
	"github.com/donaldgifford/deck/internal/validation"
)

var (
	validateOutputFormat string
	validateMetricsFile  string
)

var validateCmd = &cobra.Command{
	Use:   "validate <pipeline-file>",
	Short: "Validate a pipeline configuration",
	Long: `Run the validators declared by every stage and trigger type against a
pipeline configuration file (JSON or YAML).

Failures from validators marked preventSave make the command exit non-zero;
other failures are printed as warnings. Validators that need the gateway
(parent pipeline triggers, service account access) are reported as unchecked
when no gateway is configured.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateOutputFormat, "output", "o", "text", "output format (text, json)")
	validateCmd.Flags().StringVar(&validateMetricsFile, "metrics-file", "", "write validator run counts to this file in the Prometheus text format")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	w := ui.NewWriter(noColor)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	gw, err := newGateway(cfg)
	if err != nil {
		return err
	}

	reg := buildRegistry(cmd.Context(), cfg, gw, w)

	promReg := prometheus.NewRegistry()

	opts := validation.Options{
		FiatEnabled: cfg.FiatEnabled,
		Logger:      slog.Default(),
		Metrics:     validation.NewMetrics(promReg),
	}
	if gw != nil {
		opts.Pipelines = gw
		opts.ServiceAccounts = gw
	}

	validator := validation.New(reg, opts)

	var summary *validation.Results
	unsubscribe := validator.Subscribe(func(r *validation.Results) {
		summary = r
		slog.Debug("pipeline validated",
			"pipelineMessages", len(r.Pipeline),
			"stagesWithMessages", len(r.Stages),
			"preventSave", r.PreventSave)
	})
	defer unsubscribe()

	result, err := check.Run(cmd.Context(), &check.Opts{
		Validator:    validator,
		PipelinePath: args[0],
		OutputFormat: validateOutputFormat,
		Writer:       w.Out(),
		MetricsFile:  validateMetricsFile,
		Metrics:      promReg,
	})
	if err != nil {
		return err
	}

	if validateOutputFormat != "json" {
		for _, msg := range result.Unchecked {
			w.Warningf("not checked: %s", msg)
		}
	}

	if result.PreventSave {
		return errors.New("pipeline has validation failures that prevent saving")
	}

	if summary != nil && summary.HasWarnings && validateOutputFormat != "json" {
		w.Warning(fmt.Sprintf("%d validation warning(s)", len(result.Findings)))
	}

	return nil
}
