// Package check validates a pipeline file against the registered stage and
// trigger types and reports what it finds.
package check

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/donaldgifford/deck/internal/pipeline"
	"github.com/donaldgifford/deck/internal/validation"
)

// Opts configures the check operation.
type Opts struct {
	Validator *validation.Validator
	// PipelinePath is a pipeline document in JSON or YAML.
	PipelinePath string
	// OutputFormat is "text" or "json".
	OutputFormat string
	// Writer is the output destination.
	Writer io.Writer

	// MetricsFile, when set, receives the Metrics gatherer's samples in the
	// Prometheus text format once the pipeline has been validated.
	MetricsFile string
	Metrics     prometheus.Gatherer
}

// Finding is one validation message.
type Finding struct {
	// Node names the stage the message belongs to, or "pipeline" for
	// trigger messages.
	Node    string `json:"node"`
	Type    string `json:"type,omitempty"`
	Message string `json:"message"`
}

// Result holds the outcome of checking a pipeline.
type Result struct {
	Pipeline    string    `json:"pipeline"`
	Findings    []Finding `json:"findings"`
	PreventSave bool      `json:"preventSave"`
	// Unchecked lists why some validators could not run.
	Unchecked []string `json:"unchecked,omitempty"`
}

// Run loads the pipeline, validates it and renders the findings. Validators
// that could not reach their collaborators are reported in Unchecked rather
// than failing the run.
func Run(ctx context.Context, opts *Opts) (*Result, error) {
	if opts.Validator == nil {
		return nil, errors.New("validator is required")
	}

	if opts.MetricsFile != "" && opts.Metrics == nil {
		return nil, errors.New("metrics file requires a metrics gatherer")
	}

	p, err := pipeline.Load(opts.PipelinePath)
	if err != nil {
		return nil, err
	}

	results, verr := opts.Validator.ValidatePipeline(ctx, p)

	result := &Result{
		Pipeline:    p.Name,
		Findings:    []Finding{},
		PreventSave: results.PreventSave,
	}

	for _, msg := range results.Pipeline {
		result.Findings = append(result.Findings, Finding{Node: "pipeline", Message: msg})
	}

	for i := range results.Stages {
		sr := &results.Stages[i]
		for _, msg := range sr.Messages {
			result.Findings = append(result.Findings, Finding{
				Node:    nodeName(sr.Stage),
				Type:    sr.Stage.Type(),
				Message: msg,
			})
		}
	}

	if verr != nil {
		result.Unchecked = unwrapAll(verr)
	}

	if opts.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.MetricsFile, opts.Metrics); err != nil {
			return result, fmt.Errorf("writing metrics to %s: %w", opts.MetricsFile, err)
		}
	}

	return result, renderResult(opts.Writer, opts.OutputFormat, result)
}

func nodeName(stage pipeline.Stage) string {
	if name := stage.Name(); name != "" {
		return name
	}

	if ref := stage.RefID(); ref != "" {
		return "stage " + ref
	}

	return "stage"
}

// unwrapAll flattens an errors.Join tree into its messages.
func unwrapAll(err error) []string {
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) {
		return []string{err.Error()}
	}

	var out []string
	for _, e := range joined.Unwrap() {
		out = append(out, unwrapAll(e)...)
	}

	return out
}

func renderResult(w io.Writer, format string, result *Result) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(result)
	default:
		return renderText(w, result)
	}
}

func renderText(w io.Writer, result *Result) error {
	if len(result.Findings) == 0 {
		_, err := fmt.Fprintf(w, "%s: no problems found\n", displayName(result))

		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintln(tw, "NODE\tTYPE\tMESSAGE"); err != nil {
		return err
	}

	for i := range result.Findings {
		f := &result.Findings[i]
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Node, f.Type, f.Message); err != nil {
			return err
		}
	}

	return tw.Flush()
}

func displayName(result *Result) string {
	if result.Pipeline == "" {
		return "pipeline"
	}

	return result.Pipeline
}
