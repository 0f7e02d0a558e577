// Package info displays the resolved registration for a stage type.
package info

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/donaldgifford/deck/internal/pipeline"
	"github.com/donaldgifford/deck/internal/registry"
)

// Opts configures the info command.
type Opts struct {
	Registry *registry.Registry
	// StageType is the stage type, or alias, to resolve.
	StageType string
	// CloudProvider selects a provider implementation when one exists.
	CloudProvider string
	// Writer is the output destination.
	Writer io.Writer
	// OutputFormat is "text" or "json".
	OutputFormat string
}

// Run resolves the stage type and prints its registration.
func Run(opts *Opts) error {
	if opts.Registry == nil {
		return errors.New("registry is required")
	}

	stage := pipeline.Stage{"type": opts.StageType}
	if opts.CloudProvider != "" {
		stage["cloudProvider"] = opts.CloudProvider
	}

	cfg := opts.Registry.StageConfig(stage)
	if cfg == nil || (cfg.Key == registry.UnmatchedStageKey && opts.StageType != registry.UnmatchedStageKey) {
		return fmt.Errorf("unknown stage type %q", opts.StageType)
	}

	impls := opts.Registry.ProvidersFor(cfg.Key)

	switch opts.OutputFormat {
	case "json":
		return renderJSON(opts.Writer, cfg, impls)
	default:
		return renderText(opts.Writer, cfg, impls)
	}
}

func renderText(w io.Writer, cfg *registry.StageTypeConfig, impls []registry.StageTypeConfig) error {
	if err := renderHeader(w, cfg); err != nil {
		return err
	}

	if len(cfg.Validators) > 0 {
		if _, err := fmt.Fprintln(w, "\nValidators:"); err != nil {
			return err
		}

		if err := renderValidators(w, cfg.Validators); err != nil {
			return err
		}
	}

	if len(impls) > 0 {
		if _, err := fmt.Fprintln(w, "\nImplementations:"); err != nil {
			return err
		}

		if err := renderImplementations(w, impls); err != nil {
			return err
		}
	}

	return nil
}

func renderHeader(w io.Writer, cfg *registry.StageTypeConfig) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	rows := [][2]string{
		{"Key", cfg.Key},
		{"Label", cfg.TypeLabel()},
		{"Description", cfg.Description},
		{"Alias", cfg.Alias},
		{"Cloud Provider", cfg.CloudProvider},
		{"Provides", cfg.Provides},
		{"Component", cfg.Component},
		{"Sections", strings.Join(cfg.ExecutionDetailsSections, ", ")},
		{"Flags", strings.Join(flags(cfg), ", ")},
	}

	for _, row := range rows {
		if row[1] == "" {
			continue
		}

		if _, err := fmt.Fprintf(tw, "%s:\t%s\n", row[0], row[1]); err != nil {
			return err
		}
	}

	return tw.Flush()
}

func flags(cfg *registry.StageTypeConfig) []string {
	var out []string
	if cfg.Synthetic {
		out = append(out, "synthetic")
	}
	if cfg.Restartable {
		out = append(out, "restartable")
	}
	if cfg.Strategy {
		out = append(out, "strategy")
	}
	if cfg.UseBaseProvider {
		out = append(out, "useBaseProvider")
	}

	return out
}

func renderValidators(w io.Writer, validators []registry.ValidatorConfig) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintln(tw, "  TYPE\tPREVENTS SAVE\tDETAIL"); err != nil {
		return err
	}

	for i := range validators {
		v := &validators[i]

		preventSave := ""
		if v.PreventSave {
			preventSave = "yes"
		}

		if _, err := fmt.Fprintf(tw, "  %s\t%s\t%s\n", v.Type, preventSave, validatorDetail(v)); err != nil {
			return err
		}
	}

	return tw.Flush()
}

func validatorDetail(v *registry.ValidatorConfig) string {
	switch v.Type {
	case registry.KindRequiredField:
		return v.FieldName
	case registry.KindAnyFieldRequired:
		names := make([]string, 0, len(v.Fields))
		for _, f := range v.Fields {
			names = append(names, f.FieldName)
		}

		return strings.Join(names, " | ")
	case registry.KindStageBeforeType, registry.KindStageOrTriggerBeforeType:
		return strings.Join(v.RequiredStageTypes(), " | ")
	default:
		return v.Message
	}
}

func renderImplementations(w io.Writer, impls []registry.StageTypeConfig) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintln(tw, "  PROVIDER\tKEY\tCOMPONENT"); err != nil {
		return err
	}

	for i := range impls {
		impl := &impls[i]

		provider := impl.CloudProvider
		if provider == "" {
			provider = strings.Join(impl.ProvidesFor, ", ")
		}

		if _, err := fmt.Fprintf(tw, "  %s\t%s\t%s\n", provider, impl.Key, impl.Component); err != nil {
			return err
		}
	}

	return tw.Flush()
}

func renderJSON(w io.Writer, cfg *registry.StageTypeConfig, impls []registry.StageTypeConfig) error {
	out := jsonOutput{
		StageTypeConfig: cfg,
		Implementations: impls,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(out)
}

type jsonOutput struct {
	*registry.StageTypeConfig

	Implementations []registry.StageTypeConfig `json:"implementations,omitempty"`
}
