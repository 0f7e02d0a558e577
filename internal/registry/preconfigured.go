package registry

import (
	"context"
	"errors"
	"fmt"
	"maps"
)

// PreconfiguredJob is the gateway's description of an operator-defined job stage.
type PreconfiguredJob struct {
	Type          string         `json:"type"`
	Label         string         `json:"label,omitempty"`
	Description   string         `json:"description,omitempty"`
	CloudProvider string         `json:"cloudProvider,omitempty"`
	Parameters    []JobParameter `json:"parameters,omitempty"`
}

// JobParameter is a single input of a preconfigured job.
type JobParameter struct {
	Name         string `json:"name"`
	Label        string `json:"label,omitempty"`
	Description  string `json:"description,omitempty"`
	DefaultValue string `json:"defaultValue,omitempty"`
	Type         string `json:"type,omitempty"`
}

// JobLister fetches preconfigured job metadata.
type JobLister interface {
	PreconfiguredJobs(ctx context.Context) ([]PreconfiguredJob, error)
}

// RegisterPreconfiguredJobStage fetches fresh job metadata, applies the job's
// parameter defaults to cfg.Defaults["parameters"] and registers the stage.
// A job missing from the metadata is still registered, without defaults.
func (r *Registry) RegisterPreconfiguredJobStage(ctx context.Context, cfg StageTypeConfig, jobs JobLister) error {
	list, err := jobs.PreconfiguredJobs(ctx)
	if err != nil {
		return fmt.Errorf("listing preconfigured jobs for stage %s: %w", cfg.Key, err)
	}

	params := map[string]any{}

	for i := range list {
		job := &list[i]
		if job.Type != cfg.Key {
			continue
		}

		for _, p := range job.Parameters {
			params[p.Name] = p.DefaultValue
		}

		if cfg.Label == "" {
			cfg.Label = job.Label
		}
		if cfg.Description == "" {
			cfg.Description = job.Description
		}

		break
	}

	defaults := maps.Clone(cfg.Defaults)
	if defaults == nil {
		defaults = map[string]any{}
	}
	defaults["parameters"] = params
	cfg.Defaults = defaults

	r.RegisterStage(cfg)

	return nil
}

// RegisterPreconfiguredJobStages lists the available jobs and registers a
// stage for each through RegisterPreconfiguredJobStage, so every stage is
// built from freshly fetched metadata. Failures for single jobs are joined.
func (r *Registry) RegisterPreconfiguredJobStages(ctx context.Context, jobs JobLister) error {
	list, err := jobs.PreconfiguredJobs(ctx)
	if err != nil {
		return fmt.Errorf("listing preconfigured jobs: %w", err)
	}

	var errs []error

	for i := range list {
		if list[i].Type == "" {
			continue
		}

		errs = append(errs, r.RegisterPreconfiguredJobStage(ctx, PreconfiguredJobStage(list[i].Type), jobs))
	}

	return errors.Join(errs...)
}

// PreconfiguredJobStage returns the stage config skeleton for a preconfigured
// job of the given type.
func PreconfiguredJobStage(jobType string) StageTypeConfig {
	return StageTypeConfig{
		Key:                      jobType,
		Component:                "PreconfiguredJobStageConfig",
		ExecutionDetailsSections: []string{"preconfiguredJobExecutionDetails", "taskStatus"},
		Restartable:              true,
	}
}
