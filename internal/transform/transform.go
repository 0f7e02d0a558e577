// Package transform holds the execution transformers registered by default.
package transform

import (
	"slices"

	"github.com/donaldgifford/deck/internal/pipeline"
	"github.com/donaldgifford/deck/internal/registry"
)

// ExecutionWindowStageType is the synthetic stage that holds a pipeline until
// its execution window opens.
const ExecutionWindowStageType = "restrictExecutionDuringTimeWindow"

// ExecutionWindow marks running execution window stages, and the stages that
// own them, as suspended.
func ExecutionWindow() registry.Transformer {
	return registry.TransformerFunc(func(_ *pipeline.Application, exec *pipeline.Execution) {
		owners := map[string]bool{}

		for i := range exec.Stages {
			stage := &exec.Stages[i]
			if stage.Type != ExecutionWindowStageType || stage.Status != pipeline.StatusRunning {
				continue
			}

			stage.Status = pipeline.StatusSuspended
			stage.Suspended = true

			if stage.ParentStageID != "" {
				owners[stage.ParentStageID] = true
			}
		}

		for i := range exec.Stages {
			if owners[exec.Stages[i].ID] {
				exec.Stages[i].Suspended = true
			}
		}
	})
}

// DeploymentTargets collects the accounts every stage deploys to, as reported
// by the account extractor of the stage's registration, into the execution's
// DeploymentTargets. Targets are deduplicated and sorted.
func DeploymentTargets(reg *registry.Registry) registry.Transformer {
	return registry.TransformerFunc(func(_ *pipeline.Application, exec *pipeline.Execution) {
		targets := slices.Clone(exec.DeploymentTargets)

		for i := range exec.Stages {
			stage := exec.Stages[i].AsStage()

			cfg := reg.StageConfig(stage)
			if cfg == nil || cfg.AccountExtractor == nil {
				continue
			}

			for _, account := range cfg.AccountExtractor(stage) {
				if account != "" {
					targets = append(targets, account)
				}
			}
		}

		slices.Sort(targets)
		exec.DeploymentTargets = slices.Compact(targets)
	})
}

// Register adds the default transformers to reg.
func Register(reg *registry.Registry) {
	reg.RegisterTransformer(ExecutionWindow())
	reg.RegisterTransformer(DeploymentTargets(reg))
}
