package validation

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/donaldgifford/deck/internal/pipeline"
	"github.com/donaldgifford/deck/internal/registry"
)

// pipelineTriggerType is the trigger fired by the completion of another
// pipeline.
const pipelineTriggerType = "pipeline"

func stageBeforeType(
	p *pipeline.Pipeline,
	node pipeline.Node,
	cfg *registry.ValidatorConfig,
	typeCfg registry.TypeConfig,
) string {
	types := cfg.RequiredStageTypes()
	if hasUpstreamType(p, node, types) {
		return ""
	}

	return beforeTypeMessage(cfg, typeCfg, types)
}

func (r *run) stageOrTriggerBeforeType(
	ctx context.Context,
	node pipeline.Node,
	cfg *registry.ValidatorConfig,
	typeCfg registry.TypeConfig,
) (string, error) {
	types := cfg.RequiredStageTypes()

	if hasUpstreamType(r.pipeline, node, types) {
		return "", nil
	}

	triggers := r.pipeline.EnabledTriggers()
	for _, t := range triggers {
		if slices.Contains(types, t.Type()) {
			return "", nil
		}
	}

	if cfg.CheckParentTriggers {
		found, err := r.parentTriggered(ctx, triggers, types)
		if err != nil {
			return "", err
		}

		if found {
			return "", nil
		}
	}

	return beforeTypeMessage(cfg, typeCfg, types), nil
}

// parentTriggered reports whether a pipeline that triggers this one has a
// trigger of one of the given types.
func (r *run) parentTriggered(ctx context.Context, triggers []pipeline.Trigger, types []string) (bool, error) {
	for _, t := range triggers {
		if t.Type() != pipelineTriggerType {
			continue
		}

		app, _ := t.Field("application").(string)
		parentID, _ := t.Field("pipeline").(string)
		if app == "" || parentID == "" {
			continue
		}

		configs, err := r.parents.get(ctx, app)
		if err != nil {
			return false, err
		}

		for i := range configs {
			if configs[i].ID != parentID {
				continue
			}

			for _, pt := range configs[i].Triggers {
				if slices.Contains(types, pt.Type()) {
					return true, nil
				}
			}
		}
	}

	return false, nil
}

func hasUpstreamType(p *pipeline.Pipeline, node pipeline.Node, types []string) bool {
	stage, ok := node.(pipeline.Stage)
	if !ok {
		return false
	}

	for _, up := range p.Upstream(stage) {
		if slices.Contains(types, up.Type()) {
			return true
		}
	}

	return false
}

func beforeTypeMessage(cfg *registry.ValidatorConfig, typeCfg registry.TypeConfig, types []string) string {
	if cfg.Message != "" {
		return cfg.Message
	}

	return fmt.Sprintf("%s requires an upstream %s stage.", typeCfg.TypeLabel(), strings.Join(types, " or "))
}
